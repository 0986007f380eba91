// Package analytics derives reporting features from the clean order record
// set: RFM rows per customer, daily sales, product revenue leaderboards,
// monthly product trends, and customer lifetime value.
//
// All aggregations are pure functions over the whole record set. Output
// ordering is total and deterministic: ties in any sort (equal revenue, equal
// LTV) break by the natural key ascending, so repeated runs on identical
// input always produce identical results, including top-K selections.
//
// The recency reference ("snapshot instant") is always derived from the data
// itself, the maximum present purchase instant across the clean set, never
// from the wall clock. Callers compute it once with Snapshot and thread it
// through explicitly.
package analytics
