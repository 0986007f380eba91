// Package ingest loads order record sets from their external sources: raw
// CSV exports, Excel workbooks, and the BigQuery warehouse. It is glue
// around the cleaning pipeline; the only contract it owes the core is an
// in-memory record set matching the raw order schema.
package ingest
