// Package cleaning implements the order cleaning pipeline: text field
// normalization, timestamp and price coercion, and cross-field consistency
// flagging.
//
// # Architecture
//
// The pipeline runs three stages in strict order over an entire record set:
//
//  1. Normalizer: canonicalizes free-text fields and maps null tokens to missing
//  2. Coercer: parses timestamps into UTC instants and prices into decimals
//  3. Flagger: derives the ship-before-purchase integrity flag
//
// Each stage consumes the previous stage's output and returns a new record
// set; nothing is mutated in place. A record set carries a maturity level
// (raw, normalized, coerced, clean) and a later stage refuses to run on a set
// that has not passed through all earlier stages.
//
// # Error Handling
//
// Field-level coercion failures are never fatal: the field becomes missing
// and the row proceeds. Partial data is preferable to dropping whole rows.
// Columns configured for normalization but absent from the schema are skipped
// and reported, not failed.
//
// # Usage
//
//	pipeline := cleaning.NewPipeline(cleaning.DefaultConfig(), logger)
//	clean, report, err := pipeline.Run(ctx, domain.NewRawSet(records))
//
// The returned report carries per-column change counters, coercion failure
// counts, and the flagged-row count. These are diagnostics only; the
// transformation's contract does not depend on them.
package cleaning
