// Package operations orchestrates pipeline runs as sequences of steps.
//
// A run executes the load, clean, aggregate, and export steps in order,
// tracking per-step state and streaming progress updates to any registered
// broadcaster (the web layer forwards them over WebSocket). Each run is
// identified by a UUID and kept in an in-memory registry for status queries.
//
// # Architecture
//
// Step is the unit of work: it validates its inputs against the run state,
// executes, and records outputs back into the run state for later steps.
// Manager owns the registry and drives execution; it applies a per-step
// timeout and stops the run at the first failed step.
package operations
