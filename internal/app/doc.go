// Package app assembles the Gamezone order pipeline web application: it
// wires configuration, logging, telemetry, the run manager, the report
// services, and the HTTP server, and owns the start/stop lifecycle.
package app
