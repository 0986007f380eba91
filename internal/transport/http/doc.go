// Package http provides the HTTP transport layer for the order pipeline.
//
// Routes are grouped per resource: /api/reports serves the derived analytics
// reports, /api/operations starts and inspects pipeline runs, /api/health
// reports readiness, and /ws streams run progress over WebSocket. Handlers
// translate service errors into the JSON error surface via chi/render.
package http
