// Package websocket streams pipeline run events to browser clients.
//
// Hub fans messages out to every connected client; the operations manager
// publishes run status and progress through the Broadcaster interface and
// the hub serializes each event as a JSON envelope. Clients are write-only
// from the server's perspective; inbound frames are read solely to keep the
// connection alive.
package websocket
