// Package server exposes an editor session over HTTP so a browser canvas
// can act as the rendering surface.
//
// The canvas reads enriched snapshots from GET /api/graph, which carry the
// canonical graph together with the editing state of every node and edge,
// and reports gestures back as events, change-sets and key presses. All
// writes go through the session, so requests from several tabs are applied
// one at a time.
//
// Errors are returned as JSON objects with a machine-readable code:
//
//	{"code": "SCHEMA_VIOLATION", "message": "payload has no \"nodes\" array"}
//
// The status code follows [errors.HTTPStatus].
package server
