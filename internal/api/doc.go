// Package api provides the HTTP REST API and WebSocket server for
// cueboard-core.
//
// It exposes the cue table, named sequences, run history, and interactive
// cue selection to front-of-house UIs, plus a WebSocket feed of selection
// and send-result events.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// The API is a trusted local surface for operators on the production
// network; it carries no user accounts of its own.
package api
