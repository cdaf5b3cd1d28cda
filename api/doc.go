// Package api provides the HTTP surface for the 3D Tic Tac Toe server.
//
// The api package implements:
//   - Health check endpoint
//   - Read-only room inspection endpoints
//   - WebSocket upgrade handling
//   - Static file serving for the browser client
//
// Endpoints:
//
//   - GET /health - Process liveness and active room count
//   - GET /api/rooms - List active rooms
//   - GET /api/rooms/{code} - Snapshot of one room's game state
//   - GET /ws - WebSocket upgrade; all gameplay happens over this
//     connection
//   - GET /* - Static client files
//
// Error Handling:
//
// Errors are returned as JSON with a machine-readable code mapped to an
// HTTP status:
//
//	{
//	  "error": "room not found",
//	  "code": "not_found"
//	}
//
// Gameplay itself is intentionally not exposed over REST; moves are
// bound to a live WebSocket connection because seats are keyed by
// connection ID.
package api
