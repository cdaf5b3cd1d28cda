// Package websocket provides the realtime transport for 3D Tic Tac Toe.
//
// The websocket package implements:
//   - Connection upgrade and per-client read/write pumps with
//     ping/pong keepalive
//   - A hub tracking clients by connection ID and room membership
//   - Dispatch of inbound JSON events (create_game, join_game,
//     rejoin_game, make_move, reset_game) to the game service
//   - Broadcast of outbound state events to all clients in a room
//
// Message Flow:
//
// Clients send an envelope {"type": ..., "data": {...}}. The hub
// dispatches each event to the game service, which performs the
// mutation under the room's lock; the hub then broadcasts the resulting
// snapshot. Errors are reported only to the acting connection as an
// error event with a machine-readable code, never broadcast.
//
// A panic inside an event handler is recovered at the dispatch
// boundary: the client receives an internal error event and the
// process, other rooms, and other connections are unaffected.
package websocket
