// Package session provides room and game lifecycle management for
// 3D Tic Tac Toe.
//
// The session package implements:
//   - The per-room game state machine (joining, turn-taking, win/draw
//     detection via the engine, reset from terminal states)
//   - Thread-safe room storage and retrieval by 6-character room code
//   - Connection-to-player identity tracking for reconnection
//   - Idle room reclamation to bound memory
//
// Core Types:
//
// Session wraps one board with two player seats, the turn index, and
// terminal status. Registry maps room codes to sessions and connection
// IDs to seated players, and owns the room lifecycle from creation to
// reclamation.
//
// Room Codes:
//
// Rooms use 6-character codes drawn from [A-Z0-9] for easy sharing.
// Codes are generated with cryptographic randomness and re-rolled on
// the (astronomically rare) collision with an active room.
//
// Concurrency:
//
// The registry guards its maps with a RWMutex and each session owns its
// own mutex, so moves in different rooms never contend. No I/O happens
// inside a critical section; callers broadcast snapshots after the
// mutation has committed. Reclamation takes the same locks as the event
// path, so it cannot race a concurrent move.
package session
