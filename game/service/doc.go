// Package service implements the protocol adapter between the realtime
// transport and the game registry.
//
// The service package translates inbound client events (create, join,
// rejoin, move, reset, disconnect) into registry and session calls, and
// shapes the results into the outbound payloads the transport
// broadcasts. It owns input normalization (display names, room codes,
// coordinates) and the error-code taxonomy reported back to clients.
//
// Core Types:
//
// GameService is the interface the transport layer programs against;
// gameServiceImpl is its only implementation. Each inbound operation is
// keyed by the caller's connection ID, which the registry resolves to a
// room and seat.
//
// Error Reporting:
//
// Operations return sentinel errors from the engine, session, and
// validate packages. CodeForError maps them onto the small set of wire
// codes (validation, not_found, room_full, not_terminal, internal) so
// the transport can report failures to the acting connection without
// ever broadcasting them.
package service
