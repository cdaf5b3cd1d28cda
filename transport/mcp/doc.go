// Package mcp exposes read-only observer tools over the Model Context
// Protocol.
//
// The mcp package implements:
//   - An MCP server built on mark3labs/mcp-go with tool capabilities
//   - server_status, list_rooms, room_state, and game_rules tools
//   - Text rendering of a 4x4x4 board, layer by layer
//
// Gameplay is not reachable over MCP. Seats are bound to live WebSocket
// connection IDs, so an MCP caller has no seat to act from; the tools
// read through the game service instead.
//
// The server is exposed two ways by the main command: mounted as a
// POST /mcp endpoint on the HTTP server, and as a stdio server for
// direct MCP clients.
package mcp
