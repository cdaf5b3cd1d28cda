package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cubegames/tictactoe3d/game/engine"
	"github.com/cubegames/tictactoe3d/game/service"
	"github.com/cubegames/tictactoe3d/game/session"
)

// Server exposes read-only observer tools over MCP. Gameplay stays on
// the WebSocket transport because seats are keyed by live connection
// IDs; MCP callers inspect games, they do not play them.
type Server struct {
	service   service.GameService
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server with all tools registered.
func NewServer(gameService service.GameService) *Server {
	s := &Server{
		service: gameService,
	}

	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"3D Tic Tac Toe",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`3D Tic Tac Toe - MCP Interface

Observer tools for a multiplayer 4x4x4 Tic Tac Toe server. Games are
played by humans over WebSocket; these tools let you watch.

GAME RULES:
Two players alternate placing X and O in a 4x4x4 cube. Four in a row
wins: along any axis, any face diagonal, or any space diagonal.

AVAILABLE TOOLS:
- server_status: Process health and active room count
- list_rooms: List active rooms with player counts
- room_state: Render the board and turn state of one room
- game_rules: Full rules of 4x4x4 Tic Tac Toe`),
	)

	// Register all tools
	s.registerTools()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "server_status",
		Description: "Get server health and the number of active games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleServerStatus)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all active game rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListRooms)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "room_state",
		Description: "Get the board, players, and turn state of one room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room": map[string]interface{}{
					"type":        "string",
					"description": "Six-character room code",
				},
			},
			Required: []string{"room"},
		},
	}, s.handleRoomState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the complete rules of 4x4x4 Tic Tac Toe",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// Tool handlers

func (s *Server) handleServerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.service.Status(ctx)
	result := fmt.Sprintf("Status: %s\nActive games: %d\n", status.Status, status.ActiveGames)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rooms := s.service.ListRooms(ctx)

	result := fmt.Sprintf("Active Rooms (%d):\n\n", len(rooms))
	for _, r := range rooms {
		phase := "in progress"
		if r.GameOver {
			phase = "finished"
		} else if r.Players < 2 {
			phase = "waiting for players"
		}
		result += fmt.Sprintf("- %s (players: %d/2, %s, last active: %s)\n",
			r.Room, r.Players, phase, r.LastActiveAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleRoomState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	room, _ := args["room"].(string)

	state, err := s.service.RoomState(ctx, room)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(state)), nil
}

func (s *Server) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := `3D Tic Tac Toe - Complete Rules

BOARD:
A 4x4x4 cube of 64 cells, addressed as (z, y, x) with each coordinate
in 0..3. Layer z=0 is the bottom of the cube.

PLAYERS:
Two players per room. Player 0 plays X and always moves first;
player 1 plays O. Rooms are identified by a six-character code.

PLAY:
Players alternate placing their mark in any empty cell. A placement
outside the cube or on an occupied cell is rejected and the turn does
not pass.

WINNING:
The first player to line up four of their marks wins. There are 76
winning lines:
- 48 straight lines parallel to an axis
- 24 diagonals across a face or layer
- 4 space diagonals through the cube's center

A full board with no line is a draw. After a win or draw either player
may reset the room for a rematch; the board clears and X moves first.`

	return mcp.NewToolResultText(rules), nil
}

// formatGameState renders a snapshot as text, layer by layer.
func formatGameState(state *session.GameState) string {
	var b strings.Builder

	b.WriteString("Players:\n")
	for _, p := range state.Players {
		b.WriteString(fmt.Sprintf("  %d (%s): %s\n", p.Ordinal, engine.MarkFor(p.Ordinal), p.Name))
	}

	if state.GameOver {
		if state.Winner != nil {
			b.WriteString(fmt.Sprintf("\nGame over: player %d (%s) won\n", *state.Winner, engine.MarkFor(*state.Winner)))
			if len(state.WinningLine) > 0 {
				b.WriteString("Winning line:")
				for _, c := range state.WinningLine {
					b.WriteString(fmt.Sprintf(" (%d,%d,%d)", c.Z, c.Y, c.X))
				}
				b.WriteString("\n")
			}
		} else {
			b.WriteString("\nGame over: draw\n")
		}
	} else {
		b.WriteString(fmt.Sprintf("\nCurrent turn: player %d (%s)\n", state.CurrentPlayer, engine.MarkFor(state.CurrentPlayer)))
	}

	b.WriteString("\nBoard (z=0 bottom layer, rows are y, columns are x):\n")
	for z := 0; z < engine.Size; z++ {
		b.WriteString(fmt.Sprintf("\nLayer z=%d:\n", z))
		for y := 0; y < engine.Size; y++ {
			b.WriteString("  ")
			for x := 0; x < engine.Size; x++ {
				b.WriteString(state.Board[z][y][x].String())
				if x < engine.Size-1 {
					b.WriteString(" ")
				}
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
