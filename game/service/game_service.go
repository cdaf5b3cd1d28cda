package service

import (
	"context"

	"github.com/cubegames/tictactoe3d/game/engine"
	"github.com/cubegames/tictactoe3d/game/session"
)

// GameService defines every inbound operation the transport layer can
// invoke on behalf of a connection. Implementations serialize all room
// mutations; results carry the snapshots the transport broadcasts after
// the mutation has committed.
type GameService interface {
	// Room lifecycle
	CreateGame(ctx context.Context, connID, displayName string) (*GameCreated, error)
	JoinGame(ctx context.Context, connID, roomCode, displayName string) (*GameJoined, error)
	RejoinGame(ctx context.Context, connID, roomCode string, ordinal int) (*GameRejoined, error)
	Disconnect(ctx context.Context, connID string) (*PlayerLeft, error)

	// Gameplay
	MakeMove(ctx context.Context, connID string, c engine.Coord) (*MovePlayed, error)
	ResetGame(ctx context.Context, connID string) (*GameReset, error)

	// Read-only queries
	Status(ctx context.Context) *ServerStatus
	ListRooms(ctx context.Context) []session.RoomInfo
	RoomState(ctx context.Context, roomCode string) (*session.GameState, error)
}
