package service

import (
	"github.com/cubegames/tictactoe3d/game/engine"
	"github.com/cubegames/tictactoe3d/game/session"
)

// GameCreated is the result of a successful create_game.
type GameCreated struct {
	Room         string             `json:"room"`
	PlayerNumber int                `json:"player_number"`
	PlayerName   string             `json:"player_name"`
	State        *session.GameState `json:"game_state"`
}

// GameJoined is the result of a successful join_game.
type GameJoined struct {
	Room         string             `json:"room"`
	PlayerNumber int                `json:"player_number"`
	PlayerName   string             `json:"player_name"`
	State        *session.GameState `json:"game_state"`
}

// GameRejoined is the result of a successful rejoin_game.
type GameRejoined struct {
	Room         string             `json:"room"`
	PlayerNumber int                `json:"player_number"`
	State        *session.GameState `json:"game_state"`
}

// MovePlayed is the result of an accepted move. Result distinguishes a
// continuing game from a win or draw; Winner and WinningLine are set
// only on a win.
type MovePlayed struct {
	Room         string             `json:"room"`
	Coord        engine.Coord       `json:"coord"`
	PlayerNumber int                `json:"player_number"`
	PlayerName   string             `json:"player_name"`
	Result       session.MoveResult `json:"-"`
	Winner       *int               `json:"winner,omitempty"`
	WinningLine  []engine.Coord     `json:"winning_cells,omitempty"`
	Message      string             `json:"message,omitempty"`
	State        *session.GameState `json:"game_state"`
}

// GameReset is the result of a successful reset_game.
type GameReset struct {
	Room  string             `json:"room"`
	State *session.GameState `json:"game_state"`
}

// PlayerLeft describes a departure caused by a disconnect. RoomClosed
// reports that the last player left and the room was deleted.
type PlayerLeft struct {
	Room         string `json:"room"`
	PlayerNumber int    `json:"player_number"`
	PlayerName   string `json:"player_name"`
	RoomClosed   bool   `json:"-"`
}

// ServerStatus is the liveness surface reported by /health.
type ServerStatus struct {
	Status      string `json:"status"`
	ActiveGames int    `json:"games_active"`
}
