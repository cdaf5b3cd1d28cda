package websocket

import (
	"encoding/json"

	"github.com/cubegames/tictactoe3d/game/engine"
	"github.com/cubegames/tictactoe3d/game/session"
)

// Inbound event types.
const (
	EventCreateGame = "create_game"
	EventJoinGame   = "join_game"
	EventRejoinGame = "rejoin_game"
	EventMakeMove   = "make_move"
	EventResetGame  = "reset_game"
)

// Outbound event types.
const (
	EventConnected         = "connected"
	EventGameCreated       = "game_created"
	EventPlayerJoinedSelf  = "player_joined_self"
	EventPlayerJoined      = "player_joined"
	EventRejoinResponse    = "rejoin_response"
	EventPlayerReconnected = "player_reconnected"
	EventMoveMade          = "move_made"
	EventGameOver          = "game_over"
	EventGameDraw          = "game_draw"
	EventGameReset         = "game_reset"
	EventPlayerLeft        = "player_left"
	EventError             = "error"
)

// Event is the envelope for every message exchanged with clients.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// newEvent wraps a payload in an envelope. Marshal failures surface as
// an empty data field; payload types are plain structs so this does not
// happen in practice.
func newEvent(eventType string, payload any) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	return Event{Type: eventType, Data: data}
}

// Inbound request payloads.

type createGameRequest struct {
	PlayerName string `json:"player_name"`
}

type joinGameRequest struct {
	Room       string `json:"room"`
	PlayerName string `json:"player_name"`
}

type rejoinGameRequest struct {
	Room         string `json:"room"`
	PlayerNumber int    `json:"player_number"`
}

type moveRequest struct {
	Z int `json:"z"`
	Y int `json:"y"`
	X int `json:"x"`
}

// Outbound payloads.

type connectedPayload struct {
	Message string `json:"message"`
}

type gameCreatedPayload struct {
	Room         string             `json:"room"`
	PlayerNumber int                `json:"player_number"`
	PlayerName   string             `json:"player_name"`
	GameState    *session.GameState `json:"game_state"`
}

type playerJoinedPayload struct {
	Room         string             `json:"room,omitempty"`
	PlayerNumber int                `json:"player_number"`
	PlayerName   string             `json:"player_name"`
	GameState    *session.GameState `json:"game_state"`
}

type rejoinResponsePayload struct {
	Success      bool               `json:"success"`
	Room         string             `json:"room,omitempty"`
	PlayerNumber int                `json:"player_number,omitempty"`
	GameState    *session.GameState `json:"game_state,omitempty"`
	Message      string             `json:"message,omitempty"`
}

type playerReconnectedPayload struct {
	PlayerNumber int `json:"player_number"`
}

type moveMadePayload struct {
	Z            int                `json:"z"`
	Y            int                `json:"y"`
	X            int                `json:"x"`
	PlayerNumber int                `json:"player_number"`
	GameState    *session.GameState `json:"game_state"`
}

type gameOverPayload struct {
	Winner       int                `json:"winner"`
	WinnerName   string             `json:"winner_name"`
	WinningCells []engine.Coord     `json:"winning_cells"`
	GameState    *session.GameState `json:"game_state"`
	Message      string             `json:"message"`
}

type gameDrawPayload struct {
	GameState *session.GameState `json:"game_state"`
	Message   string             `json:"message"`
}

type gameResetPayload struct {
	GameState *session.GameState `json:"game_state"`
	Message   string             `json:"message"`
}

type playerLeftPayload struct {
	PlayerNumber int    `json:"player_number"`
	PlayerName   string `json:"player_name"`
}

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
