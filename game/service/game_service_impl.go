package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/cubegames/tictactoe3d/game/engine"
	"github.com/cubegames/tictactoe3d/game/session"
	"github.com/cubegames/tictactoe3d/validate"
)

// gameServiceImpl implements the GameService interface on top of the
// session registry.
type gameServiceImpl struct {
	registry *session.Registry
}

// NewGameService creates a new game service instance.
func NewGameService(registry *session.Registry) GameService {
	return &gameServiceImpl{registry: registry}
}

// CreateGame opens a new room and seats the creator as player 0.
func (s *gameServiceImpl) CreateGame(ctx context.Context, connID, displayName string) (*GameCreated, error) {
	name := validate.DisplayName(displayName)

	code, sess, err := s.registry.CreateRoom(connID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	log.Info().Str("room", code).Str("player", name).Msg("game created")

	return &GameCreated{
		Room:         code,
		PlayerNumber: 0,
		PlayerName:   name,
		State:        sess.Snapshot(),
	}, nil
}

// JoinGame seats the caller in an existing room as player 1.
func (s *gameServiceImpl) JoinGame(ctx context.Context, connID, roomCode, displayName string) (*GameJoined, error) {
	code, err := validate.RoomCode(roomCode)
	if err != nil {
		return nil, err
	}
	name := validate.DisplayName(displayName)

	ordinal, sess, err := s.registry.JoinRoom(connID, code, name)
	if err != nil {
		return nil, err
	}

	log.Info().Str("room", code).Str("player", name).Int("ordinal", ordinal).Msg("player joined")

	return &GameJoined{
		Room:         code,
		PlayerNumber: ordinal,
		PlayerName:   name,
		State:        sess.Snapshot(),
	}, nil
}

// RejoinGame rebinds a previously seated player to a new connection
// without touching game state.
func (s *gameServiceImpl) RejoinGame(ctx context.Context, connID, roomCode string, ordinal int) (*GameRejoined, error) {
	code, err := validate.RoomCode(roomCode)
	if err != nil {
		return nil, err
	}

	sess, err := s.registry.RejoinRoom(connID, code, ordinal)
	if err != nil {
		return nil, err
	}

	log.Info().Str("room", code).Int("ordinal", ordinal).Msg("player rejoined")

	return &GameRejoined{
		Room:         code,
		PlayerNumber: ordinal,
		State:        sess.Snapshot(),
	}, nil
}

// MakeMove applies a move for the caller's seat and reports the
// resulting state transition.
func (s *gameServiceImpl) MakeMove(ctx context.Context, connID string, c engine.Coord) (*MovePlayed, error) {
	if err := validate.Coordinate(c); err != nil {
		return nil, err
	}

	info, sess, err := s.registry.Lookup(connID)
	if err != nil {
		return nil, err
	}

	result, err := sess.MakeMove(c, info.Ordinal, s.registry.Now())
	if err != nil {
		return nil, err
	}

	played := &MovePlayed{
		Room:         info.Room,
		Coord:        c,
		PlayerNumber: info.Ordinal,
		PlayerName:   info.Name,
		Result:       result,
		State:        sess.Snapshot(),
	}

	switch result {
	case session.MoveWin:
		winner := info.Ordinal
		played.Winner = &winner
		played.WinningLine = played.State.WinningLine
		played.Message = fmt.Sprintf("%s (%s) wins!", info.Name, engine.MarkFor(info.Ordinal))
		log.Info().Str("room", info.Room).Int("winner", winner).Msg("game over")
	case session.MoveDraw:
		played.Message = "It's a draw!"
		log.Info().Str("room", info.Room).Msg("game drawn")
	default:
		log.Debug().
			Str("room", info.Room).
			Int("player", info.Ordinal).
			Int("z", c.Z).Int("y", c.Y).Int("x", c.X).
			Msg("move made")
	}

	return played, nil
}

// ResetGame clears a finished game back to an empty board with player 0
// to move.
func (s *gameServiceImpl) ResetGame(ctx context.Context, connID string) (*GameReset, error) {
	info, sess, err := s.registry.Lookup(connID)
	if err != nil {
		return nil, err
	}

	if err := sess.Reset(s.registry.Now()); err != nil {
		return nil, err
	}

	log.Info().Str("room", info.Room).Msg("game reset")

	return &GameReset{
		Room:  info.Room,
		State: sess.Snapshot(),
	}, nil
}

// Disconnect unseats the caller and reports the departure so the
// transport can notify the remaining player.
func (s *gameServiceImpl) Disconnect(ctx context.Context, connID string) (*PlayerLeft, error) {
	info, roomClosed, err := s.registry.Disconnect(connID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("room", info.Room).
		Int("ordinal", info.Ordinal).
		Bool("room_closed", roomClosed).
		Msg("player left")

	return &PlayerLeft{
		Room:         info.Room,
		PlayerNumber: info.Ordinal,
		PlayerName:   info.Name,
		RoomClosed:   roomClosed,
	}, nil
}

// Status reports process liveness and the active room count.
func (s *gameServiceImpl) Status(ctx context.Context) *ServerStatus {
	return &ServerStatus{
		Status:      "ok",
		ActiveGames: s.registry.Count(),
	}
}

// ListRooms returns a summary of every active room.
func (s *gameServiceImpl) ListRooms(ctx context.Context) []session.RoomInfo {
	return s.registry.List()
}

// RoomState returns the current snapshot of one room.
func (s *gameServiceImpl) RoomState(ctx context.Context, roomCode string) (*session.GameState, error) {
	code, err := validate.RoomCode(roomCode)
	if err != nil {
		return nil, err
	}

	sess, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}
