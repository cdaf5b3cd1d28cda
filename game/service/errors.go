package service

import (
	"errors"

	"github.com/cubegames/tictactoe3d/game/engine"
	"github.com/cubegames/tictactoe3d/game/session"
	"github.com/cubegames/tictactoe3d/validate"
)

// ErrorCode is the machine-readable code attached to error events sent
// back to the acting connection.
type ErrorCode string

const (
	CodeValidation  ErrorCode = "validation"
	CodeNotFound    ErrorCode = "not_found"
	CodeRoomFull    ErrorCode = "room_full"
	CodeNotTerminal ErrorCode = "not_terminal"
	CodeInternal    ErrorCode = "internal"
)

// CodeForError maps the sentinel errors of the engine, session, and
// validate packages onto wire error codes. Unknown errors report as
// internal.
func CodeForError(err error) ErrorCode {
	switch {
	case errors.Is(err, session.ErrRoomNotFound),
		errors.Is(err, session.ErrPlayerNotFound),
		errors.Is(err, session.ErrNotInRoom):
		return CodeNotFound
	case errors.Is(err, session.ErrRoomFull):
		return CodeRoomFull
	case errors.Is(err, session.ErrNotTerminal):
		return CodeNotTerminal
	case errors.Is(err, session.ErrNotYourTurn),
		errors.Is(err, session.ErrGameOver),
		errors.Is(err, engine.ErrOutOfBounds),
		errors.Is(err, engine.ErrCellOccupied),
		errors.Is(err, validate.ErrInvalidRoomCode):
		return CodeValidation
	default:
		return CodeInternal
	}
}
