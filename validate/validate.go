// Package validate normalizes and validates client-supplied input
// before it reaches the game registry: display names, room codes, and
// move coordinates. All checks are local; none touch shared state.
package validate

import (
	"errors"
	"regexp"
	"strings"

	"github.com/cubegames/tictactoe3d/game/engine"
)

const (
	// MaxNameLength bounds display names in runes.
	MaxNameLength = 20

	// DefaultName is used when a client supplies no display name.
	DefaultName = "Player"
)

var (
	ErrInvalidRoomCode = errors.New("invalid room code")

	roomCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)
)

// DisplayName trims whitespace, falls back to DefaultName when empty,
// and truncates to MaxNameLength runes.
func DisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if runes := []rune(name); len(runes) > MaxNameLength {
		return string(runes[:MaxNameLength])
	}
	return name
}

// RoomCode normalizes a room code to upper case and validates its
// format: exactly 6 characters from [A-Z0-9].
func RoomCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !roomCodePattern.MatchString(code) {
		return "", ErrInvalidRoomCode
	}
	return code, nil
}

// Coordinate checks that a move coordinate lies on the board.
func Coordinate(c engine.Coord) error {
	if !c.InBounds() {
		return engine.ErrOutOfBounds
	}
	return nil
}
