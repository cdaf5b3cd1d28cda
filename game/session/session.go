package session

import (
	"errors"
	"sync"
	"time"

	"github.com/cubegames/tictactoe3d/game/engine"
)

const maxPlayers = 2

var (
	ErrRoomFull    = errors.New("room is full")
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameOver    = errors.New("game is already over")
	ErrNotTerminal = errors.New("game is not over yet")
)

// MoveResult describes the outcome of an accepted or rejected move.
type MoveResult int

const (
	MoveRejected MoveResult = iota
	MoveContinue
	MoveWin
	MoveDraw
)

// Player is a seated participant. The ordinal is assigned at join time
// and stays stable for the session's lifetime; the connection ID is
// rebound on reconnection.
type Player struct {
	Ordinal int
	Name    string
	ConnID  string
}

// PlayerInfo is the public projection of a seated player.
type PlayerInfo struct {
	Ordinal int    `json:"number"`
	Name    string `json:"name"`
}

// GameState is the read-only projection broadcast to clients after
// every state-changing operation.
type GameState struct {
	Board         engine.Board   `json:"board"`
	CurrentPlayer int            `json:"current_player"`
	Players       []PlayerInfo   `json:"players"`
	Winner        *int           `json:"winner"`
	GameOver      bool           `json:"game_over"`
	WinningLine   []engine.Coord `json:"winning_cells"`
}

// Session is one two-player game. All methods are safe for concurrent
// use; the session mutex serializes every mutation so moves apply in
// the order they are accepted.
type Session struct {
	mu          sync.Mutex
	board       engine.Board
	players     []Player
	current     int
	gameOver    bool
	winner      int // player ordinal, -1 when no winner
	winningLine []engine.Coord
	createdAt   time.Time
	lastActive  time.Time
}

// New creates an empty session awaiting its first player.
func New(now time.Time) *Session {
	return &Session{
		winner:     -1,
		createdAt:  now,
		lastActive: now,
	}
}

// Join seats a player and returns the assigned ordinal: 0 for the
// creator, 1 for the second joiner. It fails with ErrRoomFull once two
// players are seated.
func (s *Session) Join(name, connID string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) >= maxPlayers {
		return 0, ErrRoomFull
	}

	// Lowest free ordinal: 0 for the creator, 1 for the second joiner,
	// and the vacated seat when a player left mid-game.
	ordinal := 0
	for _, p := range s.players {
		if p.Ordinal == ordinal {
			ordinal++
		}
	}
	s.players = append(s.players, Player{
		Ordinal: ordinal,
		Name:    name,
		ConnID:  connID,
	})
	s.lastActive = now

	return ordinal, nil
}

// MakeMove applies a move by the given player. The move is rejected,
// with board and turn untouched, when the game is terminal, when it is
// not the player's turn, or when the engine refuses the placement.
func (s *Session) MakeMove(c engine.Coord, player int, now time.Time) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return MoveRejected, ErrGameOver
	}
	if player != s.current {
		return MoveRejected, ErrNotYourTurn
	}
	if err := s.board.Place(c, engine.MarkFor(player)); err != nil {
		return MoveRejected, err
	}

	s.lastActive = now

	if line, won := s.board.CheckWin(c); won {
		s.winner = player
		s.winningLine = line
		s.gameOver = true
		return MoveWin, nil
	}

	if s.board.IsFull() {
		s.gameOver = true
		return MoveDraw, nil
	}

	s.current = 1 - s.current
	return MoveContinue, nil
}

// Reset clears the board and returns the turn to player 0. It is only
// legal from a terminal state.
func (s *Session) Reset(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gameOver {
		return ErrNotTerminal
	}

	s.board.Clear()
	s.current = 0
	s.gameOver = false
	s.winner = -1
	s.winningLine = nil
	s.lastActive = now

	return nil
}

// Snapshot returns the current game state projection.
func (s *Session) Snapshot() *GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &GameState{
		Board:         s.board,
		CurrentPlayer: s.current,
		Players:       make([]PlayerInfo, 0, len(s.players)),
		GameOver:      s.gameOver,
		WinningLine:   append([]engine.Coord(nil), s.winningLine...),
	}
	for _, p := range s.players {
		state.Players = append(state.Players, PlayerInfo{Ordinal: p.Ordinal, Name: p.Name})
	}
	if s.winner >= 0 {
		w := s.winner
		state.Winner = &w
	}
	if state.WinningLine == nil {
		state.WinningLine = []engine.Coord{}
	}

	return state
}

// PlayerCount returns the number of seated players.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// PlayerName returns the display name seated at the given ordinal.
func (s *Session) PlayerName(ordinal int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		if p.Ordinal == ordinal {
			return p.Name
		}
	}
	return ""
}

// CreatedAt returns the session creation timestamp.
func (s *Session) CreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt
}

// LastActiveAt returns the time of the last state-changing operation.
func (s *Session) LastActiveAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// IsOver reports whether the session is in a terminal state.
func (s *Session) IsOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameOver
}

// rebind points the seat at the given ordinal to a new connection ID.
// It reports whether the ordinal was seated.
func (s *Session) rebind(ordinal int, connID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.players {
		if s.players[i].Ordinal == ordinal {
			s.players[i].ConnID = connID
			s.lastActive = now
			return true
		}
	}
	return false
}

// removeByConn unseats the player bound to the given connection ID and
// returns the vacated seat along with the remaining player count.
func (s *Session) removeByConn(connID string) (Player, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.players {
		if p.ConnID == connID {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return p, len(s.players), true
		}
	}
	return Player{}, len(s.players), false
}
