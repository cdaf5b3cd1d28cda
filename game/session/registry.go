package session

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// CodeLength is the length of a room code.
	CodeLength = 6
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotInRoom      = errors.New("connection is not in a room")
)

// ConnInfo records which room and seat a connection is bound to.
type ConnInfo struct {
	Room    string
	Ordinal int
	Name    string
}

// RoomInfo is a read-only summary of one active room.
type RoomInfo struct {
	Room         string    `json:"room"`
	Players      int       `json:"players"`
	GameOver     bool      `json:"game_over"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Registry owns the mapping from room codes to sessions and from
// connection IDs to seated players. It is the single shared structure
// mutated by every inbound event; its RWMutex guards only the two maps,
// while per-session state is guarded by each session's own mutex.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Session
	conns map[string]ConnInfo
	now   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Session),
		conns: make(map[string]ConnInfo),
		now:   time.Now,
	}
}

// CreateRoom registers a new session under a fresh room code and seats
// the creator as player 0.
func (r *Registry) CreateRoom(connID, displayName string) (string, *Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := generateRoomCode()
	for _, exists := r.rooms[code]; exists; _, exists = r.rooms[code] {
		code = generateRoomCode()
	}

	now := r.now()
	sess := New(now)
	if _, err := sess.Join(displayName, connID, now); err != nil {
		return "", nil, err
	}

	r.rooms[code] = sess
	r.conns[connID] = ConnInfo{Room: code, Ordinal: 0, Name: displayName}

	return code, sess, nil
}

// JoinRoom seats a second player in an existing room and returns the
// assigned ordinal.
func (r *Registry) JoinRoom(connID, code, displayName string) (int, *Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.rooms[code]
	if !exists {
		return 0, nil, ErrRoomNotFound
	}

	ordinal, err := sess.Join(displayName, connID, r.now())
	if err != nil {
		return 0, nil, err
	}

	r.conns[connID] = ConnInfo{Room: code, Ordinal: ordinal, Name: displayName}

	return ordinal, sess, nil
}

// RejoinRoom rebinds the seat at the given ordinal to a new connection,
// leaving game state untouched. It supports reconnection after
// transient transport drops.
func (r *Registry) RejoinRoom(connID, code string, ordinal int) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.rooms[code]
	if !exists {
		return nil, ErrRoomNotFound
	}

	if !sess.rebind(ordinal, connID, r.now()) {
		return nil, ErrPlayerNotFound
	}

	name := sess.PlayerName(ordinal)

	// Drop any stale binding of the old connection to this seat.
	for id, info := range r.conns {
		if info.Room == code && info.Ordinal == ordinal && id != connID {
			delete(r.conns, id)
		}
	}
	r.conns[connID] = ConnInfo{Room: code, Ordinal: ordinal, Name: name}

	return sess, nil
}

// Lookup resolves a connection to its room code, seat, and session.
func (r *Registry) Lookup(connID string) (ConnInfo, *Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.conns[connID]
	if !exists {
		return ConnInfo{}, nil, ErrNotInRoom
	}

	sess, exists := r.rooms[info.Room]
	if !exists {
		return ConnInfo{}, nil, ErrRoomNotFound
	}

	return info, sess, nil
}

// Disconnect unseats the player bound to the connection and removes the
// connection mapping. The session is deleted only once its last player
// is gone; a lone remaining player keeps the room alive until they
// disconnect too or the idle sweep reclaims it.
func (r *Registry) Disconnect(connID string) (ConnInfo, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.conns[connID]
	if !exists {
		return ConnInfo{}, false, ErrNotInRoom
	}
	delete(r.conns, connID)

	roomClosed := false
	if sess, ok := r.rooms[info.Room]; ok {
		if _, remaining, removed := sess.removeByConn(connID); removed && remaining == 0 {
			delete(r.rooms, info.Room)
			roomClosed = true
		}
	}

	return info, roomClosed, nil
}

// ReclaimIdle deletes every room whose last activity is older than the
// threshold, along with the connection mappings bound to it. It returns
// the number of rooms reclaimed.
func (r *Registry) ReclaimIdle(now time.Time, threshold time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-threshold)
	reclaimed := 0

	for code, sess := range r.rooms {
		if sess.LastActiveAt().After(cutoff) {
			continue
		}
		delete(r.rooms, code)
		reclaimed++

		for id, info := range r.conns {
			if info.Room == code {
				delete(r.conns, id)
			}
		}
		log.Info().Str("room", code).Msg("reclaimed idle room")
	}

	return reclaimed
}

// Now returns the registry's clock reading. Tests substitute the clock
// to exercise reclamation deterministically.
func (r *Registry) Now() time.Time {
	return r.now()
}

// Count returns the number of active rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// List returns a summary of every active room.
func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]RoomInfo, 0, len(r.rooms))
	for code, sess := range r.rooms {
		result = append(result, RoomInfo{
			Room:         code,
			Players:      sess.PlayerCount(),
			GameOver:     sess.IsOver(),
			CreatedAt:    sess.CreatedAt(),
			LastActiveAt: sess.LastActiveAt(),
		})
	}

	return result
}

// Get returns the session for a room code.
func (r *Registry) Get(code string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, exists := r.rooms[code]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return sess, nil
}

// generateRoomCode returns a random 6-character code from the
// [A-Z0-9] alphabet using cryptographic randomness.
func generateRoomCode() string {
	buf := make([]byte, CodeLength)
	rand.Read(buf)

	code := make([]byte, CodeLength)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code)
}
