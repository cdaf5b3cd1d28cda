package session

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubegames/tictactoe3d/game/engine"
)

var roomCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestCreateRoomGeneratesValidCode(t *testing.T) {
	reg := NewRegistry()

	code, sess, err := reg.CreateRoom("conn-a", "Alice")
	require.NoError(t, err)
	require.NotNil(t, sess)

	assert.Regexp(t, roomCodePattern, code)
	assert.Equal(t, 1, reg.Count())
	assert.Equal(t, 1, sess.PlayerCount())

	info, got, err := reg.Lookup("conn-a")
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, ConnInfo{Room: code, Ordinal: 0, Name: "Alice"}, info)
}

func TestCreateRoomCodesNeverCollide(t *testing.T) {
	reg := NewRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		code, _, err := reg.CreateRoom("conn", "Alice")
		require.NoError(t, err)
		assert.Regexp(t, roomCodePattern, code)
		assert.False(t, seen[code], "duplicate room code %s", code)
		seen[code] = true
	}
	assert.Equal(t, 500, reg.Count())
}

func TestJoinRoom(t *testing.T) {
	reg := NewRegistry()
	code, _, err := reg.CreateRoom("conn-a", "Alice")
	require.NoError(t, err)

	ordinal, sess, err := reg.JoinRoom("conn-b", code, "Bob")
	require.NoError(t, err)
	assert.Equal(t, 1, ordinal)
	assert.Equal(t, 2, sess.PlayerCount())

	_, _, err = reg.JoinRoom("conn-c", code, "Carol")
	assert.ErrorIs(t, err, ErrRoomFull)

	_, _, err = reg.JoinRoom("conn-d", "ZZZZZZ", "Dave")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRejoinRoomRebindsConnection(t *testing.T) {
	reg := NewRegistry()
	code, sess, err := reg.CreateRoom("conn-a", "Alice")
	require.NoError(t, err)
	_, _, err = reg.JoinRoom("conn-b", code, "Bob")
	require.NoError(t, err)

	_, err = sess.MakeMove(engine.Coord{Z: 0, Y: 0, X: 0}, 0, time.Now())
	require.NoError(t, err)
	before := sess.Snapshot()

	// Alice's transport dropped; she reconnects with a fresh ID.
	got, err := reg.RejoinRoom("conn-a2", code, 0)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	info, _, err := reg.Lookup("conn-a2")
	require.NoError(t, err)
	assert.Equal(t, ConnInfo{Room: code, Ordinal: 0, Name: "Alice"}, info)

	_, _, err = reg.Lookup("conn-a")
	assert.ErrorIs(t, err, ErrNotInRoom, "stale binding must be dropped")

	after := sess.Snapshot()
	assert.Equal(t, before.Board, after.Board)
	assert.Equal(t, before.CurrentPlayer, after.CurrentPlayer)
	assert.Equal(t, before.Winner, after.Winner)
}

func TestRejoinRoomUnknownOrdinal(t *testing.T) {
	reg := NewRegistry()
	code, sess, err := reg.CreateRoom("conn-a", "Alice")
	require.NoError(t, err)

	before := sess.Snapshot()
	_, err = reg.RejoinRoom("conn-x", code, 1)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = reg.RejoinRoom("conn-x", "NOPE42", 0)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	assert.Equal(t, before, sess.Snapshot(), "failed rejoin must not mutate the session")
	_, _, err = reg.Lookup("conn-x")
	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestDisconnectKeepsRoomWhilePlayerRemains(t *testing.T) {
	reg := NewRegistry()
	code, _, err := reg.CreateRoom("conn-a", "Alice")
	require.NoError(t, err)
	_, _, err = reg.JoinRoom("conn-b", code, "Bob")
	require.NoError(t, err)

	info, closed, err := reg.Disconnect("conn-a")
	require.NoError(t, err)
	assert.False(t, closed)
	assert.Equal(t, ConnInfo{Room: code, Ordinal: 0, Name: "Alice"}, info)
	assert.Equal(t, 1, reg.Count())

	info, closed, err = reg.Disconnect("conn-b")
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, 1, info.Ordinal)
	assert.Equal(t, 0, reg.Count())

	_, _, err = reg.Disconnect("conn-b")
	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestReclaimIdle(t *testing.T) {
	reg := NewRegistry()

	base := time.Now()
	reg.now = func() time.Time { return base }
	staleCode, _, err := reg.CreateRoom("conn-a", "Alice")
	require.NoError(t, err)

	reg.now = func() time.Time { return base.Add(90 * time.Minute) }
	freshCode, _, err := reg.CreateRoom("conn-b", "Bob")
	require.NoError(t, err)

	reclaimed := reg.ReclaimIdle(base.Add(2*time.Hour+time.Minute), 2*time.Hour)
	assert.Equal(t, 1, reclaimed)
	assert.Equal(t, 1, reg.Count())

	_, err = reg.Get(staleCode)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = reg.Get(freshCode)
	assert.NoError(t, err)

	_, _, err = reg.Lookup("conn-a")
	assert.ErrorIs(t, err, ErrNotInRoom, "reclaim must drop the room's connection bindings")
	_, _, err = reg.Lookup("conn-b")
	assert.NoError(t, err)
}

func TestReclaimIdleUsesLastActivity(t *testing.T) {
	reg := NewRegistry()

	base := time.Now()
	reg.now = func() time.Time { return base }
	code, sess, err := reg.CreateRoom("conn-a", "Alice")
	require.NoError(t, err)
	_, _, err = reg.JoinRoom("conn-b", code, "Bob")
	require.NoError(t, err)

	// A move 90 minutes in keeps the room alive past the 2h mark
	// measured from creation.
	_, err = sess.MakeMove(engine.Coord{Z: 0, Y: 0, X: 0}, 0, base.Add(90*time.Minute))
	require.NoError(t, err)

	reclaimed := reg.ReclaimIdle(base.Add(2*time.Hour+time.Minute), 2*time.Hour)
	assert.Zero(t, reclaimed)
	assert.Equal(t, 1, reg.Count())
}

func TestListRooms(t *testing.T) {
	reg := NewRegistry()
	code, _, err := reg.CreateRoom("conn-a", "Alice")
	require.NoError(t, err)

	rooms := reg.List()
	require.Len(t, rooms, 1)
	assert.Equal(t, code, rooms[0].Room)
	assert.Equal(t, 1, rooms[0].Players)
	assert.False(t, rooms[0].GameOver)
}
