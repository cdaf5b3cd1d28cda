package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubegames/tictactoe3d/game/engine"
)

func newTwoPlayerSession(t *testing.T) *Session {
	t.Helper()
	sess := New(time.Now())

	ordinal, err := sess.Join("Alice", "conn-a", time.Now())
	require.NoError(t, err)
	require.Equal(t, 0, ordinal)

	ordinal, err = sess.Join("Bob", "conn-b", time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, ordinal)

	return sess
}

func TestJoinAssignsOrdinalsAndRejectsThird(t *testing.T) {
	sess := newTwoPlayerSession(t)

	_, err := sess.Join("Carol", "conn-c", time.Now())
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, 2, sess.PlayerCount())
}

func TestJoinReusesVacatedSeat(t *testing.T) {
	sess := newTwoPlayerSession(t)

	_, remaining, removed := sess.removeByConn("conn-a")
	require.True(t, removed)
	require.Equal(t, 1, remaining)

	ordinal, err := sess.Join("Carol", "conn-c", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, ordinal, "vacated seat 0 should be reassigned")
}

func TestTurnAlternation(t *testing.T) {
	sess := newTwoPlayerSession(t)

	result, err := sess.MakeMove(engine.Coord{Z: 0, Y: 0, X: 0}, 0, time.Now())
	require.NoError(t, err)
	require.Equal(t, MoveContinue, result)
	assert.Equal(t, 1, sess.Snapshot().CurrentPlayer)

	result, err = sess.MakeMove(engine.Coord{Z: 0, Y: 0, X: 1}, 1, time.Now())
	require.NoError(t, err)
	require.Equal(t, MoveContinue, result)
	assert.Equal(t, 0, sess.Snapshot().CurrentPlayer)
}

func TestMoveOutOfTurnLeavesStateUntouched(t *testing.T) {
	sess := newTwoPlayerSession(t)

	before := sess.Snapshot()
	result, err := sess.MakeMove(engine.Coord{Z: 1, Y: 1, X: 1}, 1, time.Now())
	assert.Equal(t, MoveRejected, result)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	after := sess.Snapshot()
	assert.Equal(t, before.Board, after.Board)
	assert.Equal(t, before.CurrentPlayer, after.CurrentPlayer)
}

func TestMoveOnOccupiedCellRejected(t *testing.T) {
	sess := newTwoPlayerSession(t)

	cell := engine.Coord{Z: 2, Y: 2, X: 2}
	_, err := sess.MakeMove(cell, 0, time.Now())
	require.NoError(t, err)

	before := sess.Snapshot()
	result, err := sess.MakeMove(cell, 1, time.Now())
	assert.Equal(t, MoveRejected, result)
	assert.ErrorIs(t, err, engine.ErrCellOccupied)

	after := sess.Snapshot()
	assert.Equal(t, before.Board, after.Board)
	assert.Equal(t, 1, after.CurrentPlayer, "turn must not flip on a rejected move")
}

func TestMoveOutOfBoundsRejected(t *testing.T) {
	sess := newTwoPlayerSession(t)

	result, err := sess.MakeMove(engine.Coord{Z: 7, Y: 0, X: 0}, 0, time.Now())
	assert.Equal(t, MoveRejected, result)
	assert.ErrorIs(t, err, engine.ErrOutOfBounds)
	assert.Equal(t, 0, sess.Snapshot().CurrentPlayer)
}

func TestSpaceDiagonalWin(t *testing.T) {
	sess := newTwoPlayerSession(t)

	// Player 0 builds the ascending space diagonal; player 1 fills an
	// unrelated row.
	moves := []struct {
		player int
		cell   engine.Coord
	}{
		{0, engine.Coord{Z: 0, Y: 0, X: 0}},
		{1, engine.Coord{Z: 0, Y: 0, X: 1}},
		{0, engine.Coord{Z: 1, Y: 1, X: 1}},
		{1, engine.Coord{Z: 0, Y: 0, X: 2}},
		{0, engine.Coord{Z: 2, Y: 2, X: 2}},
		{1, engine.Coord{Z: 0, Y: 0, X: 3}},
	}
	for _, m := range moves {
		result, err := sess.MakeMove(m.cell, m.player, time.Now())
		require.NoError(t, err)
		require.Equal(t, MoveContinue, result)
	}

	result, err := sess.MakeMove(engine.Coord{Z: 3, Y: 3, X: 3}, 0, time.Now())
	require.NoError(t, err)
	require.Equal(t, MoveWin, result)

	state := sess.Snapshot()
	require.NotNil(t, state.Winner)
	assert.Equal(t, 0, *state.Winner)
	assert.True(t, state.GameOver)
	assert.Equal(t, []engine.Coord{
		{Z: 0, Y: 0, X: 0},
		{Z: 1, Y: 1, X: 1},
		{Z: 2, Y: 2, X: 2},
		{Z: 3, Y: 3, X: 3},
	}, state.WinningLine)

	// No further moves accepted after the terminal state.
	result, err = sess.MakeMove(engine.Coord{Z: 3, Y: 0, X: 0}, 1, time.Now())
	assert.Equal(t, MoveRejected, result)
	assert.ErrorIs(t, err, ErrGameOver)
}

// drawFixture returns a full-board coloring with 32 cells per mark and
// no 4-in-a-row for either mark: the (x+y+z) mod 4 residue coloring
// with eight targeted cells inverted to break the constant-sum
// anti-diagonals.
func drawFixture() map[engine.Coord]int {
	inverted := map[engine.Coord]bool{
		{Z: 0, Y: 0, X: 3}: true,
		{Z: 1, Y: 1, X: 2}: true,
		{Z: 2, Y: 2, X: 1}: true,
		{Z: 3, Y: 3, X: 0}: true,
		{Z: 1, Y: 2, X: 0}: true,
		{Z: 0, Y: 3, X: 1}: true,
		{Z: 3, Y: 0, X: 2}: true,
		{Z: 2, Y: 1, X: 3}: true,
	}

	owner := make(map[engine.Coord]int, 64)
	for z := 0; z < engine.Size; z++ {
		for y := 0; y < engine.Size; y++ {
			for x := 0; x < engine.Size; x++ {
				c := engine.Coord{Z: z, Y: y, X: x}
				player := 1
				if r := (x + y + z) % 4; r == 0 || r == 1 {
					player = 0
				}
				if inverted[c] {
					player = 1 - player
				}
				owner[c] = player
			}
		}
	}
	return owner
}

func TestDrawFixtureHasNoLine(t *testing.T) {
	owner := drawFixture()

	counts := [2]int{}
	for _, p := range owner {
		counts[p]++
	}
	require.Equal(t, [2]int{32, 32}, counts)

	// Independent line enumeration: any line monochromatic in the
	// fixture would invalidate the draw scenario below.
	var lines [][]engine.Coord
	for a := 0; a < engine.Size; a++ {
		for b := 0; b < engine.Size; b++ {
			var xl, yl, zl []engine.Coord
			for i := 0; i < engine.Size; i++ {
				xl = append(xl, engine.Coord{Z: a, Y: b, X: i})
				yl = append(yl, engine.Coord{Z: a, Y: i, X: b})
				zl = append(zl, engine.Coord{Z: i, Y: a, X: b})
			}
			lines = append(lines, xl, yl, zl)
		}
	}
	for f := 0; f < engine.Size; f++ {
		var ds [][]engine.Coord = make([][]engine.Coord, 6)
		for i := 0; i < engine.Size; i++ {
			j := engine.Size - 1 - i
			ds[0] = append(ds[0], engine.Coord{Z: f, Y: i, X: i})
			ds[1] = append(ds[1], engine.Coord{Z: f, Y: i, X: j})
			ds[2] = append(ds[2], engine.Coord{Z: i, Y: f, X: i})
			ds[3] = append(ds[3], engine.Coord{Z: i, Y: f, X: j})
			ds[4] = append(ds[4], engine.Coord{Z: i, Y: i, X: f})
			ds[5] = append(ds[5], engine.Coord{Z: i, Y: j, X: f})
		}
		lines = append(lines, ds...)
	}
	var d1, d2, d3, d4 []engine.Coord
	for i := 0; i < engine.Size; i++ {
		j := engine.Size - 1 - i
		d1 = append(d1, engine.Coord{Z: i, Y: i, X: i})
		d2 = append(d2, engine.Coord{Z: i, Y: i, X: j})
		d3 = append(d3, engine.Coord{Z: i, Y: j, X: i})
		d4 = append(d4, engine.Coord{Z: i, Y: j, X: j})
	}
	lines = append(lines, d1, d2, d3, d4)
	require.Len(t, lines, 76)

	for _, line := range lines {
		first := owner[line[0]]
		mono := true
		for _, c := range line[1:] {
			if owner[c] != first {
				mono = false
				break
			}
		}
		assert.False(t, mono, "monochromatic line %v", line)
	}
}

func TestFullBoardWithoutLineIsDraw(t *testing.T) {
	owner := drawFixture()

	var queues [2][]engine.Coord
	for z := 0; z < engine.Size; z++ {
		for y := 0; y < engine.Size; y++ {
			for x := 0; x < engine.Size; x++ {
				c := engine.Coord{Z: z, Y: y, X: x}
				queues[owner[c]] = append(queues[owner[c]], c)
			}
		}
	}

	sess := newTwoPlayerSession(t)
	for i := 0; i < 64; i++ {
		player := i % 2
		cell := queues[player][0]
		queues[player] = queues[player][1:]

		result, err := sess.MakeMove(cell, player, time.Now())
		require.NoError(t, err)

		if i < 63 {
			require.Equal(t, MoveContinue, result, "move %d at %v", i, cell)
		} else {
			require.Equal(t, MoveDraw, result, "final move must be a draw")
		}
	}

	state := sess.Snapshot()
	assert.True(t, state.GameOver)
	assert.Nil(t, state.Winner)
	assert.Empty(t, state.WinningLine)
}

func TestResetOnlyFromTerminal(t *testing.T) {
	sess := newTwoPlayerSession(t)

	err := sess.Reset(time.Now())
	assert.ErrorIs(t, err, ErrNotTerminal)

	// Fastest row win for player 0.
	moves := []struct {
		player int
		cell   engine.Coord
	}{
		{0, engine.Coord{Z: 0, Y: 0, X: 0}},
		{1, engine.Coord{Z: 1, Y: 0, X: 0}},
		{0, engine.Coord{Z: 0, Y: 0, X: 1}},
		{1, engine.Coord{Z: 1, Y: 0, X: 1}},
		{0, engine.Coord{Z: 0, Y: 0, X: 2}},
		{1, engine.Coord{Z: 1, Y: 0, X: 2}},
		{0, engine.Coord{Z: 0, Y: 0, X: 3}},
	}
	for _, m := range moves {
		_, err := sess.MakeMove(m.cell, m.player, time.Now())
		require.NoError(t, err)
	}
	require.True(t, sess.IsOver())

	require.NoError(t, sess.Reset(time.Now()))

	state := sess.Snapshot()
	assert.False(t, state.GameOver)
	assert.Nil(t, state.Winner)
	assert.Empty(t, state.WinningLine)
	assert.Equal(t, 0, state.CurrentPlayer)
	assert.Equal(t, engine.Board{}, state.Board)
	assert.Len(t, state.Players, 2, "reset must keep both seats")

	// The cleared board accepts moves again.
	result, err := sess.MakeMove(engine.Coord{Z: 0, Y: 0, X: 0}, 0, time.Now())
	require.NoError(t, err)
	assert.Equal(t, MoveContinue, result)
}

func TestSnapshotProjection(t *testing.T) {
	sess := New(time.Now())
	_, err := sess.Join("Alice", "conn-a", time.Now())
	require.NoError(t, err)

	state := sess.Snapshot()
	assert.Equal(t, []PlayerInfo{{Ordinal: 0, Name: "Alice"}}, state.Players)
	assert.Equal(t, 0, state.CurrentPlayer)
	assert.False(t, state.GameOver)
	assert.Nil(t, state.Winner)
	assert.NotNil(t, state.WinningLine)
	assert.Empty(t, state.WinningLine)
}
