package engine

import "errors"

// Size is the edge length of the cubic board.
const Size = 4

var (
	ErrOutOfBounds  = errors.New("coordinate out of bounds")
	ErrCellOccupied = errors.New("cell already occupied")
)

// Mark is the tri-state value of a single cell.
type Mark int8

const (
	Empty Mark = iota
	MarkX      // player 0
	MarkO      // player 1
)

// MarkFor returns the mark placed by the player with the given ordinal.
func MarkFor(ordinal int) Mark {
	if ordinal == 0 {
		return MarkX
	}
	return MarkO
}

// String returns a single-character representation of the mark.
func (m Mark) String() string {
	switch m {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return "."
	}
}

// Coord addresses a single cell as (z, y, x).
type Coord struct {
	Z int `json:"z"`
	Y int `json:"y"`
	X int `json:"x"`
}

// InBounds reports whether every component lies in [0, Size).
func (c Coord) InBounds() bool {
	return c.Z >= 0 && c.Z < Size &&
		c.Y >= 0 && c.Y < Size &&
		c.X >= 0 && c.X < Size
}

// Board is a 4x4x4 grid of cells, indexed [z][y][x].
type Board [Size][Size][Size]Mark

// lineDirections are the 13 canonical direction triples (dz, dy, dx).
// A component selects how that axis coordinate evolves along the line:
// +1 keeps the played cell's coordinate fixed, 0 walks it ascending,
// -1 walks it descending. Scanning all 13 covers every line through a
// cell; the all-zero triple is the ascending space diagonal.
var lineDirections = [13][3]int8{
	{1, 1, 0}, {1, 0, 1}, {0, 1, 1},
	{1, 0, 0}, {1, -1, 0}, {0, 0, 1},
	{-1, 0, 1}, {0, 1, 0}, {0, 1, -1},
	{0, -1, -1}, {0, -1, 0}, {0, 0, -1},
	{0, 0, 0},
}

// axisCoord resolves one axis coordinate for step i of a line walk.
func axisCoord(mode int8, fixed, i int) int {
	switch mode {
	case 1:
		return fixed
	case 0:
		return i
	default:
		return Size - 1 - i
	}
}

// At returns the mark at c. Out-of-bounds coordinates read as Empty.
func (b *Board) At(c Coord) Mark {
	if !c.InBounds() {
		return Empty
	}
	return b[c.Z][c.Y][c.X]
}

// Place sets the mark at c. It fails with ErrOutOfBounds or
// ErrCellOccupied without mutating the board. Place has no turn
// awareness; turn enforcement belongs to the session layer.
func (b *Board) Place(c Coord, m Mark) error {
	if !c.InBounds() {
		return ErrOutOfBounds
	}
	if b[c.Z][c.Y][c.X] != Empty {
		return ErrCellOccupied
	}
	b[c.Z][c.Y][c.X] = m
	return nil
}

// CheckWin scans the 13 direction triples from the just-played cell c.
// It returns the 4 winning coordinates in walk order and true if any
// direction holds 4 cells sharing the mark at c. Directions are tried
// in the fixed enumeration order, so the first completed one wins.
func (b *Board) CheckWin(c Coord) ([]Coord, bool) {
	if !c.InBounds() {
		return nil, false
	}
	mark := b[c.Z][c.Y][c.X]
	if mark == Empty {
		return nil, false
	}

	for _, dir := range lineDirections {
		line := make([]Coord, 0, Size)
		for i := 0; i < Size; i++ {
			cell := Coord{
				Z: axisCoord(dir[0], c.Z, i),
				Y: axisCoord(dir[1], c.Y, i),
				X: axisCoord(dir[2], c.X, i),
			}
			if !cell.InBounds() || b[cell.Z][cell.Y][cell.X] != mark {
				line = nil
				break
			}
			line = append(line, cell)
		}
		if len(line) == Size {
			return line, true
		}
	}

	return nil, false
}

// IsFull reports whether no empty cell remains.
func (b *Board) IsFull() bool {
	for z := 0; z < Size; z++ {
		for y := 0; y < Size; y++ {
			for x := 0; x < Size; x++ {
				if b[z][y][x] == Empty {
					return false
				}
			}
		}
	}
	return true
}

// Clear resets every cell to Empty.
func (b *Board) Clear() {
	*b = Board{}
}
