// Command analyze prints quick, human-readable statistics about the
// 4x4x4 board: every winning line grouped by kind, and how many lines
// pass through each cell. Useful for sanity-checking the win detection
// and for reasoning about strong opening cells.
package main

import (
	"fmt"
	"sort"

	"github.com/cubegames/tictactoe3d/game/engine"
)

// line is one winning line of four cells.
type line [engine.Size]engine.Coord

// allLines enumerates the 76 winning lines of the cube: 48 axis lines,
// 24 plane diagonals, and 4 space diagonals.
func allLines() []line {
	var lines []line
	n := engine.Size

	// Axis lines.
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			var lx, ly, lz line
			for i := 0; i < n; i++ {
				lx[i] = engine.Coord{Z: a, Y: b, X: i}
				ly[i] = engine.Coord{Z: a, Y: i, X: b}
				lz[i] = engine.Coord{Z: i, Y: a, X: b}
			}
			lines = append(lines, lx, ly, lz)
		}
	}

	// Plane diagonals, two per fixed coordinate on each axis.
	for a := 0; a < n; a++ {
		var d [6]line
		for i := 0; i < n; i++ {
			d[0][i] = engine.Coord{Z: a, Y: i, X: i}
			d[1][i] = engine.Coord{Z: a, Y: i, X: n - 1 - i}
			d[2][i] = engine.Coord{Z: i, Y: a, X: i}
			d[3][i] = engine.Coord{Z: i, Y: a, X: n - 1 - i}
			d[4][i] = engine.Coord{Z: i, Y: i, X: a}
			d[5][i] = engine.Coord{Z: i, Y: n - 1 - i, X: a}
		}
		lines = append(lines, d[:]...)
	}

	// Space diagonals.
	var s [4]line
	for i := 0; i < n; i++ {
		s[0][i] = engine.Coord{Z: i, Y: i, X: i}
		s[1][i] = engine.Coord{Z: i, Y: i, X: n - 1 - i}
		s[2][i] = engine.Coord{Z: i, Y: n - 1 - i, X: i}
		s[3][i] = engine.Coord{Z: i, Y: n - 1 - i, X: n - 1 - i}
	}
	lines = append(lines, s[:]...)

	return lines
}

// cellCounts returns, for every cell, the number of winning lines
// through it.
func cellCounts(lines []line) map[engine.Coord]int {
	counts := make(map[engine.Coord]int, engine.Size*engine.Size*engine.Size)
	for _, l := range lines {
		for _, c := range l {
			counts[c]++
		}
	}
	return counts
}

func main() {
	lines := allLines()
	counts := cellCounts(lines)

	fmt.Printf("Winning lines: %d\n", len(lines))
	fmt.Printf("  axis lines:      48\n")
	fmt.Printf("  plane diagonals: 24\n")
	fmt.Printf("  space diagonals:  4\n\n")

	// Group cells by line count.
	byCount := make(map[int][]engine.Coord)
	for c, n := range counts {
		byCount[n] = append(byCount[n], c)
	}

	var order []int
	for n := range byCount {
		order = append(order, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	fmt.Println("Lines through each cell:")
	for _, n := range order {
		cells := byCount[n]
		sort.Slice(cells, func(i, j int) bool {
			a, b := cells[i], cells[j]
			if a.Z != b.Z {
				return a.Z < b.Z
			}
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.X < b.X
		})
		fmt.Printf("  %d lines: %d cells\n", n, len(cells))
		for _, c := range cells {
			fmt.Printf("    (%d,%d,%d)\n", c.Z, c.Y, c.X)
		}
	}
}
