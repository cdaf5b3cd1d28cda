// Package engine provides the core board logic for 3D Tic Tac Toe.
//
// The engine package implements:
//   - A 4x4x4 cubic board with tri-state cells
//   - Move placement with bounds and occupancy validation
//   - Win detection across the 13 canonical line directions
//   - Full-board (draw) detection
//
// Core Types:
//
// Board is the 4x4x4 grid of Mark values. Coord addresses a single cell
// as (z, y, x). Place and CheckWin are the two operations the session
// layer builds on; both are pure board operations with no notion of
// turns or players.
//
// Win Detection:
//
// A winning line is 4 collinear cells sharing one mark. Every line
// through a cell is covered by one of 13 direction triples: for each
// axis the triple component selects how that axis coordinate evolves
// along the line (fixed, ascending, or descending). Scanning the 13
// triples from the just-played cell covers all 76 winning lines of the
// cube without enumerating them.
//
// Usage:
//
//	var b engine.Board
//	if err := b.Place(engine.Coord{Z: 0, Y: 0, X: 0}, engine.MarkX); err != nil {
//		log.Fatal().Err(err).Msg("placement failed")
//	}
//	if line, won := b.CheckWin(engine.Coord{Z: 0, Y: 0, X: 0}); won {
//		fmt.Println("winning line:", line)
//	}
package engine
