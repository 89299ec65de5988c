// Package board maps square numbers to positions on the 10x10 grid.
//
// Squares run 1..100 in boustrophedon order: square 1 is the bottom-left
// cell, the bottom row reads left to right, the next row right to left, and
// so on up to square 100 in the top-left corner. Every pair of consecutive
// squares shares an edge.
//
// The package is pure geometry. Renderers use it to place squares, player
// tokens and the connectors drawn for ladders and snakes:
//
//	cell, _ := board.Locate(42)
//	centre, _ := board.Center(42, board.DefaultCellSize)
//	snake, _ := board.Curve(47, 26, board.DefaultCellSize)
package board
