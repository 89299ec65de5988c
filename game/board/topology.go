package board

import (
	"errors"
	"fmt"
)

const (
	// Size is the number of rows and columns on the board.
	Size = 10
	// Squares is the number of the final square.
	Squares = Size * Size
	// DefaultCellSize is the pixel edge of one square in the reference layout.
	DefaultCellSize = 48
)

var (
	ErrSquareOutOfRange = errors.New("square out of range")
	ErrCellOutOfRange   = errors.New("cell out of range")
)

// Cell is a grid coordinate. Row 0 is the top row, column 0 the left column.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Locate maps a square number to its grid cell. Square 1 sits bottom-left and
// rows alternate direction, so consecutive squares always share an edge.
func Locate(square int) (Cell, error) {
	if square < 1 || square > Squares {
		return Cell{}, fmt.Errorf("%w: %d", ErrSquareOutOfRange, square)
	}

	row := (Squares - square) / Size
	offset := (square - 1) % Size
	col := offset
	if row%2 == 0 {
		col = Size - 1 - offset
	}

	return Cell{Row: row, Col: col}, nil
}

// SquareAt is the inverse of Locate.
func SquareAt(row, col int) (int, error) {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrCellOutOfRange, row, col)
	}

	base := (Size-1-row)*Size + 1
	if row%2 == 0 {
		return base + (Size - 1 - col), nil
	}
	return base + col, nil
}

// Center returns the pixel centre of a square for the given cell edge.
func Center(square int, cellSize float64) (Point, error) {
	cell, err := Locate(square)
	if err != nil {
		return Point{}, err
	}

	return Point{
		X: float64(cell.Col)*cellSize + cellSize/2,
		Y: float64(cell.Row)*cellSize + cellSize/2,
	}, nil
}

// Rows returns the square numbers in display order, top row first.
func Rows() [Size][Size]int {
	var rows [Size][Size]int
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			// row and col are always in range here
			rows[row][col], _ = SquareAt(row, col)
		}
	}
	return rows
}

// Adjacent reports whether two squares share an edge on the grid.
func Adjacent(a, b int) bool {
	ca, err := Locate(a)
	if err != nil {
		return false
	}
	cb, err := Locate(b)
	if err != nil {
		return false
	}

	dr := abs(ca.Row - cb.Row)
	dc := abs(ca.Col - cb.Col)
	return dr+dc == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
