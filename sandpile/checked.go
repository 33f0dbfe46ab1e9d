package sandpile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned for a grid dimension below 1.
	ErrInvalidDimension = errors.New("sandpile: invalid dimension")
	// ErrOutOfRange is returned for coordinates outside the grid.
	ErrOutOfRange = errors.New("sandpile: coordinates out of range")
)

// NewChecked is New with dimension validation.
func NewChecked(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return New(width, height), nil
}

// InBounds reports whether (row, col) lies on the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// CellChecked is Cell with bounds validation.
func (g *Grid) CellChecked(row, col int) (uint32, error) {
	if !g.InBounds(row, col) {
		return 0, fmt.Errorf("%w: (%d, %d) on %dx%d", ErrOutOfRange, row, col, g.width, g.height)
	}
	return g.Cell(row, col), nil
}

// SetCellChecked is SetCell with bounds validation.
func (g *Grid) SetCellChecked(row, col int, val uint32) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d) on %dx%d", ErrOutOfRange, row, col, g.width, g.height)
	}
	g.SetCell(row, col, val)
	return nil
}
