// Package sandpile implements an abelian sandpile automaton on a toroidal grid.
//
// A Grid holds one grain count per cell in a dense row-major buffer. Each call
// to Tick topples every dirty cell that held at least ToppleThreshold grains
// at the start of the step, moving one grain to each Von Neumann neighbour.
// Only cells touched by the previous step are evaluated, so the cost of a step
// follows the activity on the grid, not its size.
//
// Coordinates are not bounds-checked on the fast path. Index aliases
// out-of-range columns into neighbouring rows and a row past the last one
// panics with an index error. Use NewChecked, CellChecked and SetCellChecked
// when the caller cannot guarantee row < Height() and col < Width().
package sandpile

import (
	"slices"
	"strconv"
	"strings"
)

// DefaultPile is the number of grains New drops on the center cell.
const DefaultPile uint32 = 10_000_000

// ToppleThreshold is the grain count at which a cell topples.
const ToppleThreshold = 4

// StepStats describes the most recently committed step.
type StepStats struct {
	Toppled int // cells that toppled
	Dirty   int // cells to evaluate on the next step
}

// Grid is a sandpile on a width x height torus.
type Grid struct {
	width, height int
	iteration     uint32

	cells []uint32
	dirty []int

	// Reused between steps.
	toppling  []int
	nextDirty []int

	last    StepStats
	toppled uint64
}

// NewEmpty creates a zeroed grid with every cell marked dirty.
// Both dimensions must be at least 1.
func NewEmpty(width, height int) *Grid {
	n := width * height
	dirty := make([]int, n)
	for i := range dirty {
		dirty[i] = i
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]uint32, n),
		dirty:  dirty,
	}
}

// New creates a grid with DefaultPile grains on the cell at
// (height/2, width/2) and every cell marked dirty.
func New(width, height int) *Grid {
	g := NewEmpty(width, height)
	g.SetCell(height/2, width/2, DefaultPile)
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Index returns the row-major index of (row, col).
func (g *Grid) Index(row, col int) int {
	return row*g.width + col
}

// Coords returns the (row, col) of a row-major index.
func (g *Grid) Coords(i int) (row, col int) {
	return i / g.width, i % g.width
}

// Neighbors returns the left, right, up and down neighbours of cell i.
// Edges wrap, so every cell has exactly four neighbours.
func (g *Grid) Neighbors(i int) [4]int {
	w, h := g.width, g.height
	var n [4]int

	if i%w != 0 {
		n[0] = i - 1
	} else {
		n[0] = i + (w - 1)
	}
	if i%w != w-1 {
		n[1] = i + 1
	} else {
		n[1] = i - (w - 1)
	}
	if i/w != 0 {
		n[2] = i - w
	} else {
		n[2] = i + (h-1)*w
	}
	if i/w != h-1 {
		n[3] = i + w
	} else {
		n[3] = i - (h-1)*w
	}

	return n
}

// Tick advances the grid by one step and reports whether anything toppled.
//
// Toppling decisions use the grain counts at the start of the step, so the
// order in which dirty cells are visited does not matter. A cell topples at
// most once per step and sheds exactly ToppleThreshold grains, however large
// its pile. A step where nothing topples leaves the grid, its dirty set and
// the iteration counter untouched.
func (g *Grid) Tick() bool {
	// Read phase: decide against the pre-step buffer.
	g.toppling = g.toppling[:0]
	for _, i := range g.dirty {
		if g.cells[i]/ToppleThreshold >= 1 {
			g.toppling = append(g.toppling, i)
		}
	}
	if len(g.toppling) == 0 {
		return false
	}

	// Write phase.
	next := g.nextDirty[:0]
	for _, i := range g.toppling {
		g.cells[i] -= ToppleThreshold
		next = append(next, i)
		for _, j := range g.Neighbors(i) {
			g.cells[j]++
			next = append(next, j)
		}
	}

	slices.Sort(next)
	next = slices.Compact(next)

	g.nextDirty = g.dirty
	g.dirty = next
	g.iteration++
	g.last = StepStats{Toppled: len(g.toppling), Dirty: len(next)}
	g.toppled += uint64(len(g.toppling))
	return true
}

// ComputeSteps calls Tick up to steps times and stops at the first step that
// changes nothing. It returns true only if every step changed the grid;
// ComputeSteps(0) returns true without touching the grid.
func (g *Grid) ComputeSteps(steps int) bool {
	for n := 0; n < steps; n++ {
		if !g.Tick() {
			return false
		}
	}
	return true
}

// Cell returns the grain count at (row, col) without bounds checks.
func (g *Grid) Cell(row, col int) uint32 {
	return g.cells[g.Index(row, col)]
}

// SetCell overwrites the grain count at (row, col) without bounds checks.
// The dirty set is not updated; call MarkDirty if the cell must be
// re-evaluated on the next step.
func (g *Grid) SetCell(row, col int, val uint32) {
	g.cells[g.Index(row, col)] = val
}

// MarkDirty schedules (row, col) for evaluation on the next step.
func (g *Grid) MarkDirty(row, col int) {
	i := g.Index(row, col)
	pos, found := slices.BinarySearch(g.dirty, i)
	if found {
		return
	}
	g.dirty = slices.Insert(g.dirty, pos, i)
}

// Iteration returns the number of committed steps.
func (g *Grid) Iteration() uint32 { return g.iteration }

// LastStep returns the stats of the most recent committed step.
func (g *Grid) LastStep() StepStats { return g.last }

// Toppled returns the number of topples since the grid was created.
func (g *Grid) Toppled() uint64 { return g.toppled }

// Cells returns the backing grain buffer in row-major order without copying.
// The slice aliases the grid: it must be treated as read-only and must not be
// retained past the next call to Tick, ComputeSteps, SetCell or MarkDirty.
func (g *Grid) Cells() []uint32 { return g.cells }

// Dirty returns the sorted indices due for evaluation on the next step.
// The same aliasing rules as Cells apply.
func (g *Grid) Dirty() []int { return g.dirty }

// Total returns the number of grains on the grid.
func (g *Grid) Total() uint64 {
	var sum uint64
	for _, c := range g.cells {
		sum += uint64(c)
	}
	return sum
}

// String renders one line per row with the grain counts of the row written
// back to back. Counts above 9 make the output ambiguous; it is meant for
// inspection only.
func (g *Grid) String() string {
	var b strings.Builder
	var buf [10]byte
	for row := 0; row < g.height; row++ {
		for _, c := range g.cells[row*g.width : (row+1)*g.width] {
			b.Write(strconv.AppendUint(buf[:0], uint64(c), 10))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
