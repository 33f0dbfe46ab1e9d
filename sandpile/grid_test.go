package sandpile

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// crossGrid returns a 3x3 grid holding 4 grains in the center cell.
func crossGrid() *Grid {
	g := NewEmpty(3, 3)
	g.SetCell(1, 1, 4)
	return g
}

func TestNewPlacesCenterPile(t *testing.T) {
	g := New(5, 5)

	if got := g.Index(2, 2); got != 12 {
		t.Fatalf("Index(2, 2) = %d, want 12", got)
	}
	for i, c := range g.Cells() {
		want := uint32(0)
		if i == 12 {
			want = DefaultPile
		}
		if c != want {
			t.Errorf("cell %d = %d, want %d", i, c, want)
		}
	}
	if g.Iteration() != 0 {
		t.Errorf("iteration = %d, want 0", g.Iteration())
	}
	if len(g.Dirty()) != 25 {
		t.Errorf("dirty = %d cells, want 25", len(g.Dirty()))
	}
}

func TestNewCenterOnEvenDimensions(t *testing.T) {
	g := New(4, 6)
	if g.Cell(3, 2) != DefaultPile {
		t.Errorf("expected pile at (3, 2), got %d", g.Cell(3, 2))
	}
}

func TestIndexInjective(t *testing.T) {
	g := NewEmpty(7, 4)
	seen := make(map[int]bool)

	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			i := g.Index(row, col)
			if i != row*7+col {
				t.Fatalf("Index(%d, %d) = %d, want %d", row, col, i, row*7+col)
			}
			if seen[i] {
				t.Fatalf("Index(%d, %d) = %d already used", row, col, i)
			}
			seen[i] = true

			r, c := g.Coords(i)
			if r != row || c != col {
				t.Errorf("Coords(%d) = (%d, %d), want (%d, %d)", i, r, c, row, col)
			}
		}
	}
}

func TestIndexAliasesOutOfRangeColumns(t *testing.T) {
	g := NewEmpty(5, 5)
	if g.Index(0, 5) != g.Index(1, 0) {
		t.Errorf("expected column overflow to alias into the next row")
	}
}

func TestNeighbors(t *testing.T) {
	g := NewEmpty(4, 3)

	tests := []struct {
		name string
		i    int
		want [4]int
	}{
		{"interior", 5, [4]int{4, 6, 1, 9}},
		{"top-left corner", 0, [4]int{3, 1, 8, 4}},
		{"top-right corner", 3, [4]int{2, 0, 11, 7}},
		{"bottom-left corner", 8, [4]int{11, 9, 4, 0}},
		{"bottom-right corner", 11, [4]int{10, 8, 7, 3}},
		{"left edge", 4, [4]int{7, 5, 0, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Neighbors(tt.i); got != tt.want {
				t.Errorf("Neighbors(%d) = %v, want %v", tt.i, got, tt.want)
			}
		})
	}
}

func TestNeighborsTorusSymmetry(t *testing.T) {
	sizes := []struct{ w, h int }{
		{1, 1}, {1, 5}, {5, 1}, {2, 2}, {3, 3}, {3, 5}, {8, 6},
	}

	for _, s := range sizes {
		g := NewEmpty(s.w, s.h)
		for i := 0; i < g.Len(); i++ {
			for _, j := range g.Neighbors(i) {
				if j < 0 || j >= g.Len() {
					t.Fatalf("%dx%d: neighbour %d of %d out of range", s.w, s.h, j, i)
				}
				back := g.Neighbors(j)
				if !slices.Contains(back[:], i) {
					t.Errorf("%dx%d: %d is a neighbour of %d but not the reverse", s.w, s.h, j, i)
				}
			}
		}
	}
}

func TestTickCrossScenario(t *testing.T) {
	g := crossGrid()

	if !g.Tick() {
		t.Fatal("expected first tick to change the grid")
	}
	want := []uint32{
		0, 1, 0,
		1, 0, 1,
		0, 1, 0,
	}
	if diff := cmp.Diff(want, g.Cells()); diff != "" {
		t.Errorf("cells after tick (-want +got):\n%s", diff)
	}
	if g.Iteration() != 1 {
		t.Errorf("iteration = %d, want 1", g.Iteration())
	}
	if diff := cmp.Diff([]int{1, 3, 4, 5, 7}, g.Dirty()); diff != "" {
		t.Errorf("dirty after tick (-want +got):\n%s", diff)
	}

	if g.Tick() {
		t.Error("expected second tick to be stable")
	}
	if g.Iteration() != 1 {
		t.Errorf("iteration after stable tick = %d, want 1", g.Iteration())
	}
}

func TestTickOneTopplePerStep(t *testing.T) {
	g := NewEmpty(5, 5)
	g.SetCell(2, 2, 9)

	g.Tick()
	if got := g.Cell(2, 2); got != 5 {
		t.Errorf("center after one tick = %d, want 5", got)
	}
	if got := g.Cell(1, 2); got != 1 {
		t.Errorf("neighbour after one tick = %d, want 1", got)
	}

	g.Tick()
	if got := g.Cell(2, 2); got != 1 {
		t.Errorf("center after two ticks = %d, want 1", got)
	}
	if got := g.Cell(1, 2); got != 2 {
		t.Errorf("neighbour after two ticks = %d, want 2", got)
	}
}

func TestTickUsesPreStepCounts(t *testing.T) {
	// Two adjacent cells with 3 grains each receive a grain from a common
	// neighbour. Neither may topple in the same step, whatever the order.
	g := NewEmpty(5, 3)
	g.SetCell(1, 1, 3)
	g.SetCell(1, 2, 4)
	g.SetCell(1, 3, 3)

	g.Tick()
	want := []uint32{
		0, 0, 1, 0, 0,
		0, 4, 0, 4, 0,
		0, 0, 1, 0, 0,
	}
	if diff := cmp.Diff(want, g.Cells()); diff != "" {
		t.Errorf("cells after tick (-want +got):\n%s", diff)
	}
	if g.LastStep().Toppled != 1 {
		t.Errorf("toppled = %d, want 1", g.LastStep().Toppled)
	}
}

func TestTickConservesGrains(t *testing.T) {
	g := New(11, 7)
	g.SetCell(0, 0, 1234)
	g.SetCell(6, 10, 77)
	total := g.Total()

	for step := 0; step < 200; step++ {
		changed := g.Tick()
		if got := g.Total(); got != total {
			t.Fatalf("step %d: total = %d, want %d", step, got, total)
		}
		if !changed {
			break
		}
	}
}

func TestTickStableReportsIterationCorrectly(t *testing.T) {
	g := NewEmpty(4, 4)
	g.SetCell(1, 1, 3)

	if g.Tick() {
		t.Error("expected no topple below threshold")
	}
	if g.Iteration() != 0 {
		t.Errorf("iteration = %d, want 0", g.Iteration())
	}
	if len(g.Dirty()) != 16 {
		t.Errorf("stable tick should keep the dirty set, got %d cells", len(g.Dirty()))
	}
}

func TestTickDirtyHasNoDuplicates(t *testing.T) {
	g := New(6, 6)
	for step := 0; step < 50; step++ {
		g.Tick()
		d := g.Dirty()
		if !slices.IsSorted(d) {
			t.Fatalf("step %d: dirty set not sorted", step)
		}
		for k := 1; k < len(d); k++ {
			if d[k] == d[k-1] {
				t.Fatalf("step %d: duplicate index %d", step, d[k])
			}
		}
	}
}

func TestTickWorkFollowsActivity(t *testing.T) {
	g := NewEmpty(500, 500)
	if g.Tick() {
		t.Fatal("empty grid should be stable")
	}

	g.SetCell(250, 250, 4)
	g.MarkDirty(250, 250)
	// Clear the initial full dirty set by letting the single cell topple.
	if !g.Tick() {
		t.Fatal("expected the marked cell to topple")
	}
	if got := g.LastStep(); got != (StepStats{Toppled: 1, Dirty: 5}) {
		t.Errorf("last step = %+v, want {Toppled:1 Dirty:5}", got)
	}
}

func TestComputeStepsZero(t *testing.T) {
	g := crossGrid()
	before := slices.Clone(g.Cells())

	if !g.ComputeSteps(0) {
		t.Error("ComputeSteps(0) should return true")
	}
	if diff := cmp.Diff(before, g.Cells()); diff != "" {
		t.Errorf("ComputeSteps(0) mutated cells (-want +got):\n%s", diff)
	}
	if g.Iteration() != 0 {
		t.Errorf("iteration = %d, want 0", g.Iteration())
	}
}

func TestComputeStepsStopsAtStability(t *testing.T) {
	g := crossGrid()

	if g.ComputeSteps(10) {
		t.Error("expected ComputeSteps to report stability")
	}
	if g.Iteration() != 1 {
		t.Errorf("iteration = %d, want 1", g.Iteration())
	}
	if g.ComputeSteps(1) {
		t.Error("expected stable grid to stay stable")
	}
}

func TestComputeStepsAllUnstable(t *testing.T) {
	g := New(9, 9)
	if !g.ComputeSteps(3) {
		t.Error("expected a 10M pile to keep toppling for 3 steps")
	}
	if g.Iteration() != 3 {
		t.Errorf("iteration = %d, want 3", g.Iteration())
	}
}

func TestStableStateIsIdempotent(t *testing.T) {
	g := NewEmpty(5, 5)
	g.SetCell(2, 2, 40)

	for g.ComputeSteps(100) {
	}
	iter := g.Iteration()
	stable := slices.Clone(g.Cells())

	for k := 0; k < 3; k++ {
		if g.Tick() {
			t.Fatalf("tick %d after stability changed the grid", k)
		}
	}
	if diff := cmp.Diff(stable, g.Cells()); diff != "" {
		t.Errorf("stable buffer changed (-want +got):\n%s", diff)
	}
	if g.Iteration() != iter {
		t.Errorf("iteration moved from %d to %d", iter, g.Iteration())
	}
	for i, c := range stable {
		if c >= ToppleThreshold {
			t.Errorf("cell %d holds %d grains in a stable state", i, c)
		}
	}
}

func TestMarkDirty(t *testing.T) {
	g := crossGrid()
	g.ComputeSteps(10)

	g.SetCell(0, 0, 4)
	if g.Tick() {
		t.Fatal("cell outside the dirty set should not topple")
	}

	g.MarkDirty(0, 0)
	g.MarkDirty(0, 0)
	d := g.Dirty()
	if diff := cmp.Diff([]int{0, 1, 3, 4, 5, 7}, d); diff != "" {
		t.Errorf("dirty after MarkDirty (-want +got):\n%s", diff)
	}

	if !g.Tick() {
		t.Error("expected marked cell to topple")
	}
}

func TestToppledCounter(t *testing.T) {
	g := NewEmpty(5, 5)
	g.SetCell(2, 2, 8)

	g.ComputeSteps(10)
	if g.Toppled() < 2 {
		t.Errorf("toppled = %d, want at least 2", g.Toppled())
	}
}

func TestString(t *testing.T) {
	g := crossGrid()
	if got, want := g.String(), "000\n040\n000\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	g.Tick()
	if got, want := g.String(), "010\n101\n010\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	g.SetCell(0, 0, 12)
	if got, want := g.String(), "1210\n101\n010\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCheckedVariants(t *testing.T) {
	if _, err := NewChecked(0, 3); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("NewChecked(0, 3) error = %v, want ErrInvalidDimension", err)
	}
	if _, err := NewChecked(3, -1); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("NewChecked(3, -1) error = %v, want ErrInvalidDimension", err)
	}

	g, err := NewChecked(5, 4)
	if err != nil {
		t.Fatalf("NewChecked(5, 4): %v", err)
	}

	tests := []struct {
		name     string
		row, col int
		ok       bool
	}{
		{"origin", 0, 0, true},
		{"last cell", 3, 4, true},
		{"row past end", 4, 0, false},
		{"col past end", 0, 5, false},
		{"negative row", -1, 0, false},
		{"negative col", 0, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.SetCellChecked(tt.row, tt.col, 7)
			if tt.ok && err != nil {
				t.Fatalf("SetCellChecked: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("SetCellChecked error = %v, want ErrOutOfRange", err)
			}

			v, err := g.CellChecked(tt.row, tt.col)
			if tt.ok && (err != nil || v != 7) {
				t.Errorf("CellChecked = %d, %v; want 7, nil", v, err)
			}
			if !tt.ok && !errors.Is(err, ErrOutOfRange) {
				t.Errorf("CellChecked error = %v, want ErrOutOfRange", err)
			}
		})
	}
}

func BenchmarkTick(b *testing.B) {
	g := New(256, 256)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if !g.Tick() {
			b.StopTimer()
			g = New(256, 256)
			b.StartTimer()
		}
	}
}
