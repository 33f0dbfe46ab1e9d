// Package telemetry provides avalanche statistics, milestone bookmarks and
// CSV output for sandpile runs.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of iterations.
type WindowStats struct {
	WindowStart uint32 `csv:"-"`
	WindowEnd   uint32 `csv:"window_end"`

	// Activity during window
	Steps      int     `csv:"steps"`
	Toppled    uint64  `csv:"toppled"`
	ToppleRate float64 `csv:"topple_rate"` // Topples per step
	Dirty      int     `csv:"dirty"`       // Cells due for evaluation at window end
	Stable     bool    `csv:"stable"`

	// Grain distribution (sampled at window end)
	TotalGrains uint64  `csv:"total_grains"`
	MaxGrains   uint32  `csv:"max_grains"`
	GrainMean   float64 `csv:"grain_mean"`
	GrainStd    float64 `csv:"grain_std"`
	GrainP50    float64 `csv:"grain_p50"`
	GrainP90    float64 `csv:"grain_p90"`
	Occupied    int     `csv:"occupied"` // Cells holding at least one grain
	Coverage    float64 `csv:"coverage"` // Occupied / cells
}

// GrainStats summarises the grain counts of a grid.
type GrainStats struct {
	Total    uint64
	Max      uint32
	Mean     float64
	Std      float64 // Population standard deviation
	P50      float64
	P90      float64
	Occupied int
	Coverage float64
}

// ComputeGrainStats calculates totals, moments and percentiles of cells.
func ComputeGrainStats(cells []uint32) GrainStats {
	n := len(cells)
	if n == 0 {
		return GrainStats{}
	}

	var gs GrainStats
	values := make([]float64, n)
	for i, c := range cells {
		values[i] = float64(c)
		gs.Total += uint64(c)
		if c > gs.Max {
			gs.Max = c
		}
		if c > 0 {
			gs.Occupied++
		}
	}

	gs.Mean, gs.Std = stat.PopMeanStdDev(values, nil)

	slices.Sort(values)
	gs.P50 = stat.Quantile(0.50, stat.Empirical, values, nil)
	gs.P90 = stat.Quantile(0.90, stat.Empirical, values, nil)
	gs.Coverage = float64(gs.Occupied) / float64(n)

	return gs
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStart)),
		slog.Int("window_end", int(s.WindowEnd)),
		slog.Int("steps", s.Steps),
		slog.Uint64("toppled", s.Toppled),
		slog.Float64("topple_rate", s.ToppleRate),
		slog.Int("dirty", s.Dirty),
		slog.Bool("stable", s.Stable),
		slog.Uint64("total_grains", s.TotalGrains),
		slog.Int("max_grains", int(s.MaxGrains)),
		slog.Float64("grain_mean", s.GrainMean),
		slog.Float64("grain_std", s.GrainStd),
		slog.Float64("grain_p50", s.GrainP50),
		slog.Float64("grain_p90", s.GrainP90),
		slog.Int("occupied", s.Occupied),
		slog.Float64("coverage", s.Coverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

// SetGrains copies a grain summary into the window.
func (s *WindowStats) SetGrains(gs GrainStats) {
	s.TotalGrains = gs.Total
	s.MaxGrains = gs.Max
	s.GrainMean = gs.Mean
	s.GrainStd = gs.Std
	s.GrainP50 = gs.P50
	s.GrainP90 = gs.P90
	s.Occupied = gs.Occupied
	s.Coverage = gs.Coverage
}
