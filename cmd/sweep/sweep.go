package main

import (
	"time"

	"github.com/pthm-cable/sandpiles/config"
	"github.com/pthm-cable/sandpiles/telemetry"
)

// SweepRow is the outcome of settling one pile.
type SweepRow struct {
	Grains     uint32  `csv:"grains"`
	Steps      uint32  `csv:"steps"`
	Toppled    uint64  `csv:"toppled"`
	Stable     bool    `csv:"stable"`
	Occupied   int     `csv:"occupied"`
	Coverage   float64 `csv:"coverage"`
	MaxGrains  uint32  `csv:"max_grains"`
	DurationMS int64   `csv:"duration_ms"`
}

// pileSizes returns min, min*factor, ... up to and including max.
func pileSizes(minGrains, maxGrains uint32, factor float64) []uint32 {
	if minGrains == 0 || factor <= 1 {
		return []uint32{minGrains}
	}
	var sizes []uint32
	for g := float64(minGrains); g <= float64(maxGrains); g *= factor {
		n := uint32(g)
		if len(sizes) > 0 && n == sizes[len(sizes)-1] {
			continue
		}
		sizes = append(sizes, n)
	}
	return sizes
}

// settle drops a single centered pile of the given size on the configured
// torus and runs it for at most maxSteps steps.
func settle(cfg *config.Config, grains uint32, maxSteps int) SweepRow {
	cfg.Simulation.Piles = []config.PileConfig{{Center: true, Grains: grains}}
	grid := cfg.NewGrid()

	start := time.Now()
	moving := grid.ComputeSteps(maxSteps)
	elapsed := time.Since(start)

	gs := telemetry.ComputeGrainStats(grid.Cells())
	return SweepRow{
		Grains:     grains,
		Steps:      grid.Iteration(),
		Toppled:    grid.Toppled(),
		Stable:     !moving,
		Occupied:   gs.Occupied,
		Coverage:   gs.Coverage,
		MaxGrains:  gs.Max,
		DurationMS: elapsed.Milliseconds(),
	}
}
