// Package sim drives a sandpile grid frame by frame and feeds telemetry.
// It holds no raylib state so that headless runs and tests share the
// same stepping logic as the viewer.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sandpiles/config"
	"github.com/pthm-cable/sandpiles/sandpile"
	"github.com/pthm-cable/sandpiles/telemetry"
)

// Options configures a Runner.
type Options struct {
	LogStats      bool   // Log window and perf stats via slog
	OutputDir     string // CSV output directory (empty = disabled)
	StepsPerFrame int    // Overrides simulation.steps_per_frame when > 0

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Runner owns a grid and advances it a batch of steps per frame.
type Runner struct {
	cfg  *config.Config
	grid *sandpile.Grid

	stepsPerFrame    int
	maxStepsPerFrame int
	paused           bool
	stable           bool

	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New builds the grid described by cfg and the telemetry around it.
func New(cfg *config.Config, opts Options) (*Runner, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	steps := cfg.Simulation.StepsPerFrame
	if opts.StepsPerFrame > 0 {
		steps = opts.StepsPerFrame
	}

	grid := cfg.NewGrid()
	r := &Runner{
		cfg:              cfg,
		grid:             grid,
		stepsPerFrame:    steps,
		maxStepsPerFrame: max(cfg.Simulation.MaxStepsPerFrame, steps),
		collector:        telemetry.NewCollector(cfg.Telemetry.WindowIterations, grid.Iteration(), grid.Toppled()),
		bookmarks:        telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Telemetry.DeclineFraction),
		perf:             telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:           output,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}
	return r, nil
}

// Advance runs one frame: a batch of steps unless paused or stable, then
// telemetry. The perf tick stays open until EndFrame so that rendering can
// be timed as part of the same frame.
func (r *Runner) Advance() {
	r.perf.StartTick()
	if r.paused || r.stable {
		return
	}

	r.perf.StartPhase(telemetry.PhaseStep)
	moving := r.grid.ComputeSteps(r.stepsPerFrame)

	r.perf.StartPhase(telemetry.PhaseTelemetry)
	r.afterSteps(moving)

	slog.Debug("frame", "iteration", r.grid.Iteration(), "dirty", len(r.grid.Dirty()))
}

// EndFrame closes the perf tick opened by Advance.
func (r *Runner) EndFrame() {
	r.perf.EndTick()
}

// StepOnce advances a single step regardless of pause. It returns false if
// the grid was or became stable.
func (r *Runner) StepOnce() bool {
	if r.stable {
		return false
	}
	moving := r.grid.Tick()
	r.afterSteps(moving)
	return moving
}

func (r *Runner) afterSteps(moving bool) {
	r.collector.Record(r.grid.Iteration(), r.grid.Toppled())
	if !moving {
		r.markStable()
		return
	}
	if r.collector.ShouldFlush(r.grid.Iteration()) {
		r.flushTelemetry()
	}
}

func (r *Runner) markStable() {
	r.stable = true
	slog.Info("grid stable",
		"iteration", r.grid.Iteration(),
		"toppled", r.grid.Toppled(),
		"grains", r.grid.Total(),
	)

	// Close the window even if it is empty so the stable state is recorded
	r.flushTelemetry()
}

// Drop adds grains to one cell and schedules it for evaluation, waking a
// stable grid.
func (r *Runner) Drop(row, col int, grains uint32) error {
	n, err := r.grid.CellChecked(row, col)
	if err != nil {
		return fmt.Errorf("dropping grains: %w", err)
	}
	if err := r.grid.SetCellChecked(row, col, n+grains); err != nil {
		return fmt.Errorf("dropping grains: %w", err)
	}
	r.grid.MarkDirty(row, col)

	if r.stable {
		r.stable = false
		r.bookmarks.ClearStable()
	}
	slog.Debug("grains dropped", "row", row, "col", col, "grains", grains)
	return nil
}

// Reset rebuilds the grid from the configuration and restarts telemetry.
func (r *Runner) Reset() {
	if r.collector.Pending() {
		r.flushTelemetry()
	}

	r.grid = r.cfg.NewGrid()
	r.stable = false
	r.collector.Reset(r.grid.Iteration(), r.grid.Toppled())
	r.bookmarks.Reset()

	slog.Info("grid reset", "width", r.grid.Width(), "height", r.grid.Height(), "grains", r.grid.Total())
}

// TogglePause switches between running and paused and returns the new state.
func (r *Runner) TogglePause() bool {
	r.paused = !r.paused
	return r.paused
}

// SetStepsPerFrame sets the batch size, clamped to [0, MaxStepsPerFrame].
func (r *Runner) SetStepsPerFrame(n int) {
	r.stepsPerFrame = min(max(n, 0), r.maxStepsPerFrame)
}

// StepsPerFrame returns the number of steps requested per frame.
func (r *Runner) StepsPerFrame() int { return r.stepsPerFrame }

// MaxStepsPerFrame returns the upper bound for SetStepsPerFrame.
func (r *Runner) MaxStepsPerFrame() int { return r.maxStepsPerFrame }

// Paused reports whether stepping is paused.
func (r *Runner) Paused() bool { return r.paused }

// Stable reports whether the last step found nothing to topple.
func (r *Runner) Stable() bool { return r.stable }

// Grid returns the simulated grid. It is replaced by Reset.
func (r *Runner) Grid() *sandpile.Grid { return r.grid }

// Perf returns the frame timing collector.
func (r *Runner) Perf() *telemetry.PerfCollector { return r.perf }

// Close flushes the current window and closes the output files.
func (r *Runner) Close() error {
	if r.collector.Pending() {
		r.flushTelemetry()
	}
	return r.output.Close()
}
