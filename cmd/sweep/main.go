// Sweep tool - settle single piles of growing size and fit steps and
// topples against pile size.
//
// Usage: go run ./cmd/sweep -size 257 -min 1000 -max 100000 -output sweeps/run1
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/sandpiles/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML (empty = defaults)")
	size := flag.Int("size", 257, "Torus side in cells")
	minGrains := flag.Uint("min", 1000, "Smallest pile")
	maxGrains := flag.Uint("max", 64000, "Largest pile")
	factor := flag.Float64("factor", 2, "Growth factor between piles")
	maxSteps := flag.Int("max-steps", 1_000_000, "Step limit per pile")
	outputDir := flag.String("output", "", "Output directory for sweep.csv and config.yaml")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.SetGridSize(*size, *size); err != nil {
		slog.Error("invalid grid size", "error", err)
		os.Exit(1)
	}

	sizes := pileSizes(uint32(*minGrains), uint32(*maxGrains), *factor)
	slog.Info("starting sweep", "size", *size, "piles", len(sizes), "max_steps", *maxSteps)

	start := time.Now()
	rows := make([]SweepRow, 0, len(sizes))
	for i, g := range sizes {
		row := settle(cfg, g, *maxSteps)
		rows = append(rows, row)
		slog.Info("pile settled",
			"pile", i+1,
			"of", len(sizes),
			"grains", row.Grains,
			"steps", row.Steps,
			"toppled", row.Toppled,
			"stable", row.Stable,
			"elapsed", formatDuration(time.Since(start)),
		)
		if !row.Stable {
			slog.Warn("pile did not settle within step limit", "grains", g, "limit", *maxSteps)
		}
	}

	report(rows)

	if *outputDir != "" {
		if err := writeOutput(*outputDir, cfg, rows); err != nil {
			slog.Error("failed to write output", "error", err)
			os.Exit(1)
		}
		slog.Info("wrote sweep", "dir", *outputDir)
	}
}

// report fits steps and topples against pile size over the settled piles.
func report(rows []SweepRow) {
	var grains, steps, toppled []float64
	for _, r := range rows {
		if !r.Stable {
			continue
		}
		grains = append(grains, float64(r.Grains))
		steps = append(steps, float64(r.Steps))
		toppled = append(toppled, float64(r.Toppled))
	}

	for _, series := range []struct {
		name string
		ys   []float64
	}{
		{"steps", steps},
		{"toppled", toppled},
	} {
		fit, err := fitPowerLaw(grains, series.ys)
		if err != nil {
			slog.Warn("skipping fit", "series", series.name, "error", err)
			continue
		}
		slog.Info("power law fit",
			"series", series.name,
			"exponent", fit.Exponent,
			"prefactor", fit.Prefactor,
			"r_squared", fit.RSquared,
		)

		refined, err := refineFit(grains, series.ys, fit)
		if err != nil {
			slog.Warn("refinement failed", "series", series.name, "error", err)
			continue
		}
		slog.Info("refined fit",
			"series", series.name,
			"exponent", refined.Exponent,
			"prefactor", refined.Prefactor,
			"offset", refined.Offset,
		)
	}
}

func writeOutput(dir string, cfg *config.Config, rows []SweepRow) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "sweep.csv"))
	if err != nil {
		return fmt.Errorf("creating sweep.csv: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing sweep.csv: %w", err)
	}

	return cfg.WriteYAML(filepath.Join(dir, "config.yaml"))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
