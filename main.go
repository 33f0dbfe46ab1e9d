package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpiles/config"
	"github.com/pthm-cable/sandpiles/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxIterations := flag.Int("max-iterations", 0, "Stop after N iterations (0 = until stable)")
	stepsPerFrame := flag.Int("steps-per-frame", 0, "Steps per frame (0 = use config)")
	printGrid := flag.Bool("print", false, "Print the final grid as digit rows (headless only)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Report panics through the structured log before crashing
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic", "value", fmt.Sprint(r), "stack", string(debug.Stack()))
			panic(r)
		}
	}()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		LogStats:      *logStats,
		OutputDir:     *outputDir,
		Headless:      *headless,
		StepsPerFrame: *stepsPerFrame,
	}

	if *headless {
		if *stepsPerFrame == 0 && cfg.Simulation.StepsPerFrame == 0 {
			slog.Error("headless run needs a positive steps per frame")
			os.Exit(1)
		}

		// Headless mode - pure CPU simulation, no raylib needed
		g, err := game.New(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := g.Unload(); err != nil {
				slog.Error("failed to close output", "error", err)
			}
		}()

		slog.Info("starting headless simulation",
			"width", cfg.Derived.GridW,
			"height", cfg.Derived.GridH,
			"max_iterations", *maxIterations,
			"steps_per_frame", *stepsPerFrame,
		)

		for !g.Stable() {
			g.UpdateHeadless()

			if *maxIterations > 0 && int(g.Iteration()) >= *maxIterations {
				slog.Info("max iterations reached", "iteration", g.Iteration())
				break
			}
		}

		if *printGrid {
			fmt.Print(g.GridString())
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Sandpiles")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer func() {
		if err := g.Unload(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxIterations > 0 && int(g.Iteration()) >= *maxIterations {
			slog.Info("max iterations reached", "iteration", g.Iteration())
			break
		}
	}
}
