// Package game hosts a sandpile run in a raylib window or headless.
package game

import (
	"github.com/pthm-cable/sandpiles/camera"
	"github.com/pthm-cable/sandpiles/config"
	"github.com/pthm-cable/sandpiles/renderer"
	"github.com/pthm-cable/sandpiles/sim"
	"github.com/pthm-cable/sandpiles/ui"
)

// Options configures a Game.
type Options struct {
	LogStats      bool   // Output window stats via slog
	OutputDir     string // Directory for CSV logs and config snapshot
	Headless      bool   // Run without raylib
	StepsPerFrame int    // Overrides simulation.steps_per_frame when > 0
}

// Game holds the runner and, in graphical mode, the view state.
type Game struct {
	cfg      *config.Config
	runner   *sim.Runner
	headless bool

	// Rendering
	camera           *camera.Camera
	gridRenderer     *renderer.GridRenderer
	activityRenderer *renderer.ActivityRenderer

	// UI
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	legend    *ui.LegendPanel
	perfPanel *ui.PerfPanel

	clickGrains uint32

	// Cell under the mouse cursor
	hoverValid         bool
	hoverRow, hoverCol int

	screenWidth, screenHeight float32
}

// New creates a game from the global configuration. In graphical mode the
// raylib window must already be open.
func New(opts Options) (*Game, error) {
	cfg := config.Cfg()

	runner, err := sim.New(cfg, sim.Options{
		LogStats:      opts.LogStats,
		OutputDir:     opts.OutputDir,
		StepsPerFrame: opts.StepsPerFrame,
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:         cfg,
		runner:      runner,
		headless:    opts.Headless,
		clickGrains: cfg.Simulation.ClickGrains,
	}
	if opts.Headless {
		return g, nil
	}

	g.screenWidth = float32(cfg.Screen.Width)
	g.screenHeight = float32(cfg.Screen.Height)
	gridW, gridH := cfg.Derived.GridW, cfg.Derived.GridH

	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(gridW), float32(gridH), float32(cfg.Grid.PixSize))

	g.gridRenderer = renderer.NewGridRenderer(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Derived.Palette)
	g.gridRenderer.Init(gridW, gridH)
	g.activityRenderer = renderer.NewActivityRenderer(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
	g.activityRenderer.Init(gridW, gridH)

	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(0, 0, 240)
	g.legend = ui.NewLegendPanel(cfg.Derived.Palette, 0, 0, 90)
	g.perfPanel = ui.NewPerfPanel(10, 120, 260)
	g.layoutPanels()

	return g, nil
}

// Update handles input and advances the simulation by one frame.
// The frame's perf tick is closed by Draw.
func (g *Game) Update() {
	g.handleInput()
	g.runner.Advance()
}

// UpdateHeadless advances the simulation by one frame without raylib.
func (g *Game) UpdateHeadless() {
	g.runner.Advance()
	g.runner.EndFrame()
}

// Iteration returns the number of committed steps.
func (g *Game) Iteration() uint32 {
	return g.runner.Grid().Iteration()
}

// Stable reports whether the grid has reached a stable state.
func (g *Game) Stable() bool {
	return g.runner.Stable()
}

// GridString renders the grid in its digit-run text form.
func (g *Game) GridString() string {
	return g.runner.Grid().String()
}

// Unload releases GPU resources and closes telemetry output.
func (g *Game) Unload() error {
	if g.gridRenderer != nil {
		g.gridRenderer.Unload()
	}
	if g.activityRenderer != nil {
		g.activityRenderer.Unload()
	}
	return g.runner.Close()
}

// layoutPanels anchors the right-hand panels to the current screen size.
func (g *Game) layoutPanels() {
	w := int32(g.screenWidth)
	g.controls.SetPosition(w-250, 10)
	g.legend.SetPosition(w-350, 10)
}
