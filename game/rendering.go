package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpiles/renderer"
	"github.com/pthm-cable/sandpiles/telemetry"
	"github.com/pthm-cable/sandpiles/ui"
)

const controlsLegend = "[Space] Pause  [N] Step  [R] Reset  [,/.] Speed  [Click] Drop  [Wheel] Zoom  [Arrows/RMB] Pan  [Home] Recenter"

// Draw renders the frame and closes its perf tick.
func (g *Game) Draw() {
	perf := g.runner.Perf()
	perf.RecordFrame()
	perf.StartPhase(telemetry.PhaseRender)
	defer g.runner.EndFrame()

	grid := g.runner.Grid()
	w, h := grid.Width(), grid.Height()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.gridRenderer.Update(grid.Cells(), w, h)
	g.gridRenderer.Draw(g.camera)

	if g.overlays.IsEnabled(ui.OverlayDirty) {
		g.activityRenderer.Update(grid.Dirty(), w, h)
		g.activityRenderer.Draw(g.camera)
	}
	if g.overlays.IsEnabled(ui.OverlayCursor) && g.hoverValid {
		renderer.DrawCellCursor(g.camera, g.hoverRow, g.hoverCol, rl.White)
	}

	hud := ui.HUDData{
		Title:         "Sandpiles",
		Width:         w,
		Height:        h,
		Iteration:     grid.Iteration(),
		Dirty:         len(grid.Dirty()),
		LastToppled:   grid.LastStep().Toppled,
		Toppled:       grid.Toppled(),
		Grains:        grid.Total(),
		StepsPerFrame: g.runner.StepsPerFrame(),
		FPS:           rl.GetFPS(),
		Paused:        g.runner.Paused(),
		Stable:        g.runner.Stable(),
		HoverValid:    g.hoverValid,
	}
	if g.hoverValid {
		hud.HoverRow, hud.HoverCol = g.hoverRow, g.hoverCol
		hud.HoverCount = grid.Cell(g.hoverRow, g.hoverCol)
	}
	g.hud.Draw(hud)
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	if g.overlays.IsEnabled(ui.OverlayLegend) {
		g.legend.Draw()
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(perf.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.applyControls(g.controls.Draw(ui.ControlsState{
			StepsPerFrame:    g.runner.StepsPerFrame(),
			MaxStepsPerFrame: g.runner.MaxStepsPerFrame(),
			ClickGrains:      g.clickGrains,
			MaxClickGrains:   max(g.cfg.Simulation.ClickGrains*10, 1000),
			Paused:           g.runner.Paused(),
			Stable:           g.runner.Stable(),
		}, g.overlays))
	}

	rl.EndDrawing()
}

// applyControls applies the control panel actions of this frame.
func (g *Game) applyControls(a ui.ControlActions) {
	if a.StepsPerFrame != g.runner.StepsPerFrame() {
		g.runner.SetStepsPerFrame(a.StepsPerFrame)
	}
	g.clickGrains = max(a.ClickGrains, 1)
	if a.TogglePause {
		g.runner.TogglePause()
	}
	if a.Step {
		g.runner.StepOnce()
	}
	if a.Reset {
		g.runner.Reset()
	}
}
