package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpiles/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.runner.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.runner.StepOnce()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.runner.Reset()
	}

	// Steps-per-frame control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.runner.SetStepsPerFrame(g.runner.StepsPerFrame() / 2)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.runner.SetStepsPerFrame(max(g.runner.StepsPerFrame()*2, 1))
	}

	// Overlay toggles, drained from the key queue
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", string(id), "enabled", on)
		}
	}

	g.handleCameraInput()
	g.handleMouse()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.gridRenderer.Resize(w, h)
	g.activityRenderer.Resize(w, h)
	g.layoutPanels()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	const panSpeed = 8 // screen pixels per frame

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Drag with the right mouse button
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		g.camera.ZoomBy(1 + wheelMove*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handleMouse tracks the hovered cell and drops grains on left click.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()

	overPanel := g.overlays.IsEnabled(ui.OverlayControls) && g.controls.Contains(mouse.X, mouse.Y)
	g.hoverValid = !overPanel
	if !g.hoverValid {
		return
	}
	g.hoverRow, g.hoverCol = g.camera.ScreenToCell(mouse.X, mouse.Y)

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if err := g.runner.Drop(g.hoverRow, g.hoverCol, g.clickGrains); err != nil {
			slog.Error("failed to drop grains", "error", err)
		}
	}
}
