package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the simulation state shown by the controls panel.
type ControlsState struct {
	StepsPerFrame    int
	MaxStepsPerFrame int
	ClickGrains      uint32
	MaxClickGrains   uint32
	Paused           bool
	Stable           bool
}

// ControlActions reports what the user changed in the controls panel
// during one frame.
type ControlActions struct {
	StepsPerFrame int
	ClickGrains   uint32
	TogglePause   bool
	Step          bool
	Reset         bool
}

// ControlsPanel renders the raygui control panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Contains reports whether a screen point lies on the panel as last drawn.
func (c *ControlsPanel) Contains(px, py float32) bool {
	return px >= float32(c.x) && px < float32(c.x+c.width) &&
		py >= float32(c.y) && py < float32(c.y+c.height)
}

// Draw renders the panel and returns the user's actions.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlActions {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	c.height = lineHeight*int32(8+len(overlays.All())) + 20*2 + 30 + padding*3
	r.DrawPanel(c.x, c.y, c.width, c.height)

	actions := ControlActions{
		StepsPerFrame: state.StepsPerFrame,
		ClickGrains:   state.ClickGrains,
	}

	x := float32(c.x + padding)
	inner := float32(c.width - padding*2)
	y := c.y + padding

	rl.DrawText("Simulation", int32(x), y, 16, rl.White)
	y += lineHeight + 4

	// Steps per frame
	r.DrawLabelValue(int32(x), y, "Steps/frame", fmt.Sprintf("%d", state.StepsPerFrame))
	y += lineHeight
	steps := gui.SliderBar(
		rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 20},
		"", "",
		float32(state.StepsPerFrame), 0, float32(state.MaxStepsPerFrame),
	)
	actions.StepsPerFrame = int(steps)
	y += 20 + 6

	// Grains per click
	r.DrawLabelValue(int32(x), y, "Click drop", fmt.Sprintf("%d", state.ClickGrains))
	y += lineHeight
	grains := gui.SliderBar(
		rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 20},
		"", "",
		float32(state.ClickGrains), 1, float32(state.MaxClickGrains),
	)
	actions.ClickGrains = uint32(grains)
	y += 20 + 8

	// Buttons
	bw := (inner - 10) / 3
	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	actions.TogglePause = gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: bw, Height: 30}, pauseText)
	if state.Stable {
		gui.Disable()
	}
	actions.Step = gui.Button(rl.Rectangle{X: x + bw + 5, Y: float32(y), Width: bw, Height: 30}, "Step")
	gui.Enable()
	actions.Reset = gui.Button(rl.Rectangle{X: x + 2*(bw+5), Y: float32(y), Width: bw, Height: 30}, "Reset")
	y += 30 + padding

	// Overlay toggles
	y = r.DrawSectionHeader(int32(x), y, "Overlays")
	for _, desc := range overlays.All() {
		c.drawToggle(int32(x), y, desc, overlays.IsEnabled(desc.ID), int32(inner))
		y += lineHeight
	}

	return actions
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}
