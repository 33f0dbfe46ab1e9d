package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpiles/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Width, Height int
	Iteration     uint32
	Dirty         int    // Cells due for evaluation
	LastToppled   int    // Topples in the most recent step
	Toppled       uint64 // Topples since the grid was built
	Grains        uint64
	StepsPerFrame int
	FPS           int32
	Paused        bool
	Stable        bool

	// Cell under the mouse cursor
	HoverValid bool
	HoverRow   int
	HoverCol   int
	HoverCount uint32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Iteration: %d | Grid: %dx%d | Grains: %d", data.Iteration, data.Width, data.Height, data.Grains),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Dirty: %d | Toppled: %d (total %d) | Steps/frame: %d | FPS: %d",
			data.Dirty, data.LastToppled, data.Toppled, data.StepsPerFrame, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText, statusColor := "Running", rl.Green
	switch {
	case data.Stable:
		statusText, statusColor = "STABLE", rl.SkyBlue
	case data.Paused:
		statusText, statusColor = "PAUSED", rl.Yellow
	}
	rl.DrawText(statusText, 10, 75, 16, statusColor)

	if data.HoverValid {
		rl.DrawText(
			fmt.Sprintf("Cell (%d, %d): %d grains", data.HoverRow, data.HoverCol, data.HoverCount),
			10, 95, 16, rl.LightGray,
		)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders frame timing by phase.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	padding := r.Theme.Padding
	phases := []string{telemetry.PhaseStep, telemetry.PhaseTelemetry, telemetry.PhaseRender}

	height := r.Theme.LineHeight*int32(3+len(phases)) + padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := r.DrawSectionHeader(x, p.y+padding, "Performance")
	y = r.DrawLabelValue(x, y, "Frame", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Range", fmt.Sprintf("%s - %s",
		stats.MinTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)))

	for _, phase := range phases {
		color := rl.LightGray
		pct := stats.PhasePct[phase]
		if pct > 80 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, r.Theme.FontSize, color)
		y += r.Theme.LineHeight
	}
}
