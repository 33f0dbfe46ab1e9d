// Pile preview tool - watch a single pile settle on a small torus, with sliders.
//
// Usage: go run ./cmd/pilepreview
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpiles/config"
	"github.com/pthm-cable/sandpiles/renderer"
	"github.com/pthm-cable/sandpiles/sandpile"
)

const (
	windowWidth  = 1000
	windowHeight = 600
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// PileParams describes the previewed grid.
type PileParams struct {
	Size          int     // Torus side in cells
	LogGrains     float32 // log10 of the pile size
	StepsPerFrame int
}

func defaultParams() PileParams {
	return PileParams{Size: 129, LogGrains: 4, StepsPerFrame: 50}
}

func (p PileParams) Grains() uint32 {
	return uint32(math.Round(math.Pow(10, float64(p.LogGrains))))
}

func main() {
	configPath := flag.String("config", "", "Config YAML for the palette (empty = defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Sandpile Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	var grid *sandpile.Grid
	var view *renderer.GridRenderer
	stable := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			grid = newPile(params)
			if view != nil {
				view.Unload()
			}
			view = renderer.NewGridRenderer(previewSize, previewSize, cfg.Derived.Palette)
			view.Init(params.Size, params.Size)
			stable = false
			needsRegen = false
		}

		if !stable {
			stable = !grid.ComputeSteps(params.StepsPerFrame)
		}
		view.Update(grid.Cells(), grid.Width(), grid.Height())

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		view.DrawInto(10, 10, previewSize, previewSize)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Stats
		statsY := int32(previewSize + 25)
		status := "settling"
		if stable {
			status = "stable"
		}
		rl.DrawText(fmt.Sprintf("Iteration: %d  Toppled: %d  Dirty: %d  (%s)",
			grid.Iteration(), grid.Toppled(), len(grid.Dirty()), status), 15, statsY, 16, rl.DarkGray)
		if limit := 2 * uint64(grid.Len()); uint64(params.Grains()) >= limit {
			rl.DrawText(fmt.Sprintf("Piles of %d grains or more may never settle on this torus", limit),
				15, statsY+20, 14, rl.Maroon)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Pile Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Torus side (cells)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSize := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"16", "512",
			float32(params.Size), 16, 512,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Size), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newSize) != params.Size {
			params.Size = int(newSize)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Pile size (log10 grains)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newLog := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "7",
			params.LogGrains, 1, 7,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Grains()), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newLog != params.LogGrains {
			params.LogGrains = newLog
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Steps per frame", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSteps := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "2000",
			float32(params.StepsPerFrame), 1, 2000,
		)
		rl.DrawText(fmt.Sprintf("%d", params.StepsPerFrame), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		params.StepsPerFrame = int(newSteps)
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Restart") {
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		yaml := pileYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}

	if view != nil {
		view.Unload()
	}
}

// newPile builds a square torus with one centered pile.
func newPile(p PileParams) *sandpile.Grid {
	g := sandpile.NewEmpty(p.Size, p.Size)
	g.SetCell(p.Size/2, p.Size/2, p.Grains())
	return g
}

func pileYAML(p PileParams) string {
	return fmt.Sprintf(`grid:
  width: %d
  height: %d
simulation:
  piles:
    - center: true
      grains: %d`, p.Size, p.Size, p.Grains())
}
