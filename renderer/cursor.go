package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpiles/camera"
)

// DrawCellCursor outlines the cell at (row, col).
func DrawCellCursor(cam *camera.Camera, row, col int, c rl.Color) {
	sx, sy := cam.WorldToScreen(float32(col), float32(row))
	size := cam.Zoom
	thick := float32(1)
	if size >= 8 {
		thick = 2
	}
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, thick, c)
}
