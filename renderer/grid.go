// Package renderer draws sandpile grids with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpiles/camera"
	"github.com/pthm-cable/sandpiles/palette"
)

// GridRenderer renders grain counts as one texel per cell.
// The texture repeats so the camera can look across the torus seam.
type GridRenderer struct {
	palette palette.Palette

	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	screenW, screenH float32
	initialized      bool
}

// NewGridRenderer creates a new grid renderer.
func NewGridRenderer(screenW, screenH int32, pal palette.Palette) *GridRenderer {
	return &GridRenderer{
		palette: pal,
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init creates the grid texture (must be called after raylib window is created).
func (r *GridRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}

	r.texW = gridW
	r.texH = gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)

	r.initialized = true
}

// Resize updates screen dimensions.
func (r *GridRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// Update uploads the grain buffer to the GPU texture.
func (r *GridRenderer) Update(cells []uint32, w, h int) {
	if !r.initialized {
		r.Init(w, h)
	}
	if len(cells) != r.texW*r.texH {
		return
	}

	r.palette.Fill(r.pixels, cells)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the visible part of the grid.
func (r *GridRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}

	x, y, w, h := cam.SourceRect()
	src := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	dst := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// DrawInto renders the whole grid scaled into a screen rectangle.
func (r *GridRenderer) DrawInto(x, y, w, h float32) {
	if !r.initialized {
		return
	}

	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dst := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *GridRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
