package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpiles/camera"
)

// ActivityRenderer overlays the dirty set: the cells the next step will
// evaluate. Drawn with alpha blending on top of the grid texture.
type ActivityRenderer struct {
	tint color.RGBA

	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA
	lit        []int // indices painted by the last Update

	screenW, screenH float32
	initialized      bool
}

// NewActivityRenderer creates a new dirty-set overlay.
func NewActivityRenderer(screenW, screenH int32) *ActivityRenderer {
	return &ActivityRenderer{
		tint:    color.RGBA{R: 255, G: 255, B: 255, A: 140},
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init creates the overlay texture (must be called after raylib window is created).
func (r *ActivityRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}

	r.texW = gridW
	r.texH = gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, rl.Blank)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)

	r.initialized = true
}

// Resize updates screen dimensions.
func (r *ActivityRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// Update repaints the overlay from the dirty set.
// Only the previously lit and newly lit texels are touched on the CPU side.
func (r *ActivityRenderer) Update(dirty []int, w, h int) {
	if !r.initialized {
		r.Init(w, h)
	}

	for _, i := range r.lit {
		r.pixels[i] = color.RGBA{}
	}
	r.lit = r.lit[:0]
	for _, i := range dirty {
		if i < 0 || i >= len(r.pixels) {
			continue
		}
		r.pixels[i] = r.tint
		r.lit = append(r.lit, i)
	}

	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the overlay for the visible part of the grid.
func (r *ActivityRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}

	x, y, w, h := cam.SourceRect()
	src := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	dst := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}

	rl.BeginBlendMode(rl.BlendAlpha)
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
	rl.EndBlendMode()
}

// Unload frees GPU resources.
func (r *ActivityRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
