// Package camera provides a 2D camera for viewing a toroidal grid.
package camera

import "math"

// Camera controls the viewport into the grid.
// World coordinates are measured in cells; the view wraps at the grid edges.
type Camera struct {
	// Position is the camera center in cell coordinates
	X, Y float32

	// Zoom is the number of screen pixels per cell
	Zoom float32

	// BaseZoom is the zoom restored by Reset
	BaseZoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions in cells
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the grid at baseZoom pixels per cell.
func New(viewportW, viewportH, worldW, worldH, baseZoom float32) *Camera {
	if baseZoom <= 0 {
		baseZoom = 1
	}
	c := &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		BaseZoom:  baseZoom,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   max(32, baseZoom),
	}
	c.MinZoom = c.minZoom()
	c.SetZoom(baseZoom)
	return c
}

// minZoom keeps the visible area within one copy of the grid.
// At zoom Z the visible area is (viewportW/Z, viewportH/Z) cells.
func (c *Camera) minZoom() float32 {
	return min(max(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH), c.BaseZoom)
}

// WorldToScreen converts cell coordinates to screen coordinates,
// taking the shortest path around the torus.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to cell coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom

	wx = mod(c.X+dx, c.WorldW)
	wy = mod(c.Y+dy, c.WorldH)
	return wx, wy
}

// ScreenToCell returns the row and column of the cell under a screen point.
func (c *Camera) ScreenToCell(sx, sy float32) (row, col int) {
	wx, wy := c.ScreenToWorld(sx, sy)
	col = min(int(wx), int(c.WorldW)-1)
	row = min(int(wy), int(c.WorldH)-1)
	return row, col
}

// SourceRect returns the region of the grid texture covered by the viewport,
// in cells. The origin may be negative or exceed the grid; the texture is
// expected to repeat.
func (c *Camera) SourceRect() (x, y, w, h float32) {
	w = c.ViewportW / c.Zoom
	h = c.ViewportH / c.Zoom
	return c.X - w/2, c.Y - h/2, w, h
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.minZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx/c.Zoom, c.WorldW)
	c.Y = mod(c.Y+dy/c.Zoom, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera on the grid at the base zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.SetZoom(c.BaseZoom)
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
