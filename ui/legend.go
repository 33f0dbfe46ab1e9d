package ui

import (
	"fmt"

	"github.com/pthm-cable/sandpiles/palette"
)

// LegendPanel shows which colour stands for which grain count.
type LegendPanel struct {
	renderer *Renderer
	palette  palette.Palette
	x, y     int32
	width    int32
}

// NewLegendPanel creates a legend for the given palette.
func NewLegendPanel(pal palette.Palette, x, y, width int32) *LegendPanel {
	return &LegendPanel{
		renderer: NewRenderer(),
		palette:  pal,
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (l *LegendPanel) SetPosition(x, y int32) {
	l.x = x
	l.y = y
}

// Height returns the panel height in pixels.
func (l *LegendPanel) Height() int32 {
	t := l.renderer.Theme
	return t.LineHeight*int32(len(l.palette.Colors)+2) + t.Padding*2
}

// Draw renders the legend.
func (l *LegendPanel) Draw() {
	r := l.renderer
	r.DrawPanel(l.x, l.y, l.width, l.Height())

	x := l.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, l.y+r.Theme.Padding, "Grains")
	for n, c := range l.palette.Colors {
		y = r.DrawColorSwatch(x, y, fmt.Sprintf("%d", n), c)
	}
	r.DrawColorSwatch(x, y, fmt.Sprintf("%d+", len(l.palette.Colors)), l.palette.Overflow)
}
