// Package palette maps grain counts to colours.
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette colours a cell by its grain count: Colors[n] for n grains, Overflow
// once n runs past the end of Colors.
type Palette struct {
	Colors   []color.RGBA
	Overflow color.RGBA
}

// Color returns the colour for a cell holding grains.
func (p Palette) Color(grains uint32) color.RGBA {
	if int64(grains) < int64(len(p.Colors)) {
		return p.Colors[grains]
	}
	return p.Overflow
}

// Fill writes the colour of every cell into dst. dst must be at least as long
// as cells.
func (p Palette) Fill(dst []color.RGBA, cells []uint32) {
	for i, c := range cells {
		dst[i] = p.Color(c)
	}
}

// FromHex builds a palette from CSS-style hex strings.
func FromHex(colors []string, overflow string) (Palette, error) {
	p := Palette{Colors: make([]color.RGBA, len(colors))}
	for i, s := range colors {
		c, err := ParseHex(s)
		if err != nil {
			return Palette{}, fmt.Errorf("color %d: %w", i, err)
		}
		p.Colors[i] = c
	}
	c, err := ParseHex(overflow)
	if err != nil {
		return Palette{}, fmt.Errorf("overflow color: %w", err)
	}
	p.Overflow = c
	return p, nil
}

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA" into an opaque or
// translucent colour. The leading '#' is optional.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")

	// Expand the short form: F80 -> FF8800.
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
