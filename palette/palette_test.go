package palette

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"short black", "#000", color.RGBA{0, 0, 0, 255}, false},
		{"short orange", "#F80", color.RGBA{255, 136, 0, 255}, false},
		{"long", "#0088ff", color.RGBA{0, 136, 255, 255}, false},
		{"with alpha", "#10203040", color.RGBA{16, 32, 48, 64}, false},
		{"no hash", "0FF", color.RGBA{0, 255, 255, 255}, false},
		{"empty", "", color.RGBA{}, true},
		{"bad length", "#12345", color.RGBA{}, true},
		{"bad digit", "#GGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHex(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPaletteColor(t *testing.T) {
	p, err := FromHex([]string{"#000", "#FF0", "#F80"}, "#0F0")
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}

	if got := p.Color(0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Color(0) = %v", got)
	}
	if got := p.Color(2); got != (color.RGBA{255, 136, 0, 255}) {
		t.Errorf("Color(2) = %v", got)
	}
	if got := p.Color(3); got != p.Overflow {
		t.Errorf("Color(3) = %v, want overflow %v", got, p.Overflow)
	}
	if got := p.Color(10_000_000); got != p.Overflow {
		t.Errorf("Color(10M) = %v, want overflow %v", got, p.Overflow)
	}
}

func TestPaletteFill(t *testing.T) {
	p, _ := FromHex([]string{"#000", "#FFF"}, "#F00")
	cells := []uint32{0, 1, 2, 1}
	dst := make([]color.RGBA, len(cells))

	p.Fill(dst, cells)

	want := []color.RGBA{
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{255, 0, 0, 255},
		{255, 255, 255, 255},
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestFromHexReportsBadEntry(t *testing.T) {
	if _, err := FromHex([]string{"#000", "nope"}, "#0F0"); err == nil {
		t.Error("expected error for malformed palette entry")
	}
	if _, err := FromHex([]string{"#000"}, "zz"); err == nil {
		t.Error("expected error for malformed overflow color")
	}
}
