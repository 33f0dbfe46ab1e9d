package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/sandpiles/sandpile"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	if cfg.Derived.GridW != 640 || cfg.Derived.GridH != 400 {
		t.Errorf("expected derived grid 640x400, got %dx%d", cfg.Derived.GridW, cfg.Derived.GridH)
	}
	if cfg.Simulation.StepsPerFrame != 100 {
		t.Errorf("expected 100 steps per frame, got %d", cfg.Simulation.StepsPerFrame)
	}
	if len(cfg.Simulation.Piles) != 1 || !cfg.Simulation.Piles[0].Center ||
		cfg.Simulation.Piles[0].Grains != sandpile.DefaultPile {
		t.Errorf("expected one center pile of %d grains, got %+v", sandpile.DefaultPile, cfg.Simulation.Piles)
	}
	if len(cfg.Derived.Palette.Colors) != 7 {
		t.Errorf("expected 7 palette colors, got %d", len(cfg.Derived.Palette.Colors))
	}
	if cfg.Derived.Palette.Overflow != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("unexpected overflow color %v", cfg.Derived.Palette.Overflow)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := writeConfig(t, `
grid:
  width: 32
  height: 16
simulation:
  steps_per_frame: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Derived.GridW != 32 || cfg.Derived.GridH != 16 {
		t.Errorf("expected grid 32x16, got %dx%d", cfg.Derived.GridW, cfg.Derived.GridH)
	}
	if cfg.Simulation.StepsPerFrame != 5 {
		t.Errorf("expected 5 steps per frame, got %d", cfg.Simulation.StepsPerFrame)
	}
	if cfg.Screen.TargetFPS != 60 {
		t.Errorf("expected default target fps to survive, got %d", cfg.Screen.TargetFPS)
	}
	if cfg.Simulation.MaxStepsPerFrame != 1000 {
		t.Errorf("expected default max steps to survive, got %d", cfg.Simulation.MaxStepsPerFrame)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target error
	}{
		{
			name:   "zero derived width",
			body:   "screen: {width: 1}\ngrid: {pix_size: 4}\n",
			target: sandpile.ErrInvalidDimension,
		},
		{
			name:   "pile outside grid",
			body:   "grid: {width: 8, height: 8}\nsimulation:\n  piles:\n    - {row: 8, col: 0, grains: 5}\n",
			target: sandpile.ErrOutOfRange,
		},
		{
			name: "bad palette",
			body: "palette: {colors: [\"#000\", \"purple\"]}\n",
		},
		{
			name: "negative steps",
			body: "simulation: {steps_per_frame: -1}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewGridSeedsPiles(t *testing.T) {
	path := writeConfig(t, `
grid: {width: 9, height: 5}
simulation:
  piles:
    - {center: true, grains: 100}
    - {row: 0, col: 0, grains: 7}
    - {row: 0, col: 0, grains: 3}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := cfg.NewGrid()

	if g.Width() != 9 || g.Height() != 5 {
		t.Fatalf("expected 9x5 grid, got %dx%d", g.Width(), g.Height())
	}
	if got := g.Cell(2, 4); got != 100 {
		t.Errorf("center cell = %d, want 100", got)
	}
	if got := g.Cell(0, 0); got != 10 {
		t.Errorf("stacked pile = %d, want 10", got)
	}
	if g.Total() != 110 {
		t.Errorf("total = %d, want 110", g.Total())
	}
	if len(g.Dirty()) != 45 {
		t.Errorf("expected all 45 cells dirty, got %d", len(g.Dirty()))
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Grid.Width = 123

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if loaded.Derived.GridW != 123 {
		t.Errorf("expected grid width 123 after reload, got %d", loaded.Derived.GridW)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}

func TestSetGridSize(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := cfg.SetGridSize(33, 0); err != nil {
		t.Fatalf("SetGridSize: %v", err)
	}
	if cfg.Derived.GridW != 33 || cfg.Derived.GridH != 400 {
		t.Errorf("grid = %dx%d, want 33x400", cfg.Derived.GridW, cfg.Derived.GridH)
	}

	cfg.Simulation.Piles = append(cfg.Simulation.Piles, PileConfig{Row: 10, Col: 30, Grains: 1})
	err = cfg.SetGridSize(20, 20)
	if !errors.Is(err, sandpile.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for a pile outside the shrunk grid, got %v", err)
	}
}
