// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sandpiles/palette"
	"github.com/pthm-cable/sandpiles/sandpile"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Grid       GridConfig       `yaml:"grid"`
	Simulation SimulationConfig `yaml:"simulation"`
	Palette    PaletteConfig    `yaml:"palette"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds the torus dimensions.
// A zero dimension is derived from the screen size divided by PixSize.
type GridConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	PixSize int `yaml:"pix_size"` // Screen pixels per cell at zoom 1
}

// PileConfig places grains on one cell before the first step.
type PileConfig struct {
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`
	Center bool   `yaml:"center"` // Ignore Row/Col and use the center cell
	Grains uint32 `yaml:"grains"`
}

// SimulationConfig holds stepping and seeding parameters.
type SimulationConfig struct {
	StepsPerFrame    int          `yaml:"steps_per_frame"`
	MaxStepsPerFrame int          `yaml:"max_steps_per_frame"` // Upper bound of the UI slider
	ClickGrains      uint32       `yaml:"click_grains"`        // Grains dropped by a mouse click
	Piles            []PileConfig `yaml:"piles"`
}

// PaletteConfig holds the grain colours as hex strings.
// Colors[n] is used for a cell holding n grains.
type PaletteConfig struct {
	Colors   []string `yaml:"colors"`
	Overflow string   `yaml:"overflow"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowIterations    int     `yaml:"window_iterations"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	DeclineFraction     float64 `yaml:"decline_fraction"` // Topple rate drop that ends the activity peak
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	GridW, GridH int             // Effective torus dimensions
	Palette      palette.Palette // Parsed colours
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config and rejects
// settings the engine cannot run with.
func (c *Config) computeDerived() error {
	if c.Grid.PixSize < 1 {
		c.Grid.PixSize = 1
	}

	gridW := c.Grid.Width
	if gridW == 0 {
		gridW = c.Screen.Width / c.Grid.PixSize
	}
	gridH := c.Grid.Height
	if gridH == 0 {
		gridH = c.Screen.Height / c.Grid.PixSize
	}
	if gridW < 1 || gridH < 1 {
		return fmt.Errorf("grid: %w: %dx%d", sandpile.ErrInvalidDimension, gridW, gridH)
	}
	c.Derived.GridW = gridW
	c.Derived.GridH = gridH

	for i, p := range c.Simulation.Piles {
		if p.Center {
			continue
		}
		if p.Row < 0 || p.Row >= gridH || p.Col < 0 || p.Col >= gridW {
			return fmt.Errorf("simulation.piles[%d]: %w: (%d, %d) on %dx%d",
				i, sandpile.ErrOutOfRange, p.Row, p.Col, gridW, gridH)
		}
	}

	if c.Simulation.StepsPerFrame < 0 {
		return errors.New("simulation.steps_per_frame must not be negative")
	}
	if c.Simulation.MaxStepsPerFrame < c.Simulation.StepsPerFrame {
		c.Simulation.MaxStepsPerFrame = c.Simulation.StepsPerFrame
	}

	pal, err := palette.FromHex(c.Palette.Colors, c.Palette.Overflow)
	if err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	c.Derived.Palette = pal

	return nil
}

// SetGridSize overrides the grid dimensions and revalidates the config.
// A zero dimension is derived from the screen size.
func (c *Config) SetGridSize(width, height int) error {
	c.Grid.Width = width
	c.Grid.Height = height
	return c.computeDerived()
}

// NewGrid builds a grid sized and seeded from the configuration.
func (c *Config) NewGrid() *sandpile.Grid {
	g := sandpile.NewEmpty(c.Derived.GridW, c.Derived.GridH)
	for _, p := range c.Simulation.Piles {
		row, col := p.Row, p.Col
		if p.Center {
			row, col = c.Derived.GridH/2, c.Derived.GridW/2
		}
		g.SetCell(row, col, g.Cell(row, col)+p.Grains)
	}
	return g
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
