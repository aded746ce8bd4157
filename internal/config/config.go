// Package config provides configuration loading from YAML or TOML files and
// environment variables. Environment variables take precedence for dev flexibility.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/rgba"
	"github.com/phinze/colorwell/internal/swatch"
)

// Config holds the full application configuration, assembled from file + env.
type Config struct {
	Accent  string        `yaml:"accent" toml:"accent"`
	Surface SurfaceConfig `yaml:"surface" toml:"surface"`
	Wells   []WellConfig  `yaml:"wells" toml:"wells"`
	Palette PaletteConfig `yaml:"palette" toml:"palette"`
}

// SurfaceConfig describes the drawing surface.
type SurfaceConfig struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`

	// Brightness is the hardware backlight percentage.
	Brightness int `yaml:"brightness" toml:"brightness"`
}

// WellConfig places one well on the surface.
type WellConfig struct {
	Name   string  `yaml:"name" toml:"name"`
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
	Color  string  `yaml:"color" toml:"color"`
}

// PaletteConfig describes the popover content.
type PaletteConfig struct {
	Columns        int              `yaml:"columns" toml:"columns"`
	Cell           float64          `yaml:"cell" toml:"cell"`
	Gap            float64          `yaml:"gap" toml:"gap"`
	Padding        float64          `yaml:"padding" toml:"padding"`
	GradientHeight float64          `yaml:"gradient_height" toml:"gradient_height"`
	Colors         []string         `yaml:"colors" toml:"colors"`
	Gradients      []GradientConfig `yaml:"gradients" toml:"gradients"`
}

// GradientConfig is one gradient strip.
type GradientConfig struct {
	Left  string `yaml:"left" toml:"left"`
	Right string `yaml:"right" toml:"right"`
}

// Default returns the built-in configuration: three wells on a Stream Deck
// Plus touch strip.
func Default() *Config {
	return &Config{
		Accent: "#0a84ff",
		Surface: SurfaceConfig{
			Width:      800,
			Height:     100,
			Brightness: 60,
		},
		Wells: []WellConfig{
			{Name: "foreground", X: 20, Y: 8, Width: 120, Height: 40, Color: "#ff3b30"},
			{Name: "background", X: 160, Y: 8, Width: 120, Height: 40, Color: "#ffffff"},
			{Name: "stroke", X: 300, Y: 8, Width: 120, Height: 40, Color: "#34c759"},
		},
		Palette: PaletteConfig{
			Columns:        swatch.DefaultLayout.Columns,
			Cell:           swatch.DefaultLayout.Cell,
			Gap:            swatch.DefaultLayout.Gap,
			Padding:        swatch.DefaultLayout.Padding,
			GradientHeight: swatch.DefaultLayout.GradientHeight,
			Colors: []string{
				"#ff3b30", "#ff9500", "#ffcc00", "#34c759",
				"#00c7be", "#007aff", "#5856d6", "#af52de",
				"#ffffff", "#d1d1d6", "#8e8e93", "#636366",
				"#3a3a3c", "#1c1c1e", "#000000", "cornflowerblue",
			},
			Gradients: []GradientConfig{
				{Left: "#000000", Right: "#ffffff"},
				{Left: "#ff0000", Right: "#0000ff"},
			},
		},
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "colorwell")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if p := os.Getenv("COLORWELL_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load assembles configuration from the config file + environment variables.
// Environment variables always take precedence. A missing file yields the
// defaults.
func Load() (*Config, error) {
	cfg, err := LoadFile(DefaultConfigPath())
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads path over the defaults. Files ending in .toml are TOML;
// anything else is YAML. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("COLORWELL_ACCENT"); v != "" {
		cfg.Accent = v
	}
	if v := os.Getenv("COLORWELL_SURFACE"); v != "" {
		var w, h int
		if _, err := fmt.Sscanf(v, "%dx%d", &w, &h); err != nil {
			return fmt.Errorf("parsing COLORWELL_SURFACE %q: want WIDTHxHEIGHT", v)
		}
		cfg.Surface.Width, cfg.Surface.Height = w, h
	}
	return nil
}

// WriteConfigFile writes cfg to the default config path, as TOML if the
// path ends in .toml.
func WriteConfigFile(cfg *Config) error {
	path := DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := Marshal(cfg, isTOML(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes cfg as YAML, or TOML when asTOML is set.
func Marshal(cfg *Config, asTOML bool) ([]byte, error) {
	if asTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate reports the first problem that would stop the wells from running.
func (c *Config) Validate() error {
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		return fmt.Errorf("surface size %dx%d must be positive", c.Surface.Width, c.Surface.Height)
	}
	if c.Surface.Brightness < 0 || c.Surface.Brightness > 100 {
		return fmt.Errorf("surface brightness %d out of range 0-100", c.Surface.Brightness)
	}
	if _, err := rgba.Parse(c.Accent); err != nil {
		return fmt.Errorf("accent: %w", err)
	}
	if len(c.Wells) == 0 {
		return fmt.Errorf("no wells configured")
	}

	surface := geom.R(0, 0, float64(c.Surface.Width), float64(c.Surface.Height))
	seen := make(map[string]bool)
	for i, w := range c.Wells {
		if w.Name == "" {
			return fmt.Errorf("well %d: missing name", i)
		}
		if seen[w.Name] {
			return fmt.Errorf("well %q: duplicate name", w.Name)
		}
		seen[w.Name] = true
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("well %q: size must be positive", w.Name)
		}
		b := w.Bounds()
		if !surface.Contains(b.Origin()) || !surface.Contains(b.Max()) {
			return fmt.Errorf("well %q: frame %v outside the %dx%d surface", w.Name, b, c.Surface.Width, c.Surface.Height)
		}
		if _, err := rgba.Parse(w.Color); err != nil {
			return fmt.Errorf("well %q: %w", w.Name, err)
		}
	}

	if c.Palette.Columns <= 0 {
		return fmt.Errorf("palette columns must be positive")
	}
	if _, err := c.Palette.Swatches(); err != nil {
		return err
	}
	if _, err := c.Palette.GradientSpecs(); err != nil {
		return err
	}
	return nil
}

// AccentColor parses the accent color.
func (c *Config) AccentColor() (rgba.Color, error) {
	return rgba.Parse(c.Accent)
}

// Bounds returns the well frame on the surface.
func (w WellConfig) Bounds() geom.Rect {
	return geom.R(w.X, w.Y, w.Width, w.Height)
}

// InitialColor parses the well's starting color.
func (w WellConfig) InitialColor() (rgba.Color, error) {
	return rgba.Parse(w.Color)
}

// Layout returns the palette layout.
func (p PaletteConfig) Layout() swatch.Layout {
	return swatch.Layout{
		Columns:        p.Columns,
		Cell:           p.Cell,
		Gap:            p.Gap,
		Padding:        p.Padding,
		GradientHeight: p.GradientHeight,
	}
}

// Swatches parses the palette colors.
func (p PaletteConfig) Swatches() ([]rgba.Color, error) {
	colors := make([]rgba.Color, 0, len(p.Colors))
	for i, s := range p.Colors {
		c, err := rgba.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("palette color %d: %w", i, err)
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// GradientSpecs parses the gradient strips.
func (p PaletteConfig) GradientSpecs() ([]swatch.GradientSpec, error) {
	specs := make([]swatch.GradientSpec, 0, len(p.Gradients))
	for i, g := range p.Gradients {
		left, err := rgba.Parse(g.Left)
		if err != nil {
			return nil, fmt.Errorf("gradient %d left: %w", i, err)
		}
		right, err := rgba.Parse(g.Right)
		if err != nil {
			return nil, fmt.Errorf("gradient %d right: %w", i, err)
		}
		specs = append(specs, swatch.GradientSpec{Left: left, Right: right})
	}
	return specs, nil
}
