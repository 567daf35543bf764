package materialize

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/crazy3lf/colorconv"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of a materialize scene.
type Config struct {
	// Image is the path of the source image.
	Image string `yaml:"image"`
	// Width and Height are the render surface size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Background is the surface clear color as #rrggbb.
	Background string `yaml:"background"`
	// Blend is the particle blend mode: "normal" or "add".
	Blend string `yaml:"blend"`

	MaxParticlesPerAxis int  `yaml:"max_particles_per_axis"`
	IgnoreBlack         bool `yaml:"ignore_black"`
	IgnoreWhite         bool `yaml:"ignore_white"`
	// OverrideColor recolors every particle when set, as #rrggbb.
	OverrideColor string `yaml:"override_color"`
	// OverrideAlpha is the alpha of OverrideColor. Defaults to 1.
	OverrideAlpha *float64 `yaml:"override_alpha"`
	JitterRadius  float64  `yaml:"jitter_radius"`

	// Origin is where particles start. Defaults to the top center of the surface.
	Origin        *Vec2   `yaml:"origin"`
	Duration      float64 `yaml:"duration"`
	ClockStep     float64 `yaml:"clock_step"`
	DelayTime     Range   `yaml:"delay_time"`
	DelayDuration Range   `yaml:"delay_duration"`
	// Seed makes sampling reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		Background:    "#000000",
		Duration:      DefaultDuration,
		ClockStep:     DefaultClockStep,
		DelayTime:     DefaultDelayTime,
		DelayDuration: DefaultDelayDuration,
	}
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig, normalizes out-of-range values
// and validates colors.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize replaces out-of-range values with their defaults. Nothing here is
// rejected; the replaced values are logged at warn level.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if strings.TrimSpace(c.Background) == "" {
		c.Background = d.Background
	}
	if c.MaxParticlesPerAxis < 0 {
		Logger().Warn("config: negative max_particles_per_axis, sampling every pixel", "value", c.MaxParticlesPerAxis)
		c.MaxParticlesPerAxis = 0
	}
	if c.JitterRadius < 0 {
		Logger().Warn("config: negative jitter_radius, jitter disabled", "value", c.JitterRadius)
		c.JitterRadius = 0
	}
	if c.Duration <= 0 {
		Logger().Warn("config: non-positive duration, using default", "value", c.Duration)
		c.Duration = d.Duration
	}
	if c.ClockStep <= 0 {
		Logger().Warn("config: non-positive clock_step, using default", "value", c.ClockStep)
		c.ClockStep = d.ClockStep
	}
	if c.DelayTime.Min < 0 || c.DelayTime.Max <= c.DelayTime.Min {
		c.DelayTime = d.DelayTime
	}
	if c.DelayDuration.Min < 0 || c.DelayDuration.Max <= c.DelayDuration.Min {
		c.DelayDuration = d.DelayDuration
	}
	if c.OverrideAlpha != nil {
		a := clamp01(*c.OverrideAlpha)
		c.OverrideAlpha = &a
	}
}

// Validate checks that the color fields parse.
func (c *Config) Validate() error {
	if _, err := ParseHexColor(c.Background, 1); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if c.OverrideColor != "" {
		if _, err := ParseHexColor(c.OverrideColor, 1); err != nil {
			return fmt.Errorf("override_color: %w", err)
		}
	}
	return nil
}

// BackgroundColor returns the parsed background, falling back to black.
func (c *Config) BackgroundColor() Color {
	bg, err := ParseHexColor(c.Background, 1)
	if err != nil {
		return ColorBlack
	}
	return bg
}

// SampleOptions converts the config into sampler options. A non-zero Seed
// yields a reproducible random source.
func (c *Config) SampleOptions() (SampleOptions, error) {
	opts := SampleOptions{
		MaxParticlesPerAxis: c.MaxParticlesPerAxis,
		IgnoreBlack:         c.IgnoreBlack,
		IgnoreWhite:         c.IgnoreWhite,
		JitterRadius:        c.JitterRadius,
		DelayTime:           c.DelayTime,
		DelayDuration:       c.DelayDuration,
	}
	if c.OverrideColor != "" {
		alpha := 1.0
		if c.OverrideAlpha != nil {
			alpha = *c.OverrideAlpha
		}
		oc, err := ParseHexColor(c.OverrideColor, alpha)
		if err != nil {
			return SampleOptions{}, fmt.Errorf("override_color: %w", err)
		}
		opts.OverrideColor = &oc
	}
	if c.Seed != 0 {
		opts.Rand = NewRand(c.Seed)
	}
	return opts, nil
}

// EngineOptions converts the config into engine options. The caller adds
// OnRepaint and listeners.
func (c *Config) EngineOptions() EngineOptions {
	origin := Vec2{X: float64(c.Width) / 2, Y: 0}
	if c.Origin != nil {
		origin = *c.Origin
	}
	return EngineOptions{
		Origin:    origin,
		Surface:   Vec2{X: float64(c.Width), Y: float64(c.Height)},
		Duration:  c.Duration,
		ClockStep: c.ClockStep,
	}
}

// NewRand returns a PCG-backed source seeded from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ParseHexColor parses "#rrggbb" (or "rrggbb") into a Color with the given
// alpha.
func ParseHexColor(s string, alpha float64) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	r, g, b, err := colorconv.HexToRGB(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: clamp01(alpha),
	}, nil
}
