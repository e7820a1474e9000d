// Package config provides configuration loading and access for particle
// effects and the preview host.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all effect and host configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Effects    []EffectConfig   `yaml:"effects"`
}

// ScreenConfig holds display settings for the graphical host.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds frame-stepping parameters.
type SimulationConfig struct {
	DT       float64 `yaml:"dt"`       // seconds per tick
	Seed     int64   `yaml:"seed"`     // 0 = derive from clock at startup
	Parallel bool    `yaml:"parallel"` // parallel modifier application
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// EffectConfig describes one named particle effect: pool capacity, emitter
// behavior, an optional noise field, and the ordered modifier stack.
type EffectConfig struct {
	Name      string           `yaml:"name"`
	Capacity  int              `yaml:"capacity"`
	Emitter   EmitterConfig    `yaml:"emitter"`
	Noise     *NoiseConfig     `yaml:"noise"`
	Modifiers []ModifierConfig `yaml:"modifiers"`
}

// RangeConfig is a [min, max] sampling interval.
type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// BurstConfig schedules count particles at an offset from emitter start.
type BurstConfig struct {
	Time  float64 `yaml:"time"`
	Count int     `yaml:"count"`
}

// ShapeConfig selects and parameterizes a spawn shape. Type is one of
// point, sphere, box, cone, circle; only the fields for that type apply.
type ShapeConfig struct {
	Type        string     `yaml:"type"`
	Radius      float64    `yaml:"radius"`
	Thickness   float64    `yaml:"thickness"`
	Angle       float64    `yaml:"angle"` // cone half-angle, radians
	Height      float64    `yaml:"height"`
	HalfExtents [3]float64 `yaml:"half_extents"`
}

// SpreadConfig enables interval emission around the shape. Loop is one of
// loop (default) or ping_pong.
type SpreadConfig struct {
	Amount  float64 `yaml:"amount"`
	Loop    string  `yaml:"loop"`
	Uniform bool    `yaml:"uniform"`
}

// EmitterConfig holds spawn-rate, burst, and initial-condition parameters.
type EmitterConfig struct {
	Rate                float64       `yaml:"rate"`
	RateCurve           [][2]float64  `yaml:"rate_curve"` // [time, value] keyframes
	RatePeriod          float64       `yaml:"rate_period"`
	Bursts              []BurstConfig `yaml:"bursts"`
	Shape               ShapeConfig   `yaml:"shape"`
	Spread              *SpreadConfig `yaml:"spread"`
	FixedDirection      []float64     `yaml:"fixed_direction"` // empty = from shape
	RandomizeDirection  float64       `yaml:"randomize_direction"`
	SpherizeDirection   float64       `yaml:"spherize_direction"`
	Speed               RangeConfig   `yaml:"speed"`
	Size                RangeConfig   `yaml:"size"`
	Lifetime            RangeConfig   `yaml:"lifetime"`
	Color               [4]float64    `yaml:"color"`
	PreserveAccumulator bool          `yaml:"preserve_accumulator"`
}

// NoiseConfig parameterizes the effect's shared turbulence field.
type NoiseConfig struct {
	Frequency  float64 `yaml:"frequency"`
	TimeScale  float64 `yaml:"time_scale"`
	Octaves    int     `yaml:"octaves"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
}

// GradientKeyConfig is a [time, rgba] gradient keyframe.
type GradientKeyConfig struct {
	Time  float64    `yaml:"time"`
	Color [4]float64 `yaml:"color"`
}

// ModifierConfig selects and parameterizes one pipeline stage. Type is one
// of gravity, drag, noise_force, size_over_life, color_over_life,
// integrate; list order is pipeline order.
type ModifierConfig struct {
	Type     string              `yaml:"type"`
	Accel    [3]float64          `yaml:"accel"`    // gravity
	Drag     float64             `yaml:"drag"`     // drag coefficient per second
	Strength [][2]float64        `yaml:"strength"` // noise_force strength curve
	Curve    [][2]float64        `yaml:"curve"`    // size_over_life
	Gradient []GradientKeyConfig `yaml:"gradient"` // color_over_life
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
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
		// A user file that declares effects replaces the default set
		// wholesale; per-entry merging would splice unrelated effects.
		user := &Config{}
		if err := yaml.Unmarshal(data, user); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if len(user.Effects) > 0 {
			cfg.Effects = user.Effects
		}
	}

	return cfg, nil
}

// Effect returns the named effect config, or nil if absent.
func (c *Config) Effect(name string) *EffectConfig {
	for i := range c.Effects {
		if c.Effects[i].Name == name {
			return &c.Effects[i]
		}
	}
	return nil
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
