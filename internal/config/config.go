// Package config handles planet generation configuration loading and
// validation.
package config

import (
	"errors"
	"fmt"
	"sort"
)

// Config holds all generation settings.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Streaming StreamingConfig `yaml:"streaming"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Planets   []Planet        `yaml:"planets"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// StreamingConfig holds presentation loop settings.
type StreamingConfig struct {
	// ViewDistance is measured between unit directions, so 2 covers the
	// whole sphere.
	ViewDistance float64 `yaml:"view_distance"`
	TickRateHz   int     `yaml:"tick_rate_hz"`
	// MaxInstantiatePerTick caps renderer work per drain; 0 means no cap.
	MaxInstantiatePerTick int `yaml:"max_instantiate_per_tick"`
}

// ViewerConfig drives the demo viewer orbiting the first planet.
type ViewerConfig struct {
	// OrbitDistance is in planet radii from the center.
	OrbitDistance float64 `yaml:"orbit_distance"`
	// OrbitSpeed is in radians per second.
	OrbitSpeed float64 `yaml:"orbit_speed"`
}

// Default returns a Config with sensible default values and one demo planet.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Streaming: StreamingConfig{
			ViewDistance:          0.6,
			TickRateHz:            30,
			MaxInstantiatePerTick: 16,
		},
		Viewer: ViewerConfig{
			OrbitDistance: 1.5,
			OrbitSpeed:    0.5,
		},
		Planets: []Planet{DefaultPlanet()},
	}
}

// DefaultPlanet returns the demo planet.
func DefaultPlanet() Planet {
	return Planet{
		Name:              "terra",
		Seed:              1337,
		Style:             "low_poly",
		Radius:            100,
		SeaLevel:          3,
		Subdivisions:      2,
		ChunkSubdivisions: 3,
		Material:          "terrain",
		SeaMaterial:       "water",
		NoiseLayers: []NoiseLayer{
			{Octaves: 4, Persistence: 0.5, Lacunarity: 2, Scale: 60, MinHeight: 0.35, HeightMultiplier: 14},
			{Octaves: 2, Persistence: 0.5, Lacunarity: 2, Scale: 15, MinHeight: 0.6, HeightMultiplier: 4, Primitive: "perlin"},
		},
		ColorBands: []ColorBand{
			{Threshold: 10, Color: [4]float32{0.95, 0.95, 0.97, 1}},
			{Threshold: 6, Color: [4]float32{0.45, 0.4, 0.35, 1}},
			{Threshold: 3.5, Color: [4]float32{0.25, 0.6, 0.2, 1}},
			{Threshold: 0, Color: [4]float32{0.85, 0.8, 0.55, 1}},
		},
		Population: []PopulationRule{
			{Models: []string{"pine", "fir"}, MinHeight: 3.5, MaxHeight: 6, Probability: 0.3},
			{Models: []string{"rock"}, MinHeight: 6, MaxHeight: 10, Probability: 0.1},
		},
	}
}

// Validate checks every planet and the streaming settings. All violations
// are reported together; planet violations are *FieldError values.
func (c *Config) Validate() error {
	var errs []error

	if c.Streaming.ViewDistance < 0 {
		errs = append(errs, errors.New("streaming: view_distance must be >= 0"))
	}
	if c.Streaming.TickRateHz <= 0 {
		errs = append(errs, errors.New("streaming: tick_rate_hz must be > 0"))
	}
	if c.Streaming.MaxInstantiatePerTick < 0 {
		errs = append(errs, errors.New("streaming: max_instantiate_per_tick must be >= 0"))
	}

	seen := make(map[string]int, len(c.Planets))
	for i := range c.Planets {
		p := &c.Planets[i]
		if prev, ok := seen[p.Name]; ok && p.Name != "" {
			errs = append(errs, &FieldError{Planet: p.Name, Field: "name",
				Reason: fmt.Sprintf("duplicates planet #%d", prev)})
		}
		seen[p.Name] = i
		errs = append(errs, p.Validate())
	}
	return errors.Join(errs...)
}

// normalize puts derived orderings in place after loading.
func (c *Config) normalize() {
	for i := range c.Planets {
		c.Planets[i].SortBands()
	}
}

// SortBands orders the color bands highest threshold first.
func (p *Planet) SortBands() {
	sort.SliceStable(p.ColorBands, func(i, j int) bool {
		return p.ColorBands[i].Threshold > p.ColorBands[j].Threshold
	})
}
