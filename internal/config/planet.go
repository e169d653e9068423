package config

import (
	"errors"
	"fmt"
)

// MaxDetail bounds subdivisions + chunk_subdivisions. At the bound a planet
// already has 20 * 4^10 lattice cells.
const MaxDetail = 10

// Planet is the static description of one planet.
type Planet struct {
	Name     string     `yaml:"name"`
	Position [3]float64 `yaml:"position"`
	Seed     int64      `yaml:"seed"`
	// UseRandomSeed replaces Seed with a fresh one at submission.
	UseRandomSeed bool    `yaml:"use_random_seed"`
	Style         string  `yaml:"style"`
	Radius        float64 `yaml:"radius"`
	// SeaLevel is an altitude above Radius.
	SeaLevel          float64 `yaml:"sea_level"`
	Subdivisions      int     `yaml:"subdivisions"`
	ChunkSubdivisions int     `yaml:"chunk_subdivisions"`
	Material          string  `yaml:"material"`
	// SeaMaterial falls back to Material when empty.
	SeaMaterial string           `yaml:"sea_material"`
	NoiseLayers []NoiseLayer     `yaml:"noise_layers"`
	ColorBands  []ColorBand      `yaml:"color_bands"`
	Population  []PopulationRule `yaml:"population"`
}

// NoiseLayer configures one octave-noise contributor.
type NoiseLayer struct {
	Octaves          int     `yaml:"octaves"`
	Persistence      float64 `yaml:"persistence"`
	Lacunarity       float64 `yaml:"lacunarity"`
	Scale            float64 `yaml:"scale"`
	MinHeight        float64 `yaml:"min_height"`
	HeightMultiplier float64 `yaml:"height_multiplier"`
	Invert           bool    `yaml:"invert"`
	RawCutoff        bool    `yaml:"raw_cutoff"`
	// Primitive is "simplex" (default) or "perlin".
	Primitive string `yaml:"primitive"`
}

// ColorBand colors terrain at or above Threshold altitude.
type ColorBand struct {
	Threshold float64    `yaml:"threshold"`
	Color     [4]float32 `yaml:"color"`
}

// PopulationRule configures one family of decorative placements.
type PopulationRule struct {
	Models      []string    `yaml:"models"`
	Noise       *NoiseLayer `yaml:"noise,omitempty"`
	MinHeight   float64     `yaml:"min_height"`
	MaxHeight   float64     `yaml:"max_height"`
	Probability float64     `yaml:"probability"`
}

// FieldError reports one invalid planet field.
type FieldError struct {
	Planet string
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("planet %q: %s: %s", e.Planet, e.Field, e.Reason)
}

// EffectiveSeaMaterial returns the material the sea mesh is drawn with.
func (p *Planet) EffectiveSeaMaterial() string {
	if p.SeaMaterial != "" {
		return p.SeaMaterial
	}
	return p.Material
}

// Validate returns every violated constraint of p joined together, or nil.
func (p *Planet) Validate() error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Planet: p.Name, Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if p.Name == "" {
		fail("name", "must not be empty")
	}
	if p.Radius <= 0 {
		fail("radius", "must be > 0, got %v", p.Radius)
	}
	if p.Subdivisions < 0 {
		fail("subdivisions", "must be >= 0, got %d", p.Subdivisions)
	}
	if p.ChunkSubdivisions < 0 {
		fail("chunk_subdivisions", "must be >= 0, got %d", p.ChunkSubdivisions)
	}
	if p.Subdivisions+p.ChunkSubdivisions > MaxDetail {
		fail("subdivisions", "subdivisions + chunk_subdivisions must be <= %d, got %d",
			MaxDetail, p.Subdivisions+p.ChunkSubdivisions)
	}
	if p.Material == "" {
		fail("material", "is required")
	}
	switch p.Style {
	case "", "low_poly", "lowpoly", "terraced", "terrace", "stair":
	default:
		fail("style", "unknown style %q", p.Style)
	}

	if len(p.NoiseLayers) == 0 {
		fail("noise_layers", "at least one layer is required")
	}
	for i, l := range p.NoiseLayers {
		validateLayer(fail, fmt.Sprintf("noise_layers[%d]", i), l)
	}

	for i, r := range p.Population {
		field := fmt.Sprintf("population[%d]", i)
		if len(r.Models) == 0 {
			fail(field+".models", "at least one model is required")
		}
		if r.Probability < 0 || r.Probability > 1 {
			fail(field+".probability", "must be in [0, 1], got %v", r.Probability)
		}
		if r.MinHeight > r.MaxHeight {
			fail(field, "min_height %v exceeds max_height %v", r.MinHeight, r.MaxHeight)
		}
		if r.Noise != nil {
			validateLayer(fail, field+".noise", *r.Noise)
		}
	}
	return errors.Join(errs...)
}

func validateLayer(fail func(field, format string, args ...any), field string, l NoiseLayer) {
	if l.Octaves < 1 {
		fail(field+".octaves", "must be >= 1, got %d", l.Octaves)
	}
	if l.Scale <= 0 {
		fail(field+".scale", "must be > 0, got %v", l.Scale)
	}
	switch l.Primitive {
	case "", "simplex", "perlin":
	default:
		fail(field+".primitive", "unknown primitive %q", l.Primitive)
	}
}
