// Package planet turns a validated planet description into per-chunk
// geometry: icosphere, chunk lattice, noise displacement, mesh synthesis and
// population, in that order.
package planet

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Faultbox/planetgen/internal/chunk"
	"github.com/Faultbox/planetgen/internal/config"
	"github.com/Faultbox/planetgen/internal/icosphere"
	"github.com/Faultbox/planetgen/internal/mesh"
	"github.com/Faultbox/planetgen/internal/noise"
	"github.com/Faultbox/planetgen/internal/populate"
	"github.com/Faultbox/planetgen/pkg/math"
)

// Planet holds everything chunk generation reads. The exported fields are
// fixed at construction; GenerateChunk advances the population stream, so a
// Planet must be driven by one goroutine.
type Planet struct {
	Name              string
	Seed              int64
	Center            math.Vec3
	Radius            float64
	SeaLevel          float64
	Style             mesh.Style
	Subdivisions      int
	ChunkSubdivisions int
	Material          string
	SeaMaterial       string
	Bands             mesh.Bands
	Field             *noise.Field

	sphere  *icosphere.Sphere
	sampler *populate.Sampler
}

// New builds a planet from cfg using cfg.Seed. Layer offsets are drawn first,
// then each population rule's noise offset, all from one stream seeded with
// the seed; the population sampler continues that stream.
func New(cfg config.Planet) (*Planet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	style, err := mesh.ParseStyle(cfg.Style)
	if err != nil {
		return nil, &config.FieldError{Planet: cfg.Name, Field: "style", Reason: err.Error()}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	layers := make([]noise.Layer, len(cfg.NoiseLayers))
	for i, l := range cfg.NoiseLayers {
		layers[i] = toLayer(l)
	}
	field, err := noise.NewField(cfg.Seed, rng, layers)
	if err != nil {
		return nil, fmt.Errorf("planet %q: %w", cfg.Name, err)
	}

	rules := make([]populate.Rule, len(cfg.Population))
	for i, r := range cfg.Population {
		rules[i] = populate.Rule{
			Models:      append([]string(nil), r.Models...),
			MinHeight:   r.MinHeight,
			MaxHeight:   r.MaxHeight,
			Probability: r.Probability,
		}
		if r.Noise != nil {
			rf, err := noise.NewField(cfg.Seed, rng, []noise.Layer{toLayer(*r.Noise)})
			if err != nil {
				return nil, fmt.Errorf("planet %q: population[%d]: %w", cfg.Name, i, err)
			}
			rules[i].Noise = rf
		}
	}

	bands := make([]mesh.Band, len(cfg.ColorBands))
	for i, b := range cfg.ColorBands {
		bands[i] = mesh.Band{Threshold: b.Threshold, Color: mesh.Color(b.Color)}
	}

	p := &Planet{
		Name:              cfg.Name,
		Seed:              cfg.Seed,
		Center:            math.V3(cfg.Position),
		Radius:            cfg.Radius,
		SeaLevel:          cfg.SeaLevel,
		Style:             style,
		Subdivisions:      cfg.Subdivisions,
		ChunkSubdivisions: cfg.ChunkSubdivisions,
		Material:          cfg.Material,
		SeaMaterial:       cfg.EffectiveSeaMaterial(),
		Bands:             mesh.NewBands(bands),
		Field:             field,
	}
	p.sampler = populate.NewSampler(rng, cfg.Seed, rules, populate.Params{
		Center:   p.Center,
		Radius:   p.Radius,
		Terraced: style == mesh.Terraced,
	})
	return p, nil
}

func toLayer(l config.NoiseLayer) noise.Layer {
	return noise.Layer{
		Octaves:     l.Octaves,
		Persistence: l.Persistence,
		Lacunarity:  l.Lacunarity,
		Scale:       l.Scale,
		MinHeight:   l.MinHeight,
		Multiplier:  l.HeightMultiplier,
		Invert:      l.Invert,
		RawCutoff:   l.RawCutoff,
		Kind:        noise.Kind(l.Primitive),
	}
}

// ChunkCount returns how many chunks the planet is split into.
func (p *Planet) ChunkCount() int {
	return icosphere.PolygonCount(p.Subdivisions)
}

// BuildSphere builds and subdivides the planet's icosphere. Its vertices are
// relative to the planet center. It must run before GenerateChunk.
func (p *Planet) BuildSphere() *icosphere.Sphere {
	s := icosphere.Build(p.Radius, math.Vec3{})
	s.Subdivide(p.Subdivisions)
	p.sphere = s
	return s
}

// Sphere returns the sphere built by BuildSphere, or nil.
func (p *Planet) Sphere() *icosphere.Sphere {
	return p.sphere
}

// HeightAt returns the displacement at unit direction dir.
func (p *Planet) HeightAt(dir math.Vec3) float64 {
	return p.Field.HeightAt(dir.Scale(p.Radius))
}

// sample projects a lattice point onto the sphere and displaces it.
func (p *Planet) sample(pt math.Vec3) mesh.Sample {
	dir := pt.Normalize()
	h := p.HeightAt(dir)
	return mesh.Sample{Position: dir.Scale(p.Radius + h), Height: h}
}

// GenerateChunk synthesizes chunk i. Chunks must be generated in index order
// for a seed to reproduce its population. A canceled ctx yields ctx.Err() and
// no chunk. The returned chunk's Planet index is left for the caller to set.
func (p *Planet) GenerateChunk(ctx context.Context, i int) (*Chunk, error) {
	if p.sphere == nil {
		return nil, fmt.Errorf("planet %q: sphere not built", p.Name)
	}
	if i < 0 || i >= len(p.sphere.Polygons) {
		return nil, fmt.Errorf("planet %q: chunk %d out of range [0, %d)", p.Name, i, len(p.sphere.Polygons))
	}

	corners := p.sphere.Corners(i)
	lattice := chunk.Subdivide(corners[0], corners[1], corners[2], p.ChunkSubdivisions)
	grid := chunk.Map(lattice, p.sample)

	res, err := mesh.Synthesize(ctx, grid, p.Style, mesh.Params{
		Center:   p.Center,
		Radius:   p.Radius,
		SeaLevel: p.SeaLevel,
		Bands:    p.Bands,
	})
	if err != nil {
		return nil, err
	}

	placements, err := p.sampler.Sample(ctx, grid)
	if err != nil {
		return nil, err
	}

	c := &Chunk{
		Polygon:    i,
		Land:       res.Land,
		Sea:        res.Sea,
		Placements: placements,
	}
	for k, v := range corners {
		c.Corners[k] = v.Normalize()
	}
	return c, nil
}
