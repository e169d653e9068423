// Package populate scatters decorative placements over chunk surfaces.
package populate

import (
	"context"
	stdmath "math"
	"math/rand"

	"github.com/Faultbox/planetgen/internal/chunk"
	"github.com/Faultbox/planetgen/internal/mesh"
	"github.com/Faultbox/planetgen/internal/noise"
	"github.com/Faultbox/planetgen/pkg/math"
)

// Rule describes where one family of models may be placed.
type Rule struct {
	Models []string
	// Noise gates placement: only points where it is positive qualify. A nil
	// field lets every point through.
	Noise *noise.Field
	// MinHeight and MaxHeight bound the altitude, inclusive.
	MinHeight   float64
	MaxHeight   float64
	Probability float64
}

// Placement is one accepted point.
type Placement struct {
	// Position is in world space.
	Position math.Vec3
	// Rotation turns +Y onto the outward radial direction.
	Rotation math.Quat
	Model    string
}

// Params carries the planet properties sampling reads.
type Params struct {
	Center   math.Vec3
	Radius   float64
	Terraced bool
}

// Sampler draws placements for every chunk of a planet. Every chunk must be
// sampled in the same order on every run for a seed to reproduce; the sampler
// is not safe for concurrent use.
type Sampler struct {
	rules   []Rule
	p       Params
	rng     *rand.Rand
	pickers []*rand.Rand
}

// NewSampler returns a sampler drawing points from rng. Model choice for rule
// i uses its own stream seeded with seed+i so it never shifts rng.
func NewSampler(rng *rand.Rand, seed int64, rules []Rule, p Params) *Sampler {
	s := &Sampler{
		rules:   rules,
		p:       p,
		rng:     rng,
		pickers: make([]*rand.Rand, len(rules)),
	}
	for i := range rules {
		s.pickers[i] = rand.New(rand.NewSource(seed + int64(i)))
	}
	return s
}

// Sample walks grid in traversal order and returns the accepted placements
// per rule. Each lattice triangle gets one candidate per rule.
func (s *Sampler) Sample(ctx context.Context, grid chunk.Grid[mesh.Sample]) ([][]Placement, error) {
	out := make([][]Placement, len(s.rules))

	for cell := range chunk.Cells(grid.Divisions()) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f := cell.Forward()
		a, b, c := grid.At(f[0]).Position, grid.At(f[1]).Position, grid.At(f[2]).Position
		var d math.Vec3
		if cell.HasReverse() {
			d = grid.At(cell.Reverse()[2]).Position
		}

		for i := range s.rules {
			t1, t2 := s.rng.Float64(), s.rng.Float64()
			ac, bc := a.Lerp(c, t1), b.Lerp(c, t1)
			out[i] = s.try(out[i], i, ac.Lerp(bc, t2))

			if cell.HasReverse() {
				t1, t2 = s.rng.Float64(), s.rng.Float64()
				ab, db := a.Lerp(b, t1), d.Lerp(b, t1)
				out[i] = s.try(out[i], i, ab.Lerp(db, t2))
			}
		}
	}
	return out, nil
}

// try tests point against rule i and appends it to dst when accepted. The
// probability draw happens on every call so the stream advances by the same
// amount whatever the outcome.
func (s *Sampler) try(dst []Placement, i int, point math.Vec3) []Placement {
	roll := s.rng.Float64()
	r := s.rules[i]

	if s.p.Terraced {
		point = point.WithLength(stdmath.Floor(point.Length()))
	}
	alt := point.Length() - s.p.Radius

	if alt < r.MinHeight || alt > r.MaxHeight {
		return dst
	}
	if r.Noise != nil && r.Noise.HeightAt(point) <= 0 {
		return dst
	}
	if roll >= r.Probability {
		return dst
	}

	return append(dst, Placement{
		Position: s.p.Center.Add(point),
		Rotation: math.QuatFromTo(math.Up, point.Normalize()),
		Model:    s.pick(i),
	})
}

func (s *Sampler) pick(i int) string {
	models := s.rules[i].Models
	if len(models) == 0 {
		return ""
	}
	return models[s.pickers[i].Intn(len(models))]
}
