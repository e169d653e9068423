// Package noise evaluates the layered, seeded height field that displaces a
// planet's surface.
package noise

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Kind selects the 2D noise primitive a layer is built on.
type Kind string

const (
	Simplex Kind = "simplex"
	Perlin  Kind = "perlin"
)

// Primitive is a seeded 2D noise function returning values in [0, 1].
type Primitive interface {
	Eval2(x, y float64) float64
}

// NewPrimitive returns the primitive of the given kind. An empty kind means
// Simplex.
func NewPrimitive(kind Kind, seed int64) (Primitive, error) {
	switch kind {
	case Simplex, "":
		return opensimplex.NewNormalized(seed), nil
	case Perlin:
		// alpha=2, beta=2, n=3 as used for terrain heightmaps.
		return perlinPrimitive{p: perlin.NewPerlin(2, 2, 3, seed)}, nil
	default:
		return nil, fmt.Errorf("unknown noise primitive %q", kind)
	}
}

// perlinPrimitive remaps go-perlin's [-1, 1] output onto [0, 1].
type perlinPrimitive struct {
	p *perlin.Perlin
}

func (pp perlinPrimitive) Eval2(x, y float64) float64 {
	v := (pp.p.Noise2D(x, y) + 1) / 2
	return clamp01(v)
}

// Noise3D samples a 3D point with a 2D primitive by averaging it over the
// three coordinate planes in both argument orders.
func Noise3D(p Primitive, x, y, z float64) float64 {
	ab := p.Eval2(x, y)
	bc := p.Eval2(y, z)
	ac := p.Eval2(x, z)

	ba := p.Eval2(y, x)
	cb := p.Eval2(z, y)
	ca := p.Eval2(z, x)

	return (ab + bc + ac + ba + cb + ca) / 6
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
