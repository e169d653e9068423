package noise

import (
	"github.com/Faultbox/planetgen/pkg/math"
)

// Layer is one octave-noise contributor to the height field.
type Layer struct {
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Scale       float64
	// MinHeight is the cutoff: normalized values at or below it contribute 0.
	MinHeight float64
	// Multiplier scales the normalized value into world units.
	Multiplier float64
	Invert     bool
	// RawCutoff disables remapping (MinHeight, 1] onto (0, 1].
	RawCutoff bool
	Kind      Kind
}

// Eval returns the layer's contribution at p using prim.
func (l Layer) Eval(prim Primitive, p math.Vec3) float64 {
	var output float64
	frequency := 1.0
	amplitude := 1.0

	for i := 0; i < l.Octaves; i++ {
		f := frequency / l.Scale
		output += Noise3D(prim, p.X*f, p.Y*f, p.Z*f) * amplitude
		amplitude *= l.Persistence
		frequency *= l.Lacunarity
	}
	output /= float64(l.Octaves)

	switch {
	case output <= l.MinHeight:
		output = 0
	case !l.RawCutoff:
		output = inverseLerp(0, 1-l.MinHeight, output-l.MinHeight)
	}

	output *= l.Multiplier
	if l.Invert {
		output = -output
	}
	return output
}

// inverseLerp maps v from [a, b] to [0, 1], clamped.
func inverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return clamp01((v - a) / (b - a))
}
