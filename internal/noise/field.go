package noise

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Faultbox/planetgen/pkg/math"
)

// OffsetRange bounds every offset component to [-OffsetRange, OffsetRange).
const OffsetRange = 10000

// Field is the combined height field of a planet. It is immutable after
// construction and safe for concurrent use.
type Field struct {
	layers  []Layer
	prims   []Primitive
	offsets []math.Vec3
}

// NewField builds a field whose layer offsets are drawn, in layer order, from
// rng. Passing the same stream state reproduces the same field.
func NewField(seed int64, rng *rand.Rand, layers []Layer) (*Field, error) {
	if len(layers) == 0 {
		return nil, errors.New("noise field needs at least one layer")
	}

	f := &Field{
		layers:  append([]Layer(nil), layers...),
		prims:   make([]Primitive, len(layers)),
		offsets: make([]math.Vec3, len(layers)),
	}
	for i, l := range layers {
		prim, err := NewPrimitive(l.Kind, seed)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		f.prims[i] = prim
		f.offsets[i] = RandomOffset(rng)
	}
	return f, nil
}

// RandomOffset draws one offset vector from rng.
func RandomOffset(rng *rand.Rand) math.Vec3 {
	return math.Vec3{
		X: float64(rng.Intn(2*OffsetRange) - OffsetRange),
		Y: float64(rng.Intn(2*OffsetRange) - OffsetRange),
		Z: float64(rng.Intn(2*OffsetRange) - OffsetRange),
	}
}

// HeightAt sums every layer's contribution at p shifted by that layer's
// offset.
func (f *Field) HeightAt(p math.Vec3) float64 {
	var h float64
	for i, l := range f.layers {
		h += l.Eval(f.prims[i], p.Add(f.offsets[i]))
	}
	return h
}

// Offsets returns a copy of the per-layer offsets.
func (f *Field) Offsets() []math.Vec3 {
	return append([]math.Vec3(nil), f.offsets...)
}

// Len returns the number of layers.
func (f *Field) Len() int {
	return len(f.layers)
}
