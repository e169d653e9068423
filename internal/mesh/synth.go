package mesh

import (
	"context"

	"github.com/Faultbox/planetgen/internal/chunk"
	"github.com/Faultbox/planetgen/pkg/math"
)

// Sample is a displaced lattice point.
type Sample struct {
	// Position is relative to the planet center.
	Position math.Vec3
	// Height is the raw height sample the point was displaced by.
	Height float64
}

// Params carries the planet properties synthesis reads.
type Params struct {
	Center   math.Vec3
	Radius   float64
	SeaLevel float64
	Bands    Bands
}

// Result is the geometry of one chunk. Sea is nil when no triangle dips below
// sea level.
type Result struct {
	Land Data
	Sea  *Data
}

// Synthesize walks every triangle of grid in traversal order and emits land
// geometry in the given style, plus a flat sea triangle for each lattice
// triangle with a corner below sea level. ctx is checked between cells.
func Synthesize(ctx context.Context, grid chunk.Grid[Sample], style Style, p Params) (*Result, error) {
	s := For(style, p)
	res := &Result{}

	for cell := range chunk.Cells(grid.Divisions()) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f := cell.Forward()
		v1, v2, v3 := grid.At(f[0]), grid.At(f[1]), grid.At(f[2])
		s.Triangle(&res.Land, v1, v2, v3)
		res.addSea(p, v1, v2, v3)

		if cell.HasReverse() {
			v4 := grid.At(cell.Reverse()[2])
			s.Triangle(&res.Land, v1, v4, v2)
			res.addSea(p, v1, v4, v2)
		}
	}
	return res, nil
}

func (r *Result) addSea(p Params, a, b, c Sample) {
	if !p.belowSea(a) && !p.belowSea(b) && !p.belowSea(c) {
		return
	}
	if r.Sea == nil {
		r.Sea = &Data{}
	}
	level := p.Radius + p.SeaLevel
	r.Sea.addTriangle(
		p.Center.Add(a.Position.WithLength(level)),
		p.Center.Add(b.Position.WithLength(level)),
		p.Center.Add(c.Position.WithLength(level)),
	)
}

func (p Params) belowSea(s Sample) bool {
	return s.Position.Length()-p.Radius < p.SeaLevel
}
