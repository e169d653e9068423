package mesh

import (
	"fmt"

	"github.com/Faultbox/planetgen/pkg/math"
)

// Style selects how a chunk's triangles are turned into geometry.
type Style int

const (
	LowPoly Style = iota
	Terraced
)

// ParseStyle maps a config name to a Style.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "low_poly", "lowpoly", "":
		return LowPoly, nil
	case "terraced", "terrace", "stair":
		return Terraced, nil
	default:
		return 0, fmt.Errorf("unknown terrain style %q", s)
	}
}

func (s Style) String() string {
	switch s {
	case LowPoly:
		return "low_poly"
	case Terraced:
		return "terraced"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Synthesizer emits the geometry of one displaced lattice triangle. The
// corners arrive in wound order.
type Synthesizer interface {
	Triangle(dst *Data, a, b, c Sample)
}

// For returns the synthesizer implementing style.
func For(style Style, p Params) Synthesizer {
	if style == Terraced {
		return terraced{p}
	}
	return lowPoly{p}
}

// lowPoly emits one flat, single-colored face per triangle.
type lowPoly struct {
	p Params
}

func (s lowPoly) Triangle(dst *Data, a, b, c Sample) {
	lowest := min(a.Height, b.Height, c.Height)
	dst.addColoredTriangle(
		s.p.Center.Add(a.Position),
		s.p.Center.Add(b.Position),
		s.p.Center.Add(c.Position),
		s.p.Bands.ColorAt(lowest),
	)
}

// terraced emits the floors and walls of Terrace, each step colored by the
// band at its altitude.
type terraced struct {
	p Params
}

func (s terraced) Triangle(dst *Data, a, b, c Sample) {
	for _, step := range Terrace(a.Position, b.Position, c.Position) {
		col := s.p.Bands.ColorAt(step.Height - s.p.Radius)
		s.fan(dst, step.Floor, col)
		s.fan(dst, step.Wall, col)
	}
}

func (s terraced) fan(dst *Data, poly []math.Vec3, col Color) {
	for i := 1; i+1 < len(poly); i++ {
		if area(poly[0], poly[i], poly[i+1]) < epsilon {
			continue
		}
		dst.addColoredTriangle(
			s.p.Center.Add(poly[0]),
			s.p.Center.Add(poly[i]),
			s.p.Center.Add(poly[i+1]),
			col,
		)
	}
}
