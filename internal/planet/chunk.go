package planet

import (
	"github.com/Faultbox/planetgen/internal/mesh"
	"github.com/Faultbox/planetgen/internal/populate"
	"github.com/Faultbox/planetgen/pkg/math"
)

// Chunk is the finished geometry of one base polygon. It refers to its
// planet by index into the owning session's planet list.
type Chunk struct {
	Planet  int
	Polygon int
	// Corners are the unit directions of the base polygon's corners.
	Corners    [3]math.Vec3
	Land       mesh.Data
	Sea        *mesh.Data
	Placements [][]populate.Placement
}

// Visible reports whether any corner lies strictly within viewDistance of
// the unit direction viewer.
func (c *Chunk) Visible(viewer math.Vec3, viewDistance float64) bool {
	for _, corner := range c.Corners {
		if corner.Distance(viewer) < viewDistance {
			return true
		}
	}
	return false
}

// PlacementCount returns the number of placements across all rules.
func (c *Chunk) PlacementCount() int {
	var n int
	for _, pl := range c.Placements {
		n += len(pl)
	}
	return n
}

// Bundle is what the renderer receives for one chunk.
type Bundle struct {
	Planet      string
	Polygon     int
	Land        *mesh.Data
	Sea         *mesh.Data
	Material    string
	SeaMaterial string
	// Anchor is the planet's transform. Vertices are already in world
	// space; renderers use it to group a planet's chunks under one parent.
	Anchor     math.Mat4
	Placements [][]populate.Placement
}

// Bundle packages c for the renderer.
func (p *Planet) Bundle(c *Chunk) Bundle {
	return Bundle{
		Planet:      p.Name,
		Polygon:     c.Polygon,
		Land:        &c.Land,
		Sea:         c.Sea,
		Material:    p.Material,
		SeaMaterial: p.SeaMaterial,
		Anchor:      math.Translate(p.Center),
		Placements:  c.Placements,
	}
}

// ViewDirection returns the unit direction from the planet center to pos.
func (p *Planet) ViewDirection(pos math.Vec3) math.Vec3 {
	return pos.Sub(p.Center).Normalize()
}
