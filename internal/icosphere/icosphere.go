// Package icosphere builds geodesic spheres by recursively subdividing an
// icosahedron.
package icosphere

import (
	stdmath "math"

	"github.com/Faultbox/planetgen/pkg/math"
)

// Polygon is a triangle referencing three vertices of a Sphere.
type Polygon [3]int

// Sphere is a shared vertex pool plus the triangles that index it.
type Sphere struct {
	Center   math.Vec3
	Radius   float64
	Vertices []math.Vec3
	Polygons []Polygon

	midpoints *MidpointCache
}

// icosahedronFaces connects the 12 base vertices. Every face is wound
// counter-clockwise seen from outside.
var icosahedronFaces = [20]Polygon{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// Build returns the 12-vertex, 20-face icosahedron inscribed in the sphere of
// the given radius around center.
func Build(radius float64, center math.Vec3) *Sphere {
	t := (1 + stdmath.Sqrt(5)) / 2

	base := [12]math.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}

	s := &Sphere{
		Center:    center,
		Radius:    radius,
		Vertices:  make([]math.Vec3, 0, 12),
		Polygons:  make([]Polygon, 0, 20),
		midpoints: NewMidpointCache(),
	}
	for _, v := range base {
		s.Vertices = append(s.Vertices, center.Add(v.WithLength(radius)))
	}
	s.Polygons = append(s.Polygons, icosahedronFaces[:]...)
	return s
}

// Subdivide splits every triangle into four, levels times. Midpoints are
// pushed back onto the sphere surface and shared between neighbours.
func (s *Sphere) Subdivide(levels int) {
	for i := 0; i < levels; i++ {
		next := make([]Polygon, 0, len(s.Polygons)*4)
		for _, p := range s.Polygons {
			a, b, c := p[0], p[1], p[2]
			ab := s.Midpoint(a, b)
			bc := s.Midpoint(b, c)
			ca := s.Midpoint(c, a)

			next = append(next,
				Polygon{a, ab, ca},
				Polygon{b, bc, ab},
				Polygon{c, ca, bc},
				Polygon{ab, bc, ca},
			)
		}
		s.Polygons = next
	}
}

// Midpoint returns the index of the on-sphere midpoint of vertices a and b,
// creating it on first request. Argument order does not matter.
func (s *Sphere) Midpoint(a, b int) int {
	if idx, ok := s.midpoints.Get(a, b); ok {
		return idx
	}
	mid := s.Vertices[a].Lerp(s.Vertices[b], 0.5)
	idx := len(s.Vertices)
	s.Vertices = append(s.Vertices, s.Center.Add(mid.Sub(s.Center).WithLength(s.Radius)))
	s.midpoints.Put(a, b, idx)
	return idx
}

// Corners returns the positions of polygon i.
func (s *Sphere) Corners(i int) [3]math.Vec3 {
	p := s.Polygons[i]
	return [3]math.Vec3{s.Vertices[p[0]], s.Vertices[p[1]], s.Vertices[p[2]]}
}

// PolygonCount returns 20 * 4^levels, the face count after levels
// subdivisions.
func PolygonCount(levels int) int {
	return 20 << (2 * levels)
}

// VertexCount returns 10 * 4^levels + 2, the vertex count after levels
// subdivisions.
func VertexCount(levels int) int {
	return 10<<(2*levels) + 2
}
