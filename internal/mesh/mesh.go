// Package mesh turns sampled chunk lattices into renderable triangle buffers,
// either as flat-shaded low-poly faces or as stepped terraces.
package mesh

import (
	"github.com/Faultbox/planetgen/pkg/math"
)

// Color is an RGBA vertex color.
type Color [4]float32

// White is the color used when no band matches.
var White = Color{1, 1, 1, 1}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Data holds the buffers of one mesh. Triangles index Vertices, three
// indices per triangle. Colors is either empty or parallel to Vertices.
type Data struct {
	Vertices  []math.Vec3
	Triangles []uint32
	Colors    []Color
	Bounds    Bounds
}

// TriangleCount returns the number of triangles.
func (d *Data) TriangleCount() int {
	return len(d.Triangles) / 3
}

// Empty reports whether the mesh has no triangles.
func (d *Data) Empty() bool {
	return len(d.Triangles) == 0
}

// Triangle returns the corner positions of triangle i.
func (d *Data) Triangle(i int) [3]math.Vec3 {
	return [3]math.Vec3{
		d.Vertices[d.Triangles[3*i]],
		d.Vertices[d.Triangles[3*i+1]],
		d.Vertices[d.Triangles[3*i+2]],
	}
}

// addTriangle appends three independent vertices so neighbouring faces never
// share normals.
func (d *Data) addTriangle(a, b, c math.Vec3) {
	base := uint32(len(d.Vertices))
	for _, v := range [3]math.Vec3{a, b, c} {
		d.growBounds(v)
		d.Vertices = append(d.Vertices, v)
	}
	d.Triangles = append(d.Triangles, base, base+1, base+2)
}

func (d *Data) addColoredTriangle(a, b, c math.Vec3, col Color) {
	d.addTriangle(a, b, c)
	d.Colors = append(d.Colors, col, col, col)
}

func (d *Data) growBounds(v math.Vec3) {
	if len(d.Vertices) == 0 {
		d.Bounds = Bounds{Min: v, Max: v}
		return
	}
	d.Bounds.Min = math.Vec3{X: min(d.Bounds.Min.X, v.X), Y: min(d.Bounds.Min.Y, v.Y), Z: min(d.Bounds.Min.Z, v.Z)}
	d.Bounds.Max = math.Vec3{X: max(d.Bounds.Max.X, v.X), Y: max(d.Bounds.Max.Y, v.Y), Z: max(d.Bounds.Max.Z, v.Z)}
}

// area returns the area of triangle (a, b, c).
func area(a, b, c math.Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}
