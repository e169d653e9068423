package mesh

import (
	stdmath "math"

	"github.com/Faultbox/planetgen/pkg/math"
)

// epsilon below which clipped points are merged and slivers dropped.
const epsilon = 1e-9

// Step is one slab of a terraced triangle. All points are relative to the
// planet center.
type Step struct {
	// Height is the integer radius the floor sits at.
	Height float64
	// Floor is the convex part of the triangle whose interpolated radius
	// lies in [Height, Height+1], pushed out to Height and wound outward.
	// It is nil when that part is degenerate.
	Floor []math.Vec3
	// Wall is nil or a quad (top, top, bottom, bottom) standing on the
	// iso-line of radius Height and dropping to Height-1. Its winding faces
	// the lower side of the triangle.
	Wall []math.Vec3
}

// PointsAbove classifies how many corners of a triangle with sorted radii
// h1 >= h2 >= h3 lie above the plane at radius h.
func PointsAbove(h1, h2, h3, h float64) int {
	switch {
	case h3 == h2 && h3 == h1:
		return 3
	case h3 > h:
		return 3
	case h2 > h:
		return 2
	default:
		return 1
	}
}

// sortByRadius orders the corners farthest first. Ties keep argument order.
func sortByRadius(a, b, c math.Vec3) (math.Vec3, math.Vec3, math.Vec3) {
	if b.Length() > a.Length() {
		a, b = b, a
	}
	if c.Length() > b.Length() {
		b, c = c, b
		if b.Length() > a.Length() {
			a, b = b, a
		}
	}
	return a, b, c
}

// Terrace decomposes triangle (a, b, c) into integer-radius slabs. The radius
// is interpolated linearly across the triangle from its corners, so two
// triangles sharing an edge cut it at the same points.
func Terrace(a, b, c math.Vec3) []Step {
	v1, v2, v3 := sortByRadius(a, b, c)
	h1, h2, h3 := v1.Length(), v2.Length(), v3.Length()

	lo := stdmath.Floor(h3)
	hi := stdmath.Floor(h1)

	tri := []clipVertex{{v1, h1}, {v2, h2}, {v3, h3}}
	steps := make([]Step, 0, int(hi-lo)+1)

	for h := lo; h <= hi; h++ {
		step := Step{Height: h}

		band := clip(tri, h, true)
		band = clip(band, h+1, false)
		if floor := project(dedupe(band), h); len(floor) >= 3 {
			step.Floor = orientFloor(floor)
		}

		// The triangle below an iso-line owns the wall on it; a corner
		// sitting exactly on the line belongs to the upper slab.
		if h > h3 {
			if wall := wallAt(v1, v2, v3, h1, h2, h3, h); wall != nil {
				step.Wall = wall
			}
		}

		if step.Floor != nil || step.Wall != nil {
			steps = append(steps, step)
		}
	}
	return steps
}

// wallAt returns the wall quad on the iso-line of radius h, or nil when the
// line only touches the triangle in a point.
func wallAt(v1, v2, v3 math.Vec3, h1, h2, h3, h float64) []math.Vec3 {
	p := v1.Lerp(v3, (h1-h)/(h1-h3))

	var q math.Vec3
	switch {
	case PointsAbove(h1, h2, h3, h) == 2:
		q = v2.Lerp(v3, (h2-h)/(h2-h3))
	case h1 == h2:
		// Top edge lies on the plane.
		q = v2
	default:
		q = v1.Lerp(v2, (h1-h)/(h1-h2))
	}
	if p.Distance(q) < epsilon || h-1 <= 0 {
		return nil
	}

	wall := []math.Vec3{p.WithLength(h), q.WithLength(h), q.WithLength(h - 1), p.WithLength(h - 1)}

	// The wall plane contains the center, so the sign of n.v3 tells which
	// side the lowest corner is on.
	n := wall[1].Sub(wall[0]).Cross(wall[2].Sub(wall[0]))
	if n.Dot(v3) < 0 {
		wall[0], wall[1], wall[2], wall[3] = wall[1], wall[0], wall[3], wall[2]
	}
	return wall
}

type clipVertex struct {
	p math.Vec3
	m float64 // interpolated radius
}

// clip keeps the part of a convex polygon with m >= level (above) or
// m <= level (!above).
func clip(poly []clipVertex, level float64, above bool) []clipVertex {
	if len(poly) == 0 {
		return nil
	}
	inside := func(v clipVertex) bool {
		if above {
			return v.m >= level
		}
		return v.m <= level
	}

	out := make([]clipVertex, 0, len(poly)+2)
	prev := poly[len(poly)-1]
	for _, cur := range poly {
		curIn, prevIn := inside(cur), inside(prev)
		if curIn != prevIn {
			t := (level - prev.m) / (cur.m - prev.m)
			out = append(out, clipVertex{prev.p.Lerp(cur.p, t), level})
		}
		if curIn {
			out = append(out, cur)
		}
		prev = cur
	}
	return out
}

// dedupe drops consecutive coincident points, including across the wrap.
func dedupe(poly []clipVertex) []clipVertex {
	out := make([]clipVertex, 0, len(poly))
	for _, v := range poly {
		if len(out) > 0 && out[len(out)-1].p.Distance(v.p) < epsilon {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].p.Distance(out[len(out)-1].p) < epsilon {
		out = out[:len(out)-1]
	}
	return out
}

// project pushes every point out to radius h.
func project(poly []clipVertex, h float64) []math.Vec3 {
	if h <= 0 {
		return nil
	}
	out := make([]math.Vec3, len(poly))
	for i, v := range poly {
		out[i] = v.p.WithLength(h)
	}
	return out
}

// orientFloor returns the polygon wound outward, or nil when it has no area.
func orientFloor(poly []math.Vec3) []math.Vec3 {
	var n math.Vec3
	for i := 1; i+1 < len(poly); i++ {
		n = n.Add(poly[i].Sub(poly[0]).Cross(poly[i+1].Sub(poly[0])))
	}
	if n.Length() < epsilon {
		return nil
	}
	if n.Dot(poly[0]) < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	return poly
}
