package icosphere

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/planetgen/pkg/math"
)

func TestBuildIcosahedron(t *testing.T) {
	s := Build(1, math.Vec3{})
	if len(s.Vertices) != 12 {
		t.Errorf("expected 12 vertices, got %d", len(s.Vertices))
	}
	if len(s.Polygons) != 20 {
		t.Errorf("expected 20 polygons, got %d", len(s.Polygons))
	}
}

func TestSubdivideCounts(t *testing.T) {
	for k := 0; k <= 4; k++ {
		s := Build(50, math.Vec3{})
		s.Subdivide(k)

		if got, want := len(s.Polygons), 20*int(stdmath.Pow(4, float64(k))); got != want {
			t.Errorf("k=%d: polygons = %d, want %d", k, got, want)
		}
		if got, want := len(s.Polygons), PolygonCount(k); got != want {
			t.Errorf("k=%d: PolygonCount = %d, got %d polygons", k, want, got)
		}
		if got, want := len(s.Vertices), VertexCount(k); got != want {
			t.Errorf("k=%d: vertices = %d, want %d", k, got, want)
		}
	}
}

func TestVerticesOnSphere(t *testing.T) {
	center := math.Vec3{X: 12, Y: -3, Z: 400}
	radius := 100.0

	s := Build(radius, center)
	s.Subdivide(3)

	for i, v := range s.Vertices {
		if d := v.Distance(center); stdmath.Abs(d-radius) > 1e-9 {
			t.Fatalf("vertex %d at distance %v, want %v", i, d, radius)
		}
	}
}

func TestFacesWoundOutward(t *testing.T) {
	center := math.Vec3{X: -5, Y: 5, Z: 0}
	s := Build(10, center)
	s.Subdivide(2)

	for i := range s.Polygons {
		c := s.Corners(i)
		n := c[1].Sub(c[0]).Cross(c[2].Sub(c[0]))
		mid := c[0].Add(c[1]).Add(c[2]).Scale(1.0 / 3).Sub(center)
		if n.Dot(mid) <= 0 {
			t.Fatalf("polygon %d is wound inward", i)
		}
	}
}

func TestMidpointOrderIndependent(t *testing.T) {
	s := Build(1, math.Vec3{})

	ab := s.Midpoint(3, 9)
	n := len(s.Vertices)
	ba := s.Midpoint(9, 3)

	if ab != ba {
		t.Errorf("Midpoint(3,9)=%d, Midpoint(9,3)=%d", ab, ba)
	}
	if len(s.Vertices) != n {
		t.Errorf("second request created a vertex: %d -> %d", n, len(s.Vertices))
	}
}

func TestNoDuplicateVertices(t *testing.T) {
	s := Build(1, math.Vec3{})
	s.Subdivide(3)

	for i := range s.Vertices {
		for j := i + 1; j < len(s.Vertices); j++ {
			if s.Vertices[i].ApproxEqual(s.Vertices[j], 1e-12) {
				t.Fatalf("vertices %d and %d coincide", i, j)
			}
		}
	}
}

func TestMidpointCache(t *testing.T) {
	c := NewMidpointCache()
	c.Put(70000, 5, 42)

	if idx, ok := c.Get(5, 70000); !ok || idx != 42 {
		t.Errorf("Get(5, 70000) = %d, %v; want 42, true", idx, ok)
	}
	if _, ok := c.Get(5, 6); ok {
		t.Error("unexpected hit for unknown pair")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
