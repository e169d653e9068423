// Package chunk splits one base triangle into the regular triangular lattice
// a streaming chunk is meshed from.
package chunk

import (
	"iter"

	"github.com/Faultbox/planetgen/pkg/math"
)

// Lattice is a jagged grid of points. Row 0 runs from corner a to corner b,
// every following row is one point shorter, and the last row holds only
// corner c.
type Lattice [][]math.Vec3

// Divisions returns 2^level, the number of segments per edge.
func Divisions(level int) int {
	return 1 << level
}

// Subdivide builds the lattice of triangle (a, b, c) with 2^level segments
// per edge. Points are linearly interpolated between exact edge points, so
// no error accumulates from repeated midpoint averaging.
func Subdivide(a, b, c math.Vec3, level int) Lattice {
	if level <= 0 {
		return Lattice{{a, b}, {c}}
	}

	n := Divisions(level)
	left := edgePoints(a, c, n)
	right := edgePoints(b, c, n)

	rows := make(Lattice, n+1)
	for i := 0; i < n; i++ {
		rows[i] = edgePoints(left[i], right[i], n-i)
	}
	rows[n] = []math.Vec3{c}
	return rows
}

// edgePoints returns n+1 evenly spaced points from a to b inclusive.
func edgePoints(a, b math.Vec3, n int) []math.Vec3 {
	pts := make([]math.Vec3, n+1)
	step := b.Sub(a).Scale(1 / float64(n))
	pts[0] = a
	for i := 1; i < n; i++ {
		pts[i] = a.Add(step.Scale(float64(i)))
	}
	pts[n] = b
	return pts
}

// Divisions returns the number of segments per edge.
func (l Lattice) Divisions() int {
	return len(l) - 1
}

// Cell addresses one forward lattice triangle. Cells with X > 0 also own the
// reverse triangle that sits between them and the previous row.
type Cell struct {
	X, Y int
}

// Index is a (row, column) lattice coordinate.
type Index [2]int

// Forward returns the lattice coordinates of the cell's forward triangle.
func (c Cell) Forward() [3]Index {
	return [3]Index{{c.X, c.Y}, {c.X, c.Y + 1}, {c.X + 1, c.Y}}
}

// HasReverse reports whether the cell owns a reverse triangle.
func (c Cell) HasReverse() bool {
	return c.X != 0
}

// Reverse returns the coordinates of the reverse triangle (v1, v2, v4).
// Meshes emit it as v1, v4, v2 so it faces the same way as the forward one.
func (c Cell) Reverse() [3]Index {
	return [3]Index{{c.X, c.Y}, {c.X, c.Y + 1}, {c.X - 1, c.Y + 1}}
}

// Cells yields every cell in traversal order: rows first, then columns.
// The order is part of the contract; seeded sampling relies on it.
func Cells(divisions int) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for x := 0; x < divisions; x++ {
			for y := 0; y < divisions-x; y++ {
				if !yield(Cell{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// TriangleCount returns the number of lattice triangles for the given
// divisions.
func TriangleCount(divisions int) int {
	return divisions * divisions
}

// Grid is a lattice of arbitrary per-point values.
type Grid[T any] [][]T

// Map evaluates fn at every lattice point, preserving the jagged shape.
func Map[T any](l Lattice, fn func(p math.Vec3) T) Grid[T] {
	g := make(Grid[T], len(l))
	for i, row := range l {
		g[i] = make([]T, len(row))
		for j, p := range row {
			g[i][j] = fn(p)
		}
	}
	return g
}

// At returns the value at idx.
func (g Grid[T]) At(idx Index) T {
	return g[idx[0]][idx[1]]
}

// Divisions returns the number of segments per edge.
func (g Grid[T]) Divisions() int {
	return len(g) - 1
}
