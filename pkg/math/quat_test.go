package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)
	if math.Abs(length-1.0) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, math.Pi/2)

	expectedW := math.Cos(math.Pi / 4)
	expectedY := math.Sin(math.Pi / 4)

	if math.Abs(q.W-expectedW) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(q.Y-expectedY) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatFromTo(t *testing.T) {
	targets := []Vec3{
		{1, 0, 0},
		{0, 0, -3},
		{1, 2, 3},
		{0, 5, 0},
		{0, -1, 0}, // antipodal to Up
		{-0.2, -7, 0.1},
	}
	for _, to := range targets {
		q := QuatFromTo(Up, to)
		got := q.Rotate(Up)
		if !got.ApproxEqual(to.Normalize(), 1e-9) {
			t.Errorf("QuatFromTo(Up, %v).Rotate(Up) = %v, want %v", to, got, to.Normalize())
		}
	}
}

func TestQuatToMat4MatchesRotate(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{0, 0, 1}, math.Pi/2)
	m := q.ToMat4()

	got := m.TransformPoint(Vec3{1, 0, 0})
	want := q.Rotate(Vec3{1, 0, 0})
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("ToMat4 point = %v, Rotate = %v", got, want)
	}
	if !want.ApproxEqual(Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("90deg around Z should map X to Y, got %v", want)
	}
}
