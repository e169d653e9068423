package camera

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/planetgen/pkg/math"
)

func TestOrbitPosition(t *testing.T) {
	center := math.Vec3{X: 10, Y: -3, Z: 2}
	c := NewOrbit(center, 50, 2, 0)
	c.Pitch = 0

	if got, want := c.Position(), center.Add(math.Vec3{Z: 100}); !got.ApproxEqual(want, 1e-9) {
		t.Errorf("position = %v, want %v", got, want)
	}

	c.Yaw = stdmath.Pi / 2
	if got, want := c.Position(), center.Add(math.Vec3{X: 100}); !got.ApproxEqual(want, 1e-9) {
		t.Errorf("position = %v, want %v", got, want)
	}
}

func TestOrbitKeepsDistance(t *testing.T) {
	center := math.Vec3{Y: 7}
	c := NewOrbit(center, 10, 3, 1.3)
	for i := 0; i < 100; i++ {
		c.Advance(0.1)
		if d := c.Position().Distance(center); stdmath.Abs(d-30) > 1e-9 {
			t.Fatalf("step %d: distance %v, want 30", i, d)
		}
	}
}

func TestAdvanceWrapsYaw(t *testing.T) {
	c := NewOrbit(math.Vec3{}, 1, 2, stdmath.Pi)
	c.Advance(3)
	if c.Yaw < 0 || c.Yaw >= 2*stdmath.Pi {
		t.Errorf("yaw %v not wrapped into [0, 2pi)", c.Yaw)
	}
	if stdmath.Abs(c.Yaw-stdmath.Pi) > 1e-9 {
		t.Errorf("yaw = %v, want pi", c.Yaw)
	}
}

func TestTiltClamps(t *testing.T) {
	c := NewOrbit(math.Vec3{}, 1, 2, 0)
	c.Tilt(10)
	if c.Pitch != c.MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, c.MaxPitch)
	}
	c.Tilt(-20)
	if c.Pitch != c.MinPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, c.MinPitch)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbit(math.Vec3{}, 10, 2, 0)
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("distance = %v, want min %v", c.Distance, c.MinDistance)
	}
	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("distance = %v, want max %v", c.Distance, c.MaxDistance)
	}
}
