// Package camera provides the viewer that drives chunk visibility.
package camera

import (
	stdmath "math"

	"github.com/Faultbox/planetgen/pkg/math"
)

// Orbit circles a center point at a fixed distance.
type Orbit struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance float64 // Distance from center
	Pitch    float64 // Vertical angle, radians
	Yaw      float64 // Horizontal angle, radians

	// Speed is the yaw rate in radians per second.
	Speed float64

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	ZoomSensitivity float64
}

// NewOrbit creates an orbit around a sphere of the given radius, distance
// radii from its center.
func NewOrbit(center math.Vec3, radius, distance, speed float64) *Orbit {
	return &Orbit{
		Center:          center,
		Distance:        radius * distance,
		Pitch:           0.35,
		Speed:           speed,
		MinDistance:     radius,
		MaxDistance:     radius * 20,
		MinPitch:        -stdmath.Pi / 2,
		MaxPitch:        stdmath.Pi / 2,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the viewer position in world space.
func (c *Orbit) Position() math.Vec3 {
	x := c.Distance * stdmath.Cos(c.Pitch) * stdmath.Sin(c.Yaw)
	y := c.Distance * stdmath.Sin(c.Pitch)
	z := c.Distance * stdmath.Cos(c.Pitch) * stdmath.Cos(c.Yaw)

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// Advance moves the viewer along its orbit by dt seconds.
func (c *Orbit) Advance(dt float64) {
	c.Yaw = stdmath.Mod(c.Yaw+c.Speed*dt, 2*stdmath.Pi)
}

// Tilt changes the pitch, clamped to the pitch limits.
func (c *Orbit) Tilt(delta float64) {
	c.Pitch = min(max(c.Pitch+delta, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on a zoom delta.
func (c *Orbit) HandleZoom(delta float64) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}
