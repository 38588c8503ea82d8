// Package camera provides an orbit camera for viewing the swarm in 3D.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// maxPitch keeps the camera off the poles where the up vector degenerates.
const maxPitch = 1.45

// Camera orbits a target point at a given distance.
// Yaw is measured about +Y from the +Z axis; pitch is the elevation above
// the horizontal plane.
type Camera struct {
	Target   r3.Vec
	Yaw      float64
	Pitch    float64
	Distance float64
	FovY     float64

	// AutoRate turns the camera about the target every Update, in radians per second.
	AutoRate float64

	// Zoom constraints
	MinDistance, MaxDistance float64

	home placement
}

// placement is what Reset returns to.
type placement struct {
	yaw, pitch, distance float64
}

// New creates a camera at position looking at target.
func New(position, target r3.Vec, fovy float64) *Camera {
	off := r3.Sub(position, target)
	dist := r3.Norm(off)

	c := &Camera{
		Target:      target,
		FovY:        fovy,
		MinDistance: 1,
		MaxDistance: 200,
	}
	if dist > 0 {
		c.Yaw = math.Atan2(off.X, off.Z)
		c.Pitch = math.Atan2(off.Y, math.Hypot(off.X, off.Z))
	}
	if dist > c.MaxDistance {
		c.MaxDistance = dist
	}
	c.Pitch = clamp(c.Pitch, -maxPitch, maxPitch)
	c.Distance = clamp(dist, c.MinDistance, c.MaxDistance)
	c.home = placement{yaw: c.Yaw, pitch: c.Pitch, distance: c.Distance}
	return c
}

// Position returns the camera's eye point in world coordinates.
func (c *Camera) Position() r3.Vec {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	off := r3.Vec{X: cp * sy, Y: sp, Z: cp * cy}
	return r3.Add(c.Target, r3.Scale(c.Distance, off))
}

// Orbit turns the camera about the target. Pitch is clamped short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Remainder(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// ZoomBy moves the camera toward the target by factor (>1 zooms in).
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = clamp(c.Distance/factor, c.MinDistance, c.MaxDistance)
}

// Update applies the automatic orbit for a frame of length dt.
func (c *Camera) Update(dt float64) {
	if c.AutoRate != 0 {
		c.Orbit(c.AutoRate*dt, 0)
	}
}

// Reset returns the camera to the placement it was created with.
func (c *Camera) Reset() {
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
	c.Distance = c.home.distance
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
