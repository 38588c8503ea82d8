package game

import "math"

// Clock owns global simulation time. The render loop advances it and
// threads the applied dt into the grid and the time into the mapper.
type Clock struct {
	t     float64
	dt    float64
	maxDT float64 // 0 disables the clamp
}

// NewClock creates a clock starting at zero. Frame deltas above maxDT are
// clamped so a stalled window does not launch the swarm.
func NewClock(maxDT float64) Clock {
	return Clock{maxDT: maxDT}
}

// Advance moves time forward by dt and returns the delta actually applied.
// Non-finite or negative deltas advance nothing.
func (c *Clock) Advance(dt float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		dt = 0
	}
	if c.maxDT > 0 && dt > c.maxDT {
		dt = c.maxDT
	}
	c.dt = dt
	c.t += dt
	return dt
}

// Time returns the accumulated global time in seconds.
func (c *Clock) Time() float64 {
	return c.t
}

// DT returns the most recently applied delta.
func (c *Clock) DT() float64 {
	return c.dt
}
