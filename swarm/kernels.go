package swarm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kernel constants.
const (
	MaxSpeed   = 1.0   // velocity magnitude limit after each step
	SpeedScale = 15.0  // world units per second at unit velocity
	PhaseWrap  = 62.83 // phase modulus, roughly 2π·10

	edgeNudge  = 0.05 // push back along the crossed horizontal axis
	crossNudge = 0.01 // secondary push on a neighbouring axis

	phaseHorizontalRate = 3.0
	phaseClimbRate      = 6.0
)

// StepVelocity computes the next velocity of one agent from its previous
// position and velocity. Each axis fires at most one branch; nudges from
// different axes accumulate. The result never exceeds MaxSpeed.
func StepVelocity(pos, vel r3.Vec, b Bounds) r3.Vec {
	if pos.X < b.X.Min {
		vel.X += edgeNudge
		vel.Y += crossNudge
	} else if pos.X > b.X.Max {
		vel.X -= edgeNudge
		vel.Z -= crossNudge
	}

	if pos.Y < FloorY {
		vel.Y += crossNudge
		vel.Z += crossNudge
	} else if pos.Y > CeilingY {
		vel.Y -= crossNudge
		vel.X -= crossNudge
	}

	if pos.Z < b.Z.Min {
		vel.Z += edgeNudge
		vel.X += crossNudge
	} else if pos.Z > b.Z.Max {
		vel.Z -= edgeNudge
		vel.Y -= crossNudge
	}

	return clampSpeed(vel)
}

// clampSpeed rescales v to unit length when it is longer than MaxSpeed.
func clampSpeed(v r3.Vec) r3.Vec {
	if n := r3.Norm(v); n > MaxSpeed {
		return r3.Scale(MaxSpeed/n, v)
	}
	return v
}

// StepPosition advances one agent's position and phase using the velocity
// from the start of the step.
func StepPosition(pos r3.Vec, phase float64, vel r3.Vec, dt float64) (r3.Vec, float64) {
	next := r3.Add(pos, r3.Scale(dt*SpeedScale, vel))

	horizontal := math.Hypot(vel.X, vel.Z)
	phase += dt + horizontal*dt*phaseHorizontalRate + math.Max(vel.Y, 0)*dt*phaseClimbRate

	return next, wrapPhase(phase)
}

// wrapPhase maps p into [0, PhaseWrap).
func wrapPhase(p float64) float64 {
	p = math.Mod(p, PhaseWrap)
	if p < 0 {
		p += PhaseWrap
	}
	if p >= PhaseWrap {
		p = 0
	}
	return p
}

// sanitizeDT maps non-finite or negative deltas to zero.
func sanitizeDT(dt float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	return dt
}
