// Package components defines ECS components for the swarm viewer.
package components

import (
	"github.com/pthm-cable/flock/mesh"
)

// Agent ties an entity to its cell in the swarm grid.
type Agent struct {
	Cell  int32 // row-major index into the grid
	X, Y  int32 // grid coordinates
	Coord mesh.Coord
}

// Pose is the per-frame placement derived from the agent's sampled state.
// The orientation persists across frames so a degenerate velocity can keep
// the previous attitude.
type Pose struct {
	mesh.Pose
	Held bool // orientation was carried over this frame
}
