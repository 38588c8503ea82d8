// Package systems contains ECS systems for the swarm viewer.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/mesh"
	"github.com/pthm-cable/flock/swarm"
)

// PoseSystem samples the grid once per frame and updates every agent's Pose.
type PoseSystem struct {
	filter *ecs.Filter2[components.Agent, components.Pose]
	grid   *swarm.Grid
	mapper *mesh.Mapper

	snapshot []swarm.ParticleState
	held     int
}

// NewPoseSystem creates a pose system over the given world and grid.
func NewPoseSystem(w *ecs.World, grid *swarm.Grid, mapper *mesh.Mapper) *PoseSystem {
	return &PoseSystem{
		filter:   ecs.NewFilter2[components.Agent, components.Pose](w),
		grid:     grid,
		mapper:   mapper,
		snapshot: make([]swarm.ParticleState, 0, grid.Len()),
	}
}

// Update refreshes poses for global time t. All agents are read from the
// same promoted step.
func (s *PoseSystem) Update(t float64) {
	s.snapshot = s.grid.Snapshot(s.snapshot)
	s.held = 0

	query := s.filter.Query()
	for query.Next() {
		agent, pose := query.Get()

		if int(agent.Cell) >= len(s.snapshot) {
			continue
		}
		st := &s.snapshot[agent.Cell]

		o, ok := mesh.Orient(st.Velocity, pose.Orientation)
		pose.Orientation = o
		pose.Held = !ok
		if !ok {
			s.held++
		}

		pose.Position = st.Position
		pose.Flap = s.mapper.FlapAngle(t, agent.Coord)
	}
}

// Rebind points the system at a new grid of the same size and resets every
// agent to an identity orientation at its new position.
func (s *PoseSystem) Rebind(grid *swarm.Grid) {
	s.grid = grid
	s.snapshot = grid.Snapshot(s.snapshot)
	s.held = 0

	query := s.filter.Query()
	for query.Next() {
		agent, pose := query.Get()
		if int(agent.Cell) >= len(s.snapshot) {
			continue
		}
		pose.Position = s.snapshot[agent.Cell].Position
		pose.Orientation = mesh.Identity()
		pose.Held = false
	}
}

// Held returns how many agents kept their previous orientation in the last update.
func (s *PoseSystem) Held() int {
	return s.held
}

// SpawnAgents creates one entity per grid cell with an identity pose.
func SpawnAgents(w *ecs.World, grid *swarm.Grid) int {
	mapper := ecs.NewMap2[components.Agent, components.Pose](w)

	width, height := grid.Width(), grid.Height()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			agent := components.Agent{
				Cell:  int32(grid.Index(x, y)),
				X:     int32(x),
				Y:     int32(y),
				Coord: mesh.CellCoord(x, y, width, height),
			}
			pos, _ := grid.SampleCell(x, y)
			pose := components.Pose{
				Pose: mesh.Pose{Position: pos, Orientation: mesh.Identity()},
			}
			mapper.NewEntity(&agent, &pose)
		}
	}
	return grid.Len()
}
