package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/swarm"
	"github.com/pthm-cable/flock/telemetry"
)

// Update runs one frame in graphical mode. The frame delta comes from
// raylib and is clamped by the clock.
func (g *Game) Update() {
	g.handleInput()

	frameDT := float64(rl.GetFrameTime())
	g.camera.Update(frameDT)
	g.perf.RecordFrame()

	steps := g.stepsPerUpdate
	if g.paused {
		if !g.stepOnce {
			return
		}
		steps = 1
		frameDT = g.cfg.Physics.DT
	}
	g.stepOnce = false

	for i := 0; i < steps; i++ {
		g.simulationStep(frameDT)
	}
}

// UpdateHeadless runs stepsPerUpdate ticks of the fixed physics dt.
func (g *Game) UpdateHeadless() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep(g.cfg.Physics.DT)
	}
}

// simulationStep advances the clock by dt, steps the grid from the promoted
// state and refreshes every agent's pose.
func (g *Game) simulationStep(dt float64) {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseStep)
	applied := g.clock.Advance(dt)
	g.grid.Step(applied)
	g.tick++

	g.perf.StartPhase(telemetry.PhasePose)
	g.poses.Update(g.clock.Time())
	g.collector.RecordFrame(g.poses.Held())

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTick()
}

// setBounds replaces the steering box. The grid picks it up on its next step.
func (g *Game) setBounds(b swarm.Bounds) {
	g.grid.SetBounds(b.X.Min, b.X.Max, b.Z.Min, b.Z.Max)
	applied := g.grid.Bounds()
	slog.Info("bounds_changed",
		"tick", g.tick,
		"min_x", applied.X.Min,
		"max_x", applied.X.Max,
		"min_z", applied.Z.Min,
		"max_z", applied.Z.Max,
	)
}

// reseed replaces the grid with a freshly randomized one of the same size,
// keeping the current bounds, and rebinds the pose system to it.
func (g *Game) reseed() error {
	sc := SwarmConfig(g.cfg)
	sc.Bounds = g.grid.Bounds()

	next, err := swarm.NewGrid(sc, g.rng)
	if err != nil {
		return err
	}
	g.grid.Close()
	g.grid = next
	g.poses.Rebind(next)
	g.reseeds++
	g.lastReseedTick = g.tick

	slog.Info("swarm_reseeded", "tick", g.tick, "agents", next.Len(), "reseeds", g.reseeds)
	return nil
}
