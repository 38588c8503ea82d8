package game

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/swarm"
)

// boundsLimit is the slider range of the bounds panel.
const boundsLimit = 40.0

// SwarmConfig translates the loaded configuration into grid parameters.
func SwarmConfig(cfg *config.Config) swarm.Config {
	s := cfg.Swarm
	c := swarm.DefaultConfig(s.GridWidth, s.GridHeight)
	c.SpawnMin = vec(s.SpawnMin)
	c.SpawnMax = vec(s.SpawnMax)
	c.InitialSpeed = s.InitialSpeed
	c.InitialPhase = s.InitialPhase
	c.Bounds = ConfigBounds(cfg)
	c.ParallelThreshold = s.ParallelThreshold
	c.Workers = s.Workers
	return c
}

// ConfigBounds returns the bounds named in the configuration.
func ConfigBounds(cfg *config.Config) swarm.Bounds {
	b := cfg.Bounds
	return swarm.NewBounds(b.MinX, b.MaxX, b.MinZ, b.MaxZ)
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
