package telemetry

import "github.com/pthm-cable/flock/swarm"

// Collector accumulates per-frame counters within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32
	frames          int
	heldTotal       int

	// Scratch buffers reused across flushes
	states  []swarm.ParticleState
	speeds  []float64
	heights []float64
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window (values below 1 mean every tick)
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		dt:                  dt,
	}
}

// RecordFrame records how many agents held their orientation in one pose update.
func (c *Collector) RecordFrame(held int) {
	c.frames++
	c.heldTotal += held
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush samples the grid, produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, grid *swarm.Grid) WindowStats {
	c.states = grid.Snapshot(c.states)
	if n := len(c.states); cap(c.speeds) < n {
		c.speeds = make([]float64, 0, n)
		c.heights = make([]float64, 0, n)
	}
	b := grid.Bounds()
	sample := Sample(c.states, b, c.speeds, c.heights)

	var held float64
	if c.frames > 0 {
		held = float64(c.heldTotal) / float64(c.frames)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Agents:        sample.Agents,
		SpeedMean:     sample.SpeedMean,
		SpeedStd:      sample.SpeedStd,
		SpeedP50:      sample.SpeedP50,
		SpeedP90:      sample.SpeedP90,
		SpeedMax:      sample.SpeedMax,
		SaturatedFrac: sample.SaturatedFrac,
		HeightMean:    sample.HeightMean,
		HeightStd:     sample.HeightStd,
		OutsideFrac:   sample.OutsideFrac,
		PhaseMean:     sample.PhaseMean,
		HeldPerFrame:  held,

		MinX: b.X.Min,
		MaxX: b.X.Max,
		MinZ: b.Z.Min,
		MaxZ: b.Z.Max,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.frames = 0
	c.heldTotal = 0

	return stats
}
