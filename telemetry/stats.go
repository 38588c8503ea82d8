package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/swarm"
)

// saturationTolerance is how close to MaxSpeed a velocity must be to count as clamped.
const saturationTolerance = 1e-6

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Agents int `csv:"agents"`

	// Speed distribution (sampled at window end)
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedStd      float64 `csv:"speed_std"`
	SpeedP50      float64 `csv:"speed_p50"`
	SpeedP90      float64 `csv:"speed_p90"`
	SpeedMax      float64 `csv:"speed_max"`
	SaturatedFrac float64 `csv:"saturated_frac"` // agents flying at MaxSpeed

	// Spatial spread
	HeightMean  float64 `csv:"height_mean"`
	HeightStd   float64 `csv:"height_std"`
	OutsideFrac float64 `csv:"outside_frac"` // agents outside the flight domain
	PhaseMean   float64 `csv:"phase_mean"`

	// Orientation fallbacks
	HeldPerFrame float64 `csv:"held_per_frame"`

	// Bounds in effect at window end
	MinX float64 `csv:"min_x"`
	MaxX float64 `csv:"max_x"`
	MinZ float64 `csv:"min_z"`
	MaxZ float64 `csv:"max_z"`
}

// SwarmSample summarizes one promoted grid state.
type SwarmSample struct {
	Agents        int
	SpeedMean     float64
	SpeedStd      float64
	SpeedP50      float64
	SpeedP90      float64
	SpeedMax      float64
	SaturatedFrac float64
	HeightMean    float64
	HeightStd     float64
	OutsideFrac   float64
	PhaseMean     float64
}

// Sample computes distribution statistics over a grid snapshot.
// speeds and heights are scratch buffers and may be nil.
func Sample(states []swarm.ParticleState, b swarm.Bounds, speeds, heights []float64) SwarmSample {
	n := len(states)
	if n == 0 {
		return SwarmSample{}
	}

	speeds = speeds[:0]
	heights = heights[:0]
	phases := 0.0
	outside, saturated := 0, 0
	for i := range states {
		st := &states[i]
		s := r3.Norm(st.Velocity)
		speeds = append(speeds, s)
		heights = append(heights, st.Position.Y)
		phases += st.Phase

		if s >= swarm.MaxSpeed-saturationTolerance {
			saturated++
		}
		if !b.Inside(st.Position.X, st.Position.Y, st.Position.Z) {
			outside++
		}
	}

	speedMean, speedStd := stat.MeanStdDev(speeds, nil)
	heightMean, heightStd := stat.MeanStdDev(heights, nil)
	if n == 1 {
		speedStd, heightStd = 0, 0
	}

	sort.Float64s(speeds)

	return SwarmSample{
		Agents:        n,
		SpeedMean:     speedMean,
		SpeedStd:      speedStd,
		SpeedP50:      stat.Quantile(0.5, stat.Empirical, speeds, nil),
		SpeedP90:      stat.Quantile(0.9, stat.Empirical, speeds, nil),
		SpeedMax:      floats.Max(speeds),
		SaturatedFrac: float64(saturated) / float64(n),
		HeightMean:    heightMean,
		HeightStd:     heightStd,
		OutsideFrac:   float64(outside) / float64(n),
		PhaseMean:     phases / float64(n),
	}
}

// LogStats logs the window through slog.
func (s WindowStats) LogStats() {
	slog.Info("swarm_stats",
		"tick", s.WindowEndTick,
		"sim_time", math.Round(s.SimTimeSec*100)/100,
		"agents", s.Agents,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"saturated_frac", s.SaturatedFrac,
		"height_mean", s.HeightMean,
		"outside_frac", s.OutsideFrac,
		"held_per_frame", s.HeldPerFrame,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("saturated_frac", s.SaturatedFrac),
		slog.Float64("height_mean", s.HeightMean),
		slog.Float64("outside_frac", s.OutsideFrac),
	)
}
