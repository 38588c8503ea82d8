package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/game"
	"github.com/pthm-cable/flock/swarm"
	"github.com/pthm-cable/flock/telemetry"
)

const (
	// referenceArea is the footprint of the default bounds (40×20).
	referenceArea = 800.0
	// overshootPenalty weighs each unit of outside fraction above target
	// against a full reference area of footprint.
	overshootPenalty = 10.0
	// sampleEvery is the tick interval between outside-fraction samples.
	sampleEvery = 10
)

// EvalResult holds the measurements behind one fitness value.
type EvalResult struct {
	Fitness     float64
	OutsideFrac float64
	Area        float64
}

// FitnessEvaluator runs headless swarms and scores a bounds candidate.
// Smaller boxes score better until the swarm spends more than the target
// fraction of its time outside them.
type FitnessEvaluator struct {
	params        *ParamVector
	ticks         int
	seeds         []int64
	baseConfig    *config.Config
	targetOutside float64

	mu   sync.Mutex
	last EvalResult
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config, targetOutside float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:        params,
		ticks:         ticks,
		seeds:         seeds,
		baseConfig:    baseCfg,
		targetOutside: targetOutside,
	}
}

// Last returns the measurements from the most recent evaluation.
func (fe *FitnessEvaluator) Last() EvalResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Seeds run in parallel, each on its own grid.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	outside := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(i int, seed int64) {
			defer wg.Done()
			outside[i] = fe.runSeed(&cfg, seed)
		}(i, seed)
	}
	wg.Wait()

	b := game.ConfigBounds(&cfg)
	res := EvalResult{
		OutsideFrac: stat.Mean(outside, nil),
		Area:        (b.X.Max - b.X.Min) * (b.Z.Max - b.Z.Min),
	}
	res.Fitness = fitness(res.Area, res.OutsideFrac, fe.targetOutside)

	fe.mu.Lock()
	fe.last = res
	fe.mu.Unlock()

	return res.Fitness
}

// fitness scores a footprint and its measured outside fraction.
func fitness(area, outside, target float64) float64 {
	return area/referenceArea + overshootPenalty*math.Max(0, outside-target)
}

// runSeed steps one swarm and returns its mean outside fraction over the
// second half of the run. A grid that cannot be built counts as fully outside.
func (fe *FitnessEvaluator) runSeed(cfg *config.Config, seed int64) float64 {
	sc := game.SwarmConfig(cfg)
	sc.Workers = 1
	grid, err := swarm.NewGrid(sc, rand.New(rand.NewSource(seed)))
	if err != nil {
		return 1
	}
	defer grid.Close()

	n := grid.Len()
	states := make([]swarm.ParticleState, 0, n)
	speeds := make([]float64, 0, n)
	heights := make([]float64, 0, n)

	settle := fe.ticks / 2
	var sum float64
	var samples int
	for t := 1; t <= fe.ticks; t++ {
		grid.Step(cfg.Physics.DT)
		if t <= settle || t%sampleEvery != 0 {
			continue
		}
		states = grid.Snapshot(states)
		sum += telemetry.Sample(states, grid.Bounds(), speeds, heights).OutsideFrac
		samples++
	}

	if samples == 0 {
		states = grid.Snapshot(states)
		return telemetry.Sample(states, grid.Bounds(), speeds, heights).OutsideFrac
	}
	return sum / float64(samples)
}
