package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/flock/config"
)

func TestFitnessPenalizesOvershoot(t *testing.T) {
	testCases := []struct {
		name          string
		area, outside float64
		want          float64
	}{
		{"reference area at target", 800, 0.1, 1},
		{"below target", 400, 0.05, 0.5},
		{"overshoot", 400, 0.3, 0.5 + overshootPenalty*0.2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fitness(tc.area, tc.outside, 0.1); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("fitness(%v, %v) = %v, want %v", tc.area, tc.outside, got, tc.want)
			}
		})
	}
}

func TestParamVectorRoundTrip(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()

	raw := pv.ExtractFromConfig(cfg)
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	pv.ApplyToConfig(cfg, []float64{-100, 100, -1, 1})
	if cfg.Bounds.MinX != -40 || cfg.Bounds.MaxX != 40 || cfg.Bounds.MinZ != -2 || cfg.Bounds.MaxZ != 2 {
		t.Errorf("ApplyToConfig did not clamp: %+v", cfg.Bounds)
	}
}

func TestEvaluateSmallSwarm(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Swarm.GridWidth = 4
	cfg.Swarm.GridHeight = 4

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 40, []int64{1, 2}, cfg, 0.1)

	f := fe.Evaluate(pv.DefaultVector())
	res := fe.Last()
	if math.IsNaN(f) || f != res.Fitness {
		t.Fatalf("Evaluate = %v, Last().Fitness = %v", f, res.Fitness)
	}
	if res.Area != 800 {
		t.Errorf("Area = %v, want 800", res.Area)
	}
	if res.OutsideFrac < 0 || res.OutsideFrac > 1 {
		t.Errorf("OutsideFrac = %v out of range", res.OutsideFrac)
	}
	// Evaluation must not touch the base config
	if cfg.Bounds.MinX != -20 {
		t.Errorf("base config mutated: %+v", cfg.Bounds)
	}
}
