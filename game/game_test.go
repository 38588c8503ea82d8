package game

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/swarm"
	"github.com/pthm-cable/flock/telemetry"
)

func TestMain(m *testing.M) {
	config.MustInit("")
	os.Exit(m.Run())
}

func newHeadlessGame(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	return g
}

func TestClockAdvance(t *testing.T) {
	testCases := []struct {
		name  string
		maxDT float64
		dt    float64
		want  float64
	}{
		{"normal", 0.1, 0.016, 0.016},
		{"clamped", 0.1, 0.5, 0.1},
		{"no clamp", 0, 0.5, 0.5},
		{"negative", 0.1, -1, 0},
		{"nan", 0.1, math.NaN(), 0},
		{"inf", 0, math.Inf(1), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClock(tc.maxDT)
			c.Advance(1)
			before := c.Time()
			if got := c.Advance(tc.dt); got != tc.want {
				t.Errorf("Advance(%v) = %v, want %v", tc.dt, got, tc.want)
			}
			if math.Abs(c.Time()-before-tc.want) > 1e-12 {
				t.Errorf("time advanced by %v, want %v", c.Time()-before, tc.want)
			}
			if c.DT() != tc.want {
				t.Errorf("DT() = %v, want %v", c.DT(), tc.want)
			}
		})
	}
}

func TestHeadlessRun(t *testing.T) {
	outDir := t.TempDir()
	snapDir := t.TempDir()
	g := newHeadlessGame(t, Options{
		Seed:           1,
		StatsWindowSec: 0.5,
		OutputDir:      outDir,
		SnapshotDir:    snapDir,
		StepsPerUpdate: 10,
	})

	for i := 0; i < 10; i++ {
		g.UpdateHeadless()
	}

	if g.Tick() != 100 {
		t.Fatalf("Tick() = %d, want 100", g.Tick())
	}
	dt := config.Cfg().Physics.DT
	if math.Abs(g.Time()-100*dt) > 1e-9 {
		t.Errorf("Time() = %v, want %v", g.Time(), 100*dt)
	}
	if g.Grid().Steps() != 100 {
		t.Errorf("grid stepped %d times, want 100", g.Grid().Steps())
	}

	stats := g.LastStats()
	if stats == nil {
		t.Fatal("expected a flushed stats window")
	}
	if stats.Agents != g.Grid().Len() {
		t.Errorf("stats.Agents = %d, want %d", stats.Agents, g.Grid().Len())
	}
	if stats.SpeedMax > swarm.MaxSpeed+1e-9 {
		t.Errorf("stats.SpeedMax = %v exceeds clamp", stats.SpeedMax)
	}

	g.Unload()

	snap, err := telemetry.LoadSnapshot(filepath.Join(snapDir, "snapshot_100.json"))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.RNGSeed != 1 || len(snap.Cells) != g.Grid().Len() {
		t.Errorf("snapshot seed=%d cells=%d", snap.RNGSeed, len(snap.Cells))
	}
	if snap.Reseeds != 0 {
		t.Errorf("snapshot reseeds = %d, want 0", snap.Reseeds)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestStatsWindowOverride(t *testing.T) {
	cfg := config.Cfg()

	tests := []struct {
		name      string
		windowSec float64
		want      int32
	}{
		{"config window", 0, int32(cfg.Derived.StatsWindow)},
		{"flag override", 0.5, int32(config.WindowTicks(0.5, cfg.Physics.DT))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newHeadlessGame(t, Options{Seed: 1, StatsWindowSec: tt.windowSec})
			defer g.Unload()

			if g.collector.ShouldFlush(tt.want - 1) {
				t.Errorf("flush due at tick %d, want %d", tt.want-1, tt.want)
			}
			if !g.collector.ShouldFlush(tt.want) {
				t.Errorf("no flush at tick %d", tt.want)
			}
		})
	}
}

func TestHeadlessDeterministic(t *testing.T) {
	run := func() []swarm.ParticleState {
		g := newHeadlessGame(t, Options{Seed: 42, StepsPerUpdate: 5})
		defer g.Unload()
		for i := 0; i < 10; i++ {
			g.UpdateHeadless()
		}
		return g.Grid().Snapshot(nil)
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cell %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPausedHeadlessDoesNotStep(t *testing.T) {
	g := newHeadlessGame(t, Options{Seed: 3})
	defer g.Unload()

	g.paused = true
	g.UpdateHeadless()
	if g.Tick() != 0 {
		t.Errorf("Tick() = %d after paused update, want 0", g.Tick())
	}
}

func TestReseedKeepsBounds(t *testing.T) {
	g := newHeadlessGame(t, Options{Seed: 7})
	defer g.Unload()

	g.setBounds(swarm.NewBounds(-5, 5, -3, 3))
	before := g.Grid().Snapshot(nil)

	if err := g.reseed(); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	if got := g.Grid().Bounds(); got != swarm.NewBounds(-5, 5, -3, 3) {
		t.Errorf("bounds after reseed = %+v", got)
	}
	after := g.Grid().Snapshot(nil)
	if len(after) != len(before) {
		t.Fatalf("reseed changed size %d -> %d", len(before), len(after))
	}
	if after[0] == before[0] {
		t.Error("reseed did not change the initial state")
	}

	g.UpdateHeadless()
	if g.Tick() != 1 {
		t.Errorf("Tick() = %d after reseed and update, want 1", g.Tick())
	}
}

func TestSnapshotRecordsReseed(t *testing.T) {
	snapDir := t.TempDir()
	g := newHeadlessGame(t, Options{Seed: 9, SnapshotDir: snapDir, StepsPerUpdate: 5})

	g.UpdateHeadless()
	if err := g.reseed(); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	g.UpdateHeadless()
	g.Unload()

	snap, err := telemetry.LoadSnapshot(filepath.Join(snapDir, "snapshot_10.json"))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.RNGSeed != 9 || snap.Reseeds != 1 || snap.LastReseedTick != 5 {
		t.Errorf("snapshot seed=%d reseeds=%d last_reseed_tick=%d, want 9, 1, 5",
			snap.RNGSeed, snap.Reseeds, snap.LastReseedTick)
	}
}
