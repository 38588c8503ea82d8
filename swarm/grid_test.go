package swarm

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newTestGrid(t *testing.T, cfg Config, seed int64) *Grid {
	t.Helper()
	g, err := NewGrid(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func TestNewGridRejectsBadDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want error
	}{
		{"zero width", 0, 4, ErrInvalidDimensions},
		{"negative height", 4, -1, ErrInvalidDimensions},
		{"too large", MaxCells, 2, ErrGridTooLarge},
		{"overflow", math.MaxInt / 2, 4, ErrGridTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(DefaultConfig(tt.w, tt.h), rand.New(rand.NewSource(1)))
			if !errors.Is(err, tt.want) {
				t.Errorf("NewGrid(%d, %d) error = %v, want %v", tt.w, tt.h, err, tt.want)
			}
		})
	}
}

func TestNewGridInitialState(t *testing.T) {
	g := newTestGrid(t, DefaultConfig(16, 8), 3)

	if g.Len() != 128 {
		t.Fatalf("Len() = %d, want 128", g.Len())
	}

	for _, st := range g.Snapshot(nil) {
		p, v := st.Position, st.Velocity
		if p.X < -25 || p.X > 25 || p.Y < 0 || p.Y > 25 || p.Z < -25 || p.Z > 25 {
			t.Errorf("position %v outside spawn box", p)
		}
		if math.Abs(v.X) > 0.5 || math.Abs(v.Y) > 0.5 || math.Abs(v.Z) > 0.5 {
			t.Errorf("velocity %v outside [-0.5, 0.5]", v)
		}
		if st.Phase != 1 {
			t.Errorf("phase = %v, want 1", st.Phase)
		}
	}
}

// TestStepScenario runs the documented 2x2 case: an agent beyond max-x at rest.
func TestStepScenario(t *testing.T) {
	cfg := DefaultConfig(2, 2)
	cfg.Bounds = NewBounds(-20, 20, -10, 10)
	g := newTestGrid(t, cfg, 1)

	start := ParticleState{Position: r3.Vec{X: 25, Y: 5, Z: 0}, Phase: 1}
	g.store.seed(0, start)

	g.Step(0.1)

	st := g.State(0, 0)
	wantVel := r3.Vec{X: -0.05, Y: 0, Z: -0.01}
	if !vecNear(st.Velocity, wantVel, eps) {
		t.Errorf("velocity = %v, want %v", st.Velocity, wantVel)
	}
	// Position integrates the pre-step velocity, which was zero.
	if !vecNear(st.Position, start.Position, eps) {
		t.Errorf("position = %v, want unchanged %v", st.Position, start.Position)
	}

	g.Step(0.1)
	st2 := g.State(0, 0)
	wantPos := r3.Add(start.Position, r3.Scale(0.1*SpeedScale, wantVel))
	if !vecNear(st2.Position, wantPos, 1e-12) {
		t.Errorf("second step position = %v, want %v", st2.Position, wantPos)
	}
}

func TestStepDeterminism(t *testing.T) {
	cfg := DefaultConfig(32, 32)
	cfg.ParallelThreshold = 0 // force the worker pool

	a := newTestGrid(t, cfg, 99)
	cfg.ParallelThreshold = 1 << 30 // single goroutine
	b := newTestGrid(t, cfg, 99)

	dts := []float64{0.016, 0.02, 0.1, 0.008, 0.016}
	for i := 0; i < 200; i++ {
		dt := dts[i%len(dts)]
		a.Step(dt)
		b.Step(dt)
	}

	sa, sb := a.Snapshot(nil), b.Snapshot(nil)
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("cell %d diverged: %+v vs %+v", i, sa[i], sb[i])
		}
	}
}

func TestStepClampsEveryCell(t *testing.T) {
	cfg := DefaultConfig(16, 16)
	cfg.InitialSpeed = 5
	g := newTestGrid(t, cfg, 5)

	for i := 0; i < 50; i++ {
		g.Step(0.05)
		for _, st := range g.Snapshot(nil) {
			if n := r3.Norm(st.Velocity); n > MaxSpeed+1e-12 {
				t.Fatalf("step %d: |v| = %v", i, n)
			}
		}
	}
}

func TestPhaseStaysWrapped(t *testing.T) {
	cfg := DefaultConfig(4, 4)
	g := newTestGrid(t, cfg, 11)

	buf := make([]ParticleState, 0, g.Len())
	for i := 0; i < 10000; i++ {
		g.Step(0.016)
	}
	for _, st := range g.Snapshot(buf) {
		if st.Phase < 0 || st.Phase >= PhaseWrap {
			t.Errorf("phase %v outside [0, %v)", st.Phase, PhaseWrap)
		}
	}
}

func TestSetBoundsTakesEffectNextStep(t *testing.T) {
	g := newTestGrid(t, DefaultConfig(1, 1), 1)
	g.store.seed(0, ParticleState{Position: r3.Vec{X: 0, Y: 5, Z: 0}})

	g.Step(0.1)
	if _, v := g.SampleCell(0, 0); v != (r3.Vec{}) {
		t.Fatalf("inside default bounds, velocity = %v", v)
	}

	g.SetBounds(5, 10, -10, 10)
	if got := g.Bounds(); got.X.Min != 5 || got.X.Max != 10 {
		t.Fatalf("Bounds() = %+v", got)
	}

	g.Step(0.1)
	if _, v := g.SampleCell(0, 0); math.Abs(v.X-0.05) > eps {
		t.Errorf("after SetBounds velocity.x = %v, want 0.05", v.X)
	}
}

func TestSampleWrapsCoordinates(t *testing.T) {
	g := newTestGrid(t, DefaultConfig(4, 2), 1)

	tests := []struct {
		u, v   float64
		wx, wy int
	}{
		{0, 0, 0, 0},
		{0.26, 0.5, 1, 1},
		{0.99, 0.99, 3, 1},
		{1.0, 0, 0, 0},
		{-0.25, 0, 3, 0},
		{math.NaN(), 0.5, 0, 1},
	}
	for _, tt := range tests {
		x, y := g.CellAt(tt.u, tt.v)
		if x != tt.wx || y != tt.wy {
			t.Errorf("CellAt(%v, %v) = (%d, %d), want (%d, %d)", tt.u, tt.v, x, y, tt.wx, tt.wy)
		}
	}

	pos, vel := g.Sample(0.26, 0.5)
	st := g.State(1, 1)
	if pos != st.Position || vel != st.Velocity {
		t.Errorf("Sample disagrees with State")
	}
}

// TestSampleDuringStep checks that concurrent readers only see whole steps:
// every sampled (position, velocity) pair must belong to the same step.
func TestSampleDuringStep(t *testing.T) {
	cfg := DefaultConfig(8, 8)
	cfg.ParallelThreshold = 0
	cfg.Bounds = NewBounds(-1, 1, -1, 1) // keep velocities changing
	const steps = 400
	const dt = 0.016

	// Reference trajectory for cell (3, 5).
	ref := newTestGrid(t, cfg, 21)
	trajectory := make(map[r3.Vec]r3.Vec, steps+1)
	pos, vel := ref.SampleCell(3, 5)
	trajectory[pos] = vel
	for i := 0; i < steps; i++ {
		ref.Step(dt)
		pos, vel = ref.SampleCell(3, 5)
		trajectory[pos] = vel
	}

	g := newTestGrid(t, cfg, 21)

	var wg sync.WaitGroup
	done := make(chan struct{})
	samples := make(chan [2]r3.Vec, 4096)

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				p, v := g.SampleCell(3, 5)
				select {
				case samples <- [2]r3.Vec{p, v}:
				default:
				}
			}
		}()
	}

	for i := 0; i < steps; i++ {
		g.Step(dt)
	}
	close(done)
	wg.Wait()
	close(samples)

	for s := range samples {
		want, ok := trajectory[s[0]]
		if !ok {
			t.Fatalf("sampled position %v is not on the trajectory", s[0])
		}
		if want != s[1] {
			t.Fatalf("sample mixes steps: position %v with velocity %v, want %v", s[0], s[1], want)
		}
	}
}

func TestGridCloseIsIdempotent(t *testing.T) {
	cfg := DefaultConfig(32, 32)
	cfg.ParallelThreshold = 0
	g, err := NewGrid(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	g.Step(0.016)
	g.Close()
	g.Close()

	if g.Steps() != 1 {
		t.Errorf("Steps() = %d, want 1", g.Steps())
	}
}

func BenchmarkGridStep(b *testing.B) {
	g, err := NewGrid(DefaultConfig(128, 128), rand.New(rand.NewSource(1)))
	if err != nil {
		b.Fatal(err)
	}
	defer g.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Step(0.016)
	}
}
