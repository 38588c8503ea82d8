// Package swarm simulates a fixed grid of butterflies. Each cell owns one
// agent whose position and velocity advance every step through two pure
// kernels reading a double-buffered snapshot.
package swarm

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxCells caps the grid size accepted by NewGrid.
const MaxCells = 1 << 22

var (
	// ErrInvalidDimensions is returned for a zero or negative grid size.
	ErrInvalidDimensions = errors.New("swarm: grid dimensions must be positive")
	// ErrGridTooLarge is returned when W×H exceeds MaxCells.
	ErrGridTooLarge = errors.New("swarm: grid exceeds maximum cell count")
)

// Config describes a grid and its initial state distribution.
type Config struct {
	Width, Height int

	SpawnMin, SpawnMax r3.Vec  // initial position box
	InitialSpeed       float64 // per-axis initial velocity in [-InitialSpeed, InitialSpeed]
	InitialPhase       float64

	Bounds Bounds

	ParallelThreshold int // cells below this count step on the calling goroutine
	Workers           int // 0 = GOMAXPROCS
}

// DefaultConfig returns the standard spawn box and bounds for a w×h grid.
func DefaultConfig(w, h int) Config {
	return Config{
		Width:             w,
		Height:            h,
		SpawnMin:          r3.Vec{X: -25, Y: 0, Z: -25},
		SpawnMax:          r3.Vec{X: 25, Y: 25, Z: 25},
		InitialSpeed:      0.5,
		InitialPhase:      1,
		Bounds:            DefaultBounds(),
		ParallelThreshold: 256,
	}
}

// Grid is the swarm state store plus its stepping machinery.
// Step and Close must not be called concurrently with each other;
// Sample, SampleCell, State, Snapshot and SetBounds are safe from any goroutine.
type Grid struct {
	width, height int

	store  store
	bounds atomic.Pointer[Bounds]

	stepMu            sync.Mutex
	pool              *workerPool
	parallelThreshold int
	steps             atomic.Uint64
}

// NewGrid allocates the buffers and randomizes the initial state from rng.
// A nil rng is seeded from the clock.
func NewGrid(cfg Config, rng *rand.Rand) (*Grid, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("new grid %dx%d: %w", cfg.Width, cfg.Height, ErrInvalidDimensions)
	}
	if cfg.Width > MaxCells/cfg.Height {
		return nil, fmt.Errorf("new grid %dx%d: %w", cfg.Width, cfg.Height, ErrGridTooLarge)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Grid{
		width:             cfg.Width,
		height:            cfg.Height,
		store:             newStore(cfg.Width * cfg.Height),
		pool:              newWorkerPool(cfg.Workers),
		parallelThreshold: cfg.ParallelThreshold,
	}
	b := NewBounds(cfg.Bounds.X.Min, cfg.Bounds.X.Max, cfg.Bounds.Z.Min, cfg.Bounds.Z.Max)
	g.bounds.Store(&b)

	span := r3.Sub(cfg.SpawnMax, cfg.SpawnMin)
	for i := 0; i < g.Len(); i++ {
		pos := r3.Vec{
			X: cfg.SpawnMin.X + rng.Float64()*span.X,
			Y: cfg.SpawnMin.Y + rng.Float64()*span.Y,
			Z: cfg.SpawnMin.Z + rng.Float64()*span.Z,
		}
		vel := r3.Vec{
			X: (rng.Float64()*2 - 1) * cfg.InitialSpeed,
			Y: (rng.Float64()*2 - 1) * cfg.InitialSpeed,
			Z: (rng.Float64()*2 - 1) * cfg.InitialSpeed,
		}
		g.store.seed(i, ParticleState{Position: pos, Phase: cfg.InitialPhase, Velocity: vel})
	}

	return g, nil
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// Len returns the number of agents.
func (g *Grid) Len() int { return g.width * g.height }

// Steps returns how many steps have been promoted.
func (g *Grid) Steps() uint64 { return g.steps.Load() }

// SetBounds replaces the horizontal domain. Takes effect on the next step.
func (g *Grid) SetBounds(minX, maxX, minZ, maxZ float64) {
	b := NewBounds(minX, maxX, minZ, maxZ)
	g.bounds.Store(&b)
}

// Bounds returns the domain the next step will use.
func (g *Grid) Bounds() Bounds {
	return *g.bounds.Load()
}

// Step advances every agent by dt seconds and promotes the result.
func (g *Grid) Step(dt float64) {
	g.stepMu.Lock()
	defer g.stepMu.Unlock()

	prev := g.store.cur
	next := 1 - prev
	job := &stepJob{
		prevPos: g.store.pos[prev],
		prevVel: g.store.vel[prev],
		nextPos: g.store.pos[next],
		nextVel: g.store.vel[next],
		bounds:  *g.bounds.Load(),
		dt:      sanitizeDT(dt),
	}

	n := g.Len()
	if n < g.parallelThreshold {
		job.run(0, n)
	} else {
		g.pool.run(job, n)
	}

	g.store.promote()
	g.steps.Add(1)
}

// Close stops the worker goroutines. The grid can still be read afterwards.
func (g *Grid) Close() {
	g.stepMu.Lock()
	defer g.stepMu.Unlock()
	g.pool.stop()
}

// Index returns the cell index for grid coordinates, wrapping out-of-range
// values.
func (g *Grid) Index(x, y int) int {
	x = ((x % g.width) + g.width) % g.width
	y = ((y % g.height) + g.height) % g.height
	return y*g.width + x
}

// CellAt maps a normalized coordinate in [0,1)² to grid coordinates.
// Coordinates outside the unit square repeat.
func (g *Grid) CellAt(u, v float64) (x, y int) {
	return wrapCoord(u, g.width), wrapCoord(v, g.height)
}

func wrapCoord(u float64, n int) int {
	if math.IsNaN(u) || math.IsInf(u, 0) {
		return 0
	}
	i := int(math.Floor(u * float64(n)))
	return ((i % n) + n) % n
}

// Sample returns the promoted position and velocity of the agent at
// normalized coordinate (u, v).
func (g *Grid) Sample(u, v float64) (pos, vel r3.Vec) {
	x, y := g.CellAt(u, v)
	return g.SampleCell(x, y)
}

// SampleCell returns the promoted position and velocity of cell (x, y).
func (g *Grid) SampleCell(x, y int) (pos, vel r3.Vec) {
	st := g.State(x, y)
	return st.Position, st.Velocity
}

// State returns the full promoted state of cell (x, y).
func (g *Grid) State(x, y int) ParticleState {
	i := g.Index(x, y)
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return g.store.read(i)
}

// Snapshot copies every cell's promoted state into dst, reusing its
// capacity. All cells come from the same step.
func (g *Grid) Snapshot(dst []ParticleState) []ParticleState {
	n := g.Len()
	if cap(dst) < n {
		dst = make([]ParticleState, n)
	}
	dst = dst[:n]

	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	for i := range dst {
		dst[i] = g.store.read(i)
	}
	return dst
}
