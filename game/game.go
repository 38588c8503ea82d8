// Package game ties the swarm grid, the ECS pose pipeline, telemetry and the
// raylib viewer into one loop.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/mesh"
	"github.com/pthm-cable/flock/renderer"
	"github.com/pthm-cable/flock/swarm"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
	"github.com/pthm-cable/flock/ui"
)

// Options configures a new Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string  // final state is written here on Unload
	OutputDir      string  // CSV logs and config snapshot
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete simulation and viewer state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	reseeds        int
	lastReseedTick int32

	grid   *swarm.Grid
	world  *ecs.World
	poses  *systems.PoseSystem
	mapper *mesh.Mapper
	clock  Clock

	poseFilter *ecs.Filter1[components.Pose]

	// Telemetry
	collector   *telemetry.Collector
	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	lastStats   *telemetry.WindowStats
	logStats    bool
	snapshotDir string

	// Rendering (nil in headless mode)
	camera      *camera.Camera
	scene       *renderer.Scene
	butterflies *renderer.ButterflyRenderer
	hud         *ui.HUD
	statsPanel  *ui.StatsPanel
	boundsPanel *ui.BoundsPanel

	screenWidth, screenHeight int32

	tick           int32
	paused         bool
	stepOnce       bool
	headless       bool
	stepsPerUpdate int
}

// NewGameWithOptions creates the grid, spawns one agent entity per cell and,
// unless headless, sets up the viewer. The raylib window must already be open
// in graphical mode.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	rng := rand.New(rand.NewSource(opts.Seed))
	grid, err := swarm.NewGrid(SwarmConfig(cfg), rng)
	if err != nil {
		return nil, fmt.Errorf("creating swarm grid: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		grid.Close()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	statsWindow := cfg.Derived.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = config.WindowTicks(opts.StatsWindowSec, cfg.Physics.DT)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	maxDT := cfg.Render.MaxFrameDT
	if opts.Headless {
		maxDT = 0
	}

	world := ecs.NewWorld()
	systems.SpawnAgents(world, grid)
	mapper := mesh.NewMapper(cfg.Render.MeshScale, cfg.Render.FlapRate)

	g := &Game{
		cfg:            cfg,
		rng:            rng,
		seed:           opts.Seed,
		grid:           grid,
		world:          world,
		poses:          systems.NewPoseSystem(world, grid, mapper),
		mapper:         mapper,
		clock:          NewClock(maxDT),
		poseFilter:     ecs.NewFilter1[components.Pose](world),
		collector:      telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:         output,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		headless:       opts.Headless,
		stepsPerUpdate: steps,
		screenWidth:    int32(cfg.Screen.Width),
		screenHeight:   int32(cfg.Screen.Height),
	}

	if !opts.Headless {
		g.initViewer()
	}

	return g, nil
}

// initViewer creates the camera, renderers and panels.
func (g *Game) initViewer() {
	cc := g.cfg.Render.Camera
	g.camera = camera.New(vec(cc.Position), vec(cc.Target), cc.FovY)
	g.camera.AutoRate = cc.OrbitRate

	g.scene = renderer.NewScene(g.camera)
	g.butterflies = renderer.NewButterflyRenderer(g.mapper)
	g.hud = ui.NewHUD()
	g.statsPanel = ui.NewStatsPanel(10, 100, 300)
	g.boundsPanel = ui.NewBoundsPanel(float32(g.screenWidth)-270, 10, 260, boundsLimit)
}

// Tick returns the number of simulation ticks run so far.
func (g *Game) Tick() int32 {
	return g.tick
}

// Time returns the global simulation time in seconds.
func (g *Game) Time() float64 {
	return g.clock.Time()
}

// Grid returns the swarm grid.
func (g *Game) Grid() *swarm.Grid {
	return g.grid
}

// LastStats returns the most recently flushed stats window, or nil.
func (g *Game) LastStats() *telemetry.WindowStats {
	return g.lastStats
}
