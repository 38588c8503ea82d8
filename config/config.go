// Package config provides configuration loading and access for the swarm.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Swarm     SwarmConfig     `yaml:"swarm"`
	Bounds    BoundsConfig    `yaml:"bounds"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SwarmConfig holds grid dimensions and initial state parameters.
type SwarmConfig struct {
	GridWidth         int        `yaml:"grid_width"`
	GridHeight        int        `yaml:"grid_height"`
	SpawnMin          [3]float64 `yaml:"spawn_min"`     // Lower corner of the initial position box
	SpawnMax          [3]float64 `yaml:"spawn_max"`     // Upper corner of the initial position box
	InitialSpeed      float64    `yaml:"initial_speed"` // Per-axis initial velocity in [-s, s]
	InitialPhase      float64    `yaml:"initial_phase"`
	ParallelThreshold int        `yaml:"parallel_threshold"` // Cells below this step single-threaded
	Workers           int        `yaml:"workers"`            // 0 = GOMAXPROCS
}

// BoundsConfig holds the initial horizontal domain limits.
type BoundsConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinZ float64 `yaml:"min_z"`
	MaxZ float64 `yaml:"max_z"`
}

// PhysicsConfig holds stepping parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // Fixed step used in headless mode
}

// RenderConfig holds viewer parameters.
type RenderConfig struct {
	MeshScale  float64      `yaml:"mesh_scale"`
	FlapRate   float64      `yaml:"flap_rate"`    // Radians per second of global time
	MaxFrameDT float64      `yaml:"max_frame_dt"` // Frame delta clamp in graphical mode
	Camera     CameraConfig `yaml:"camera"`
}

// CameraConfig holds the initial 3D camera placement.
type CameraConfig struct {
	Position  [3]float64 `yaml:"position"`
	Target    [3]float64 `yaml:"target"`
	FovY      float64    `yaml:"fovy"`
	OrbitRate float64    `yaml:"orbit_rate"` // Automatic orbit in radians per second
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of simulated time per stats record
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells       int // GridWidth * GridHeight
	StatsWindow int // Telemetry.StatsWindow in ticks of Physics.DT
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values that would make the simulation meaningless.
// Grid dimensions are checked again by swarm.NewGrid.
func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	for i := 0; i < 3; i++ {
		if c.Swarm.SpawnMin[i] > c.Swarm.SpawnMax[i] {
			return fmt.Errorf("swarm.spawn_min[%d] exceeds spawn_max[%d]", i, i)
		}
	}
	if c.Swarm.InitialSpeed < 0 {
		return fmt.Errorf("swarm.initial_speed must not be negative, got %v", c.Swarm.InitialSpeed)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.Swarm.GridWidth * c.Swarm.GridHeight
	c.Derived.StatsWindow = WindowTicks(c.Telemetry.StatsWindow, c.Physics.DT)
}

// WindowTicks converts a window length in seconds to whole ticks of dt,
// rounding to nearest. The result is at least 1.
func WindowTicks(sec, dt float64) int {
	window := int(sec/dt + 0.5)
	if window < 1 {
		window = 1
	}
	return window
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
