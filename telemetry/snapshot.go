package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/flock/swarm"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the swarm state at one tick for offline inspection.
// Snapshots are never loaded back into a running simulation.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	// Reseeds counts grids drawn from the seeded rng after the first.
	// LastReseedTick is the tick the current grid started from.
	Reseeds        int   `json:"reseeds,omitempty"`
	LastReseedTick int32 `json:"last_reseed_tick,omitempty"`

	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	Tick       int32   `json:"tick"`
	SimTimeSec float64 `json:"sim_time"`

	Bounds BoundsJSON  `json:"bounds"`
	Cells  []CellState `json:"cells"`
}

// BoundsJSON is the serialized form of swarm.Bounds.
type BoundsJSON struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

// CellState holds one agent's state.
type CellState struct {
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
	Phase    float64    `json:"phase"`
}

// NewSnapshot captures the promoted state of every cell.
func NewSnapshot(grid *swarm.Grid, seed int64, tick int32, simTime float64) *Snapshot {
	states := grid.Snapshot(nil)
	b := grid.Bounds()

	snap := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    seed,
		GridWidth:  grid.Width(),
		GridHeight: grid.Height(),
		Tick:       tick,
		SimTimeSec: simTime,
		Bounds:     BoundsJSON{MinX: b.X.Min, MaxX: b.X.Max, MinZ: b.Z.Min, MaxZ: b.Z.Max},
		Cells:      make([]CellState, len(states)),
	}
	for i, st := range states {
		snap.Cells[i] = CellState{
			X:        i % grid.Width(),
			Y:        i / grid.Width(),
			Position: [3]float64{st.Position.X, st.Position.Y, st.Position.Z},
			Velocity: [3]float64{st.Velocity.X, st.Velocity.Y, st.Velocity.Z},
			Phase:    st.Phase,
		}
	}
	return snap
}

// States converts the cells back into grid states, in row-major order.
func (s *Snapshot) States() []swarm.ParticleState {
	out := make([]swarm.ParticleState, len(s.Cells))
	for i, c := range s.Cells {
		out[i].Position.X, out[i].Position.Y, out[i].Position.Z = c.Position[0], c.Position[1], c.Position[2]
		out[i].Velocity.X, out[i].Velocity.Y, out[i].Velocity.Z = c.Velocity[0], c.Velocity[1], c.Velocity[2]
		out[i].Phase = c.Phase
	}
	return out
}

// SwarmBounds returns the snapshot's bounds.
func (s *Snapshot) SwarmBounds() swarm.Bounds {
	return swarm.NewBounds(s.Bounds.MinX, s.Bounds.MaxX, s.Bounds.MinZ, s.Bounds.MaxZ)
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}

	return &snapshot, nil
}
