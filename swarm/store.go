package swarm

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParticleState is the full per-cell state.
// Phase is advanced every step but nothing reads it for rendering.
type ParticleState struct {
	Position r3.Vec
	Phase    float64
	Velocity r3.Vec
}

// positionPhase is one element of the position buffer.
type positionPhase struct {
	Position r3.Vec
	Phase    float64
}

// store holds the ping-pong buffers for both fields.
// buffers[cur] is readable; buffers[1-cur] is only written by a step in flight.
type store struct {
	pos [2][]positionPhase
	vel [2][]r3.Vec

	mu  sync.RWMutex // guards cur against readers
	cur int
}

func newStore(n int) store {
	var s store
	for i := 0; i < 2; i++ {
		s.pos[i] = make([]positionPhase, n)
		s.vel[i] = make([]r3.Vec, n)
	}
	return s
}

// read returns the current state of cell i. Caller holds mu for reading
// or is the stepping goroutine.
func (s *store) read(i int) ParticleState {
	p := s.pos[s.cur][i]
	return ParticleState{Position: p.Position, Phase: p.Phase, Velocity: s.vel[s.cur][i]}
}

// write stores a state into the next buffer.
func (s *store) write(i int, st ParticleState) {
	next := 1 - s.cur
	s.pos[next][i] = positionPhase{Position: st.Position, Phase: st.Phase}
	s.vel[next][i] = st.Velocity
}

// seed writes a state into both buffers. Only used before the first step.
func (s *store) seed(i int, st ParticleState) {
	for b := 0; b < 2; b++ {
		s.pos[b][i] = positionPhase{Position: st.Position, Phase: st.Phase}
		s.vel[b][i] = st.Velocity
	}
}

// promote makes the next buffers current. Both fields flip together.
func (s *store) promote() {
	s.mu.Lock()
	s.cur = 1 - s.cur
	s.mu.Unlock()
}
