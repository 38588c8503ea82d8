package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// rotationPolicy says how a vertex responds to the flap angle.
type rotationPolicy int8

const (
	spine       rotationPolicy = 0  // body vertices stay put
	flap        rotationPolicy = 1  // left wing follows the flap angle
	counterFlap rotationPolicy = -1 // right wing mirrors it
)

var wingPolicy = [VerticesPerAgent]rotationPolicy{
	spine, flap, flap,
	spine, counterFlap, counterFlap,
}

// Policy returns the rotation policy multiplier for a wing index:
// 0 for the spine, +1 for the left wing and -1 for the right wing.
// Out-of-range indices are treated as spine.
func Policy(w WingIndex) int {
	if int(w) >= len(wingPolicy) {
		return int(spine)
	}
	return int(wingPolicy[w])
}

// Pose is everything the mapper needs to place one agent.
type Pose struct {
	Position    r3.Vec
	Orientation Orientation
	Flap        float64 // radians
}

// Coord is an agent's normalized grid coordinate in [0,1)².
type Coord struct {
	X, Y float64
}

// CellCoord returns the normalized coordinate of cell (x, y) in a w×h grid.
func CellCoord(x, y, w, h int) Coord {
	return Coord{X: float64(x) / float64(w), Y: float64(y) / float64(h)}
}

// Mapper produces world-space vertices for agents.
type Mapper struct {
	shape    [VerticesPerAgent]Vertex
	flapRate float64
}

// NewMapper creates a mapper for a mesh of the given scale. flapRate is the
// flap angle in radians per second of global time.
func NewMapper(scale, flapRate float64) *Mapper {
	return &Mapper{shape: Shape(scale), flapRate: flapRate}
}

// Shape returns the mapper's local mesh.
func (m *Mapper) Shape() [VerticesPerAgent]Vertex {
	return m.shape
}

// FlapAngle returns the flap angle for an agent at time t. The grid-x
// coordinate offsets each agent so the swarm does not flap in unison.
func (m *Mapper) FlapAngle(t float64, c Coord) float64 {
	return (t + c.X) * m.flapRate
}

// flapMatrix returns the rotation about the local long axis (X).
func flapMatrix(angle float64) *r3.Mat {
	s, c := math.Sincos(angle)
	return r3.NewMat([]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

// Transform writes the six world-space vertices for one agent into dst.
func (m *Mapper) Transform(p Pose, dst *[VerticesPerAgent]r3.Vec) {
	up := flapMatrix(p.Flap)
	down := flapMatrix(-p.Flap)
	yaw := p.Orientation.yaw()
	roll := p.Orientation.roll()

	for i, v := range m.shape {
		local := v.Local
		switch rotationPolicy(Policy(v.Wing)) {
		case flap:
			local = up.MulVec(local)
		case counterFlap:
			local = down.MulVec(local)
		}
		dst[i] = r3.Add(yaw.MulVec(roll.MulVec(local)), p.Position)
	}
}
