// Package mesh turns sampled swarm state into butterfly wing geometry.
//
// Every agent shares one six-vertex mesh: two triangles, one per wing.
// Vertices 0 and 3 sit on the body spine; 1,2 and 4,5 are wing tips that
// flap in opposition about the body's long axis.
package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// VerticesPerAgent is the size of the shared wing mesh.
const VerticesPerAgent = 6

// WingIndex identifies a vertex within the shared mesh.
type WingIndex uint8

// Vertex is one corner of the shared mesh in the agent's local frame.
type Vertex struct {
	Local r3.Vec
	U, V  float64
	Wing  WingIndex
}

// Raw wing outline before the model transform. The body points along -Z here.
var outline = [VerticesPerAgent]r3.Vec{
	{X: 0, Y: 0, Z: 0}, {X: -4, Y: 0, Z: 1}, {X: -3, Y: 0, Z: -3}, // left wing
	{X: 0, Y: 0, Z: 0}, {X: 3, Y: 0, Z: -3}, {X: 4, Y: 0, Z: 1}, // right wing
}

var outlineUV = [VerticesPerAgent][2]float64{
	{0, 0}, {1, 0}, {0, 1},
	{0, 0}, {0, 1}, {1, 0},
}

// Shape returns the shared mesh scaled by scale and turned a quarter turn
// about Y so the long axis runs along +X.
func Shape(scale float64) [VerticesPerAgent]Vertex {
	s, c := math.Sincos(math.Pi / 2)
	model := r3.NewMat([]float64{
		c * scale, 0, s * scale,
		0, scale, 0,
		-s * scale, 0, c * scale,
	})

	var out [VerticesPerAgent]Vertex
	for i, p := range outline {
		out[i] = Vertex{
			Local: model.MulVec(p),
			U:     outlineUV[i][0],
			V:     outlineUV[i][1],
			Wing:  WingIndex(i),
		}
	}
	return out
}

// Color returns the wing colour at a texture coordinate as RGB in [0,1].
func Color(u, v float64) (r, g, b float64) {
	return clamp01(1 - v), clamp01(1 - u), clamp01(v - u)
}

func clamp01(x float64) float64 {
	return math.Min(math.Max(x, 0), 1)
}
