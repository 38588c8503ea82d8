package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/mesh"
)

// ButterflyRenderer draws each agent as its two wing triangles.
type ButterflyRenderer struct {
	mapper *mesh.Mapper
	wings  [2]rl.Color
	verts  [mesh.VerticesPerAgent]r3.Vec
}

// NewButterflyRenderer creates a renderer for the mapper's shared mesh.
// Each wing is tinted with the colour at the centroid of its texture coordinates.
func NewButterflyRenderer(mapper *mesh.Mapper) *ButterflyRenderer {
	r := &ButterflyRenderer{mapper: mapper}

	shape := mapper.Shape()
	for w := range r.wings {
		var u, v float64
		for k := 0; k < 3; k++ {
			u += shape[w*3+k].U
			v += shape[w*3+k].V
		}
		cr, cg, cb := mesh.Color(u/3, v/3)
		r.wings[w] = rl.Color{
			R: uint8(cr * 255),
			G: uint8(cg * 255),
			B: uint8(cb * 255),
			A: 255,
		}
	}
	return r
}

// Draw renders one agent. Must be called between BeginMode3D and EndMode3D.
func (r *ButterflyRenderer) Draw(p mesh.Pose) {
	r.mapper.Transform(p, &r.verts)

	for w, color := range r.wings {
		a := vec3(r.verts[w*3])
		b := vec3(r.verts[w*3+1])
		c := vec3(r.verts[w*3+2])

		// Wings are single-sided triangles; draw both windings so they
		// stay visible while flapping past edge-on.
		rl.DrawTriangle3D(a, b, c, color)
		rl.DrawTriangle3D(a, c, b, color)
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
