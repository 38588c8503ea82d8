package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// degenerate is the magnitude below which a direction is considered undefined.
const degenerate = 1e-6

// Orientation is a body attitude derived from a flight direction:
// a yaw about Y followed by a roll about Z, stored as cosine/sine pairs.
type Orientation struct {
	CosYaw, SinYaw   float64
	CosRoll, SinRoll float64
}

// Identity is the attitude of an agent that has never had a usable direction.
func Identity() Orientation {
	return Orientation{CosYaw: 1, CosRoll: 1}
}

// Orient derives the attitude that points the body's +X axis along vel.
// When vel or its horizontal part is too short to define a direction the
// previous attitude is returned with ok == false.
func Orient(vel r3.Vec, prev Orientation) (o Orientation, ok bool) {
	n := r3.Norm(vel)
	if !(n > degenerate) || math.IsInf(n, 0) {
		return prev, false
	}
	d := r3.Scale(1/n, vel)
	d.Z = -d.Z

	xz := math.Hypot(d.X, d.Z)
	if xz < degenerate {
		return prev, false
	}

	y := math.Max(-1, math.Min(1, d.Y))
	return Orientation{
		CosYaw:  d.X / xz,
		SinYaw:  d.Z / xz,
		CosRoll: math.Sqrt(1 - y*y),
		SinRoll: y,
	}, true
}

// yaw returns the rotation about Y.
func (o Orientation) yaw() *r3.Mat {
	return r3.NewMat([]float64{
		o.CosYaw, 0, o.SinYaw,
		0, 1, 0,
		-o.SinYaw, 0, o.CosYaw,
	})
}

// roll returns the rotation about Z.
func (o Orientation) roll() *r3.Mat {
	return r3.NewMat([]float64{
		o.CosRoll, -o.SinRoll, 0,
		o.SinRoll, o.CosRoll, 0,
		0, 0, 1,
	})
}

// Apply rotates a local vector by roll then yaw.
func (o Orientation) Apply(v r3.Vec) r3.Vec {
	return o.yaw().MulVec(o.roll().MulVec(v))
}
