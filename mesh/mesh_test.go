package mesh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func near(a, b r3.Vec) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func finite(v r3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func TestShape(t *testing.T) {
	shape := Shape(0.1)

	want := [VerticesPerAgent]r3.Vec{
		{}, {X: 0.1, Z: 0.4}, {X: -0.3, Z: 0.3},
		{}, {X: -0.3, Z: -0.3}, {X: 0.1, Z: -0.4},
	}
	for i, v := range shape {
		if !near(v.Local, want[i]) {
			t.Errorf("vertex %d = %v, want %v", i, v.Local, want[i])
		}
		if v.Wing != WingIndex(i) {
			t.Errorf("vertex %d has wing index %d", i, v.Wing)
		}
	}
}

func TestPolicy(t *testing.T) {
	want := []int{0, 1, 1, 0, -1, -1}
	for i, w := range want {
		if got := Policy(WingIndex(i)); got != w {
			t.Errorf("Policy(%d) = %d, want %d", i, got, w)
		}
	}
	if got := Policy(WingIndex(9)); got != 0 {
		t.Errorf("Policy(9) = %d, want 0", got)
	}
}

// TestOrientPointsBodyAlongVelocity checks that the local long axis ends up
// on the flight direction.
func TestOrientPointsBodyAlongVelocity(t *testing.T) {
	dirs := []r3.Vec{
		{X: 1},
		{Z: 1},
		{X: -1, Y: 0.5, Z: 0.3},
		{X: 0.2, Y: -0.9, Z: -0.1},
		{X: 3, Y: 4, Z: 5},
	}
	for _, d := range dirs {
		o, ok := Orient(d, Identity())
		if !ok {
			t.Fatalf("Orient(%v) reported degenerate", d)
		}
		got := o.Apply(r3.Vec{X: 1})
		if want := r3.Unit(d); !near(got, want) {
			t.Errorf("Orient(%v): +X maps to %v, want %v", d, got, want)
		}
	}
}

func TestOrientHoldsPreviousWhenDegenerate(t *testing.T) {
	prev, _ := Orient(r3.Vec{X: 1, Z: 1}, Identity())

	tests := []struct {
		name string
		vel  r3.Vec
	}{
		{"zero", r3.Vec{}},
		{"tiny", r3.Vec{X: 1e-9}},
		{"straight up", r3.Vec{Y: 1}},
		{"straight down", r3.Vec{Y: -0.4}},
		{"nan", r3.Vec{X: math.NaN(), Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Orient(tt.vel, prev)
			if ok {
				t.Errorf("Orient(%v) should be degenerate", tt.vel)
			}
			if got != prev {
				t.Errorf("Orient(%v) = %+v, want previous %+v", tt.vel, got, prev)
			}
		})
	}
}

func TestTransformSpineIgnoresFlap(t *testing.T) {
	m := NewMapper(0.1, 15)
	pos := r3.Vec{X: 4, Y: 2, Z: -1}

	var a, b [VerticesPerAgent]r3.Vec
	m.Transform(Pose{Position: pos, Orientation: Identity(), Flap: 0}, &a)
	m.Transform(Pose{Position: pos, Orientation: Identity(), Flap: 1.3}, &b)

	for _, i := range []int{0, 3} {
		if !near(a[i], b[i]) {
			t.Errorf("spine vertex %d moved with flap: %v -> %v", i, a[i], b[i])
		}
		if !near(a[i], pos) {
			t.Errorf("spine vertex %d = %v, want %v", i, a[i], pos)
		}
	}
	for _, i := range []int{1, 2, 4, 5} {
		if near(a[i], b[i]) {
			t.Errorf("wing vertex %d did not move with flap", i)
		}
	}
}

// TestTransformWingsMirror checks that opposite wings rise and fall together.
func TestTransformWingsMirror(t *testing.T) {
	m := NewMapper(0.1, 15)

	for _, angle := range []float64{0, 0.3, 1.2, -0.8, math.Pi / 2} {
		var v [VerticesPerAgent]r3.Vec
		m.Transform(Pose{Orientation: Identity(), Flap: angle}, &v)

		if math.Abs(v[1].Y-v[5].Y) > tol || math.Abs(v[1].Z+v[5].Z) > tol {
			t.Errorf("flap %v: tips 1 and 5 not mirrored: %v vs %v", angle, v[1], v[5])
		}
		if math.Abs(v[2].Y-v[4].Y) > tol || math.Abs(v[2].Z+v[4].Z) > tol {
			t.Errorf("flap %v: tips 2 and 4 not mirrored: %v vs %v", angle, v[2], v[4])
		}
	}
}

func TestTransformPreservesEdgeLengths(t *testing.T) {
	m := NewMapper(0.1, 15)
	shape := m.Shape()
	o, _ := Orient(r3.Vec{X: -0.4, Y: 0.6, Z: 0.2}, Identity())

	var v [VerticesPerAgent]r3.Vec
	m.Transform(Pose{Position: r3.Vec{X: 10, Y: 3, Z: 7}, Orientation: o, Flap: 0.9}, &v)

	for i := range v {
		if !finite(v[i]) {
			t.Fatalf("vertex %d not finite: %v", i, v[i])
		}
		base := 3 * (i / 3)
		got := r3.Norm(r3.Sub(v[i], v[base]))
		want := r3.Norm(r3.Sub(shape[i].Local, shape[base].Local))
		if math.Abs(got-want) > tol {
			t.Errorf("vertex %d distance from spine = %v, want %v", i, got, want)
		}
	}
}

func TestFlapAngle(t *testing.T) {
	m := NewMapper(0.1, 15)
	c := CellCoord(8, 3, 32, 32)

	if c.X != 0.25 || c.Y != 3.0/32 {
		t.Fatalf("CellCoord = %+v", c)
	}
	if got := m.FlapAngle(2, c); math.Abs(got-(2.25*15)) > tol {
		t.Errorf("FlapAngle = %v, want %v", got, 2.25*15)
	}
}

func TestColor(t *testing.T) {
	r, g, b := Color(0, 0)
	if r != 1 || g != 1 || b != 0 {
		t.Errorf("Color(0,0) = %v %v %v", r, g, b)
	}
	r, g, b = Color(0, 1)
	if r != 0 || g != 1 || b != 1 {
		t.Errorf("Color(0,1) = %v %v %v", r, g, b)
	}
}

func BenchmarkTransform(b *testing.B) {
	m := NewMapper(0.1, 15)
	o, _ := Orient(r3.Vec{X: 0.3, Y: 0.2, Z: -0.5}, Identity())
	p := Pose{Position: r3.Vec{X: 1, Y: 2, Z: 3}, Orientation: o, Flap: 0.7}
	var dst [VerticesPerAgent]r3.Vec
	for i := 0; i < b.N; i++ {
		m.Transform(p, &dst)
	}
}
