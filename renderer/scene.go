// Package renderer draws the swarm with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/swarm"
)

var (
	groundColor = rl.Color{R: 45, G: 50, B: 60, A: 255}
	boundsColor = rl.Color{R: 120, G: 200, B: 255, A: 200}
)

// Scene owns the raylib 3D camera and draws the static parts of the world.
type Scene struct {
	cam  *camera.Camera
	view rl.Camera3D
}

// NewScene creates a scene viewed through cam.
func NewScene(cam *camera.Camera) *Scene {
	s := &Scene{
		cam: cam,
		view: rl.NewCamera3D(
			rl.NewVector3(0, 0, 50),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			float32(cam.FovY),
			rl.CameraPerspective,
		),
	}
	s.sync()
	return s
}

// sync copies the orbit camera's placement into the raylib camera.
func (s *Scene) sync() {
	s.view.Position = vec3(s.cam.Position())
	s.view.Target = vec3(s.cam.Target)
	s.view.Fovy = float32(s.cam.FovY)
}

// Begin starts 3D drawing from the current camera placement.
func (s *Scene) Begin() {
	s.sync()
	rl.BeginMode3D(s.view)
}

// End finishes 3D drawing.
func (s *Scene) End() {
	rl.EndMode3D()
}

// DrawGround draws a square line grid on the floor plane.
func (s *Scene) DrawGround(slices int, spacing float32) {
	half := float32(slices) * spacing / 2
	y := float32(swarm.FloorY)
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, y, -half), rl.NewVector3(pos, y, half), groundColor)
		rl.DrawLine3D(rl.NewVector3(-half, y, pos), rl.NewVector3(half, y, pos), groundColor)
	}
}

// DrawBounds draws the steering box as a wireframe.
func (s *Scene) DrawBounds(b swarm.Bounds) {
	center := rl.NewVector3(
		float32((b.X.Min+b.X.Max)/2),
		float32((swarm.FloorY+swarm.CeilingY)/2),
		float32((b.Z.Min+b.Z.Max)/2),
	)
	rl.DrawCubeWires(center,
		float32(b.X.Max-b.X.Min),
		float32(swarm.CeilingY-swarm.FloorY),
		float32(b.Z.Max-b.Z.Min),
		boundsColor,
	)
}
