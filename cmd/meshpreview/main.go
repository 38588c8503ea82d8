// Butterfly mesh preview tool - one agent with sliders for its flight
// direction and the render parameters.
//
// Usage: go run ./cmd/meshpreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/mesh"
	"github.com/pthm-cable/flock/renderer"
)

const (
	windowWidth  = 1000
	windowHeight = 640
	panelWidth   = 300
)

// previewParams holds the slider values.
type previewParams struct {
	VelX, VelY, VelZ float32
	MeshScale        float32
	FlapRate         float32
}

func defaultParams() previewParams {
	return previewParams{VelX: 1, VelY: 0.2, VelZ: 0, MeshScale: 1, FlapRate: 15}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Butterfly Mesh Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := defaultParams()
	mapper := mesh.NewMapper(float64(params.MeshScale), float64(params.FlapRate))
	butterfly := renderer.NewButterflyRenderer(mapper)

	cam := camera.New(r3.Vec{X: 0, Y: 3, Z: 5}, r3.Vec{}, 45)
	cam.AutoRate = 0.3
	scene := renderer.NewScene(cam)

	var t float64
	animating := true
	orientation := mesh.Identity()
	held := false

	for !rl.WindowShouldClose() {
		dt := float64(rl.GetFrameTime())
		cam.Update(dt)
		if animating {
			t += dt
		}

		vel := r3.Vec{X: float64(params.VelX), Y: float64(params.VelY), Z: float64(params.VelZ)}
		var ok bool
		orientation, ok = mesh.Orient(vel, orientation)
		held = !ok

		pose := mesh.Pose{
			Orientation: orientation,
			Flap:        mapper.FlapAngle(t, mesh.Coord{}),
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 12, G: 14, B: 20, A: 255})

		scene.Begin()
		scene.DrawGround(10, 1)
		rl.DrawLine3D(rl.NewVector3(0, 0, 0), rl.NewVector3(float32(vel.X), float32(vel.Y), float32(vel.Z)), rl.Red)
		butterfly.Draw(pose)
		scene.End()

		status := "orientation: tracking"
		if held {
			status = "orientation: HELD (degenerate velocity)"
		}
		rl.DrawText(status, 10, 10, 16, rl.LightGray)
		rl.DrawText(fmt.Sprintf("Time: %.1f  Flap: %.2f rad", t, pose.Flap), 10, 30, 16, rl.LightGray)

		// Control panel
		panelX := float32(windowWidth - panelWidth - 10)
		panelY := float32(10)
		rl.DrawText("Flight Direction", int32(panelX), int32(panelY), 20, rl.LightGray)
		panelY += 35

		params.VelX, panelY = slider(panelX, panelY, "Velocity X", params.VelX, -1, 1)
		params.VelY, panelY = slider(panelX, panelY, "Velocity Y", params.VelY, -1, 1)
		params.VelZ, panelY = slider(panelX, panelY, "Velocity Z", params.VelZ, -1, 1)
		panelY += 10

		rl.DrawText("Render", int32(panelX), int32(panelY), 20, rl.LightGray)
		panelY += 35
		scale, nextY := slider(panelX, panelY, "Mesh scale", params.MeshScale, 0.05, 2)
		panelY = nextY
		rate, nextY := slider(panelX, panelY, "Flap rate (rad/s)", params.FlapRate, 0, 40)
		panelY = nextY
		if scale != params.MeshScale || rate != params.FlapRate {
			params.MeshScale, params.FlapRate = scale, rate
			mapper = mesh.NewMapper(float64(scale), float64(rate))
			butterfly = renderer.NewButterflyRenderer(mapper)
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 140, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 150, Y: panelY, Width: 140, Height: 30}, "Reset All") {
			params = defaultParams()
			mapper = mesh.NewMapper(float64(params.MeshScale), float64(params.FlapRate))
			butterfly = renderer.NewButterflyRenderer(mapper)
			orientation = mesh.Identity()
			t = 0
		}
		panelY += 50

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.LightGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.Gray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yamlLines(params) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and returns its value and the next row's Y.
func slider(x, y float32, label string, value, min, max float32) (float32, float32) {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - 70, Height: 20},
		"", "",
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf("%.2f", v), int32(x+panelWidth-60), int32(y+2), 16, rl.LightGray)
	return v, y + 32
}

func yamlLines(p previewParams) []string {
	return []string{
		"render:",
		fmt.Sprintf("  mesh_scale: %.2f", p.MeshScale),
		fmt.Sprintf("  flap_rate: %.1f", p.FlapRate),
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
