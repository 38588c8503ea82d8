package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// orbitSpeed is the keyboard orbit rate in radians per second.
const orbitSpeed = 1.2

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Single step while paused
	if rl.IsKeyPressed(rl.KeyPeriod) && g.paused {
		g.stepOnce = true
	}

	// Steps-per-update control with [ and ]
	if rl.IsKeyPressed(rl.KeyLeftBracket) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyR) {
		g.handleReseed()
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.setBounds(ConfigBounds(g.cfg))
	}

	g.handleCameraInput()
}

// handleReseed randomizes the swarm again, logging rather than failing.
func (g *Game) handleReseed() {
	if err := g.reseed(); err != nil {
		slog.Error("failed to reseed swarm", "error", err)
	}
}

// handleResize keeps panel placement in step with the window.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.boundsPanel.SetPosition(float32(w)-270, 10)
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	step := orbitSpeed * float64(rl.GetFrameTime())

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Orbit(step, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Orbit(-step, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Orbit(0, step)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Orbit(0, -step)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
