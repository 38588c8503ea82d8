package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/ui"
)

var background = rl.Color{R: 12, G: 14, B: 20, A: 255}

const controlsText = "SPACE pause | . step | [ ] speed | R reseed | B default bounds | arrows orbit | +/- zoom | HOME camera"

// Draw renders the scene, HUD and panels. It does nothing in headless mode.
func (g *Game) Draw() {
	if g.headless {
		return
	}
	rl.BeginDrawing()
	rl.ClearBackground(background)

	g.scene.Begin()
	g.scene.DrawGround(40, 2)
	g.scene.DrawBounds(g.grid.Bounds())
	g.drawAgents()
	g.scene.End()

	g.drawUI()

	rl.EndDrawing()
}

// drawAgents renders every agent from its current pose.
func (g *Game) drawAgents() {
	query := g.poseFilter.Query()
	for query.Next() {
		pose := query.Get()
		g.butterflies.Draw(pose.Pose)
	}
}

// drawUI draws the HUD and panels and applies any panel edits.
func (g *Game) drawUI() {
	g.hud.Draw(ui.HUDData{
		Title:   "Flock",
		Agents:  g.grid.Len(),
		Tick:    g.tick,
		SimTime: g.clock.Time(),
		Speed:   g.stepsPerUpdate,
		FPS:     rl.GetFPS(),
		Paused:  g.paused,
		Held:    g.poses.Held(),
	})
	g.statsPanel.Draw(g.lastStats, g.perf.Stats())
	g.hud.DrawControls(g.screenHeight, controlsText)

	bounds, changed, action := g.boundsPanel.Draw(g.grid.Bounds(), g.paused)
	if changed {
		g.setBounds(bounds)
	}
	switch action {
	case ui.ActionTogglePause:
		g.paused = !g.paused
	case ui.ActionReset:
		g.handleReseed()
	case ui.ActionDefaultBounds:
		g.setBounds(ConfigBounds(g.cfg))
	}
}
