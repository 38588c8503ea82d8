package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	Agents  int
	Tick    int32
	SimTime float64
	Speed   int
	FPS     int32
	Paused  bool
	Held    int
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Agents: %d | Held: %d", data.Agents, data.Held),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// StatsPanel renders the most recent telemetry window and perf breakdown.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel. stats may be nil before the first window closes.
func (p *StatsPanel) Draw(stats *telemetry.WindowStats, perf telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	inner := p.width - 2*pad

	r.DrawPanel(p.x, p.y, p.width, 230)
	x := p.x + pad
	y := p.y + pad

	y = r.DrawSectionHeader(x, y, "Swarm")
	if stats == nil {
		rl.DrawText("waiting for first window", x, y, r.Theme.FontSize, rl.Gray)
		y += r.Theme.LineHeight
	} else {
		y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f +/- %.2f (p90 %.2f)", stats.SpeedMean, stats.SpeedStd, stats.SpeedP90))
		y = r.DrawLabelValue(x, y, "Height", fmt.Sprintf("%.2f +/- %.2f", stats.HeightMean, stats.HeightStd))
		y = r.DrawBar(x, y, "Saturated", float32(stats.SaturatedFrac), 0.9, inner)
		y = r.DrawBar(x, y, "Outside", float32(stats.OutsideFrac), 0.5, inner)
	}
	y += 4

	y = r.DrawSectionHeader(x, y, "Performance")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%s (%.0f/s)", perf.AvgTickDuration.Round(time.Microsecond), perf.TicksPerSecond))
	for ph := telemetry.PhaseStep; ph <= telemetry.PhaseTelemetry; ph++ {
		color := rl.LightGray
		if perf.PhasePct[ph] > 50 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", ph, perf.PhaseAvg[ph].Round(time.Microsecond), perf.PhasePct[ph]),
			x, y, r.Theme.FontSize, color,
		)
		y += r.Theme.LineHeight - 2
	}
}
