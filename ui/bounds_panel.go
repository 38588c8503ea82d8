package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/swarm"
)

// PanelAction is a button press reported by BoundsPanel.
type PanelAction int

const (
	ActionNone PanelAction = iota
	ActionTogglePause
	ActionReset
	ActionDefaultBounds
)

// minSpan keeps each bounds interval from collapsing under the sliders.
const minSpan = 1.0

// BoundsPanel edits the swarm's steering box with raygui sliders.
type BoundsPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
	limit    float64 // sliders range over [-limit, limit], widened to the current value
}

// NewBoundsPanel creates a bounds panel whose sliders span [-limit, limit].
func NewBoundsPanel(x, y, width float32, limit float64) *BoundsPanel {
	return &BoundsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		limit:    limit,
	}
}

// SetPosition updates the panel position.
func (p *BoundsPanel) SetPosition(x, y float32) {
	p.x = x
	p.y = y
}

// Draw renders the panel for the current bounds and returns the edited
// bounds, whether they changed, and any button pressed this frame.
func (p *BoundsPanel) Draw(b swarm.Bounds, paused bool) (swarm.Bounds, bool, PanelAction) {
	r := p.renderer
	pad := float32(r.Theme.Padding)

	r.DrawPanel(int32(p.x), int32(p.y), int32(p.width), 250)
	x := p.x + pad
	y := float32(r.DrawSectionHeader(int32(x), int32(p.y+pad), "Bounds"))

	out := b
	out.X.Min, y = p.slider(x, y, "Min X", b.X.Min)
	out.X.Max, y = p.slider(x, y, "Max X", b.X.Max)
	out.Z.Min, y = p.slider(x, y, "Min Z", b.Z.Min)
	out.Z.Max, y = p.slider(x, y, "Max Z", b.Z.Max)

	// A dragged limit pushes its partner rather than inverting the interval.
	out.X = keepSpan(out.X, b.X)
	out.Z = keepSpan(out.Z, b.Z)
	changed := out != b

	action := ActionNone
	y += 6
	half := (p.width - 2*pad - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, toggleText(paused, "Resume", "Pause")) {
		action = ActionTogglePause
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 26}, "Reseed") {
		action = ActionReset
	}
	y += 32
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: p.width - 2*pad, Height: 26}, "Default Bounds") {
		action = ActionDefaultBounds
	}

	return out, changed, action
}

// slider draws one labelled slider and returns its value and the next row's Y.
func (p *BoundsPanel) slider(x, y float32, label string, value float64) (float64, float32) {
	r := p.renderer
	rl.DrawText(label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 16

	w := p.width - 2*float32(r.Theme.Padding) - 60
	lo, hi := sliderRange(value, p.limit)
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w, Height: 16},
		"", "",
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf("%.1f", v), int32(x+w+8), int32(y), r.Theme.FontSize, r.Theme.ValueColor)

	if v == float32(value) {
		return value, y + 22
	}
	return float64(v), y + 22
}

// sliderRange widens [-limit, limit] to include value. raygui clamps the
// slider value to its range every frame, so a limit set outside it would
// otherwise be rewritten without any input.
func sliderRange(value, limit float64) (lo, hi float64) {
	return math.Min(-limit, value), math.Max(limit, value)
}

// keepSpan resolves an interval whose limits crossed after editing.
func keepSpan(next, prev swarm.Interval) swarm.Interval {
	if next.Max-next.Min >= minSpan {
		return next
	}
	if next.Min != prev.Min {
		next.Max = next.Min + minSpan
	} else {
		next.Min = next.Max - minSpan
	}
	return next
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
