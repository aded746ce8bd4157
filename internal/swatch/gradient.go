package swatch

import (
	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
	"github.com/phinze/colorwell/internal/rgba"
)

// Gradient is a strip blending linearly from Left to Right across its width.
type Gradient struct {
	Left, Right rgba.Color

	bounds   geom.Rect
	pressed  bool
	tracking bool
	offset   float64
	tracked  rgba.Color
	cb       Callbacks
}

// NewGradient creates a gradient strip inside bounds.
func NewGradient(left, right rgba.Color, bounds geom.Rect, cb Callbacks) *Gradient {
	return &Gradient{Left: left, Right: right, bounds: bounds, cb: cb}
}

// Bounds returns the strip frame in palette coordinates.
func (g *Gradient) Bounds() geom.Rect {
	return g.bounds
}

// Tracking reports whether the pointer is pressed and inside the strip.
func (g *Gradient) Tracking() bool {
	return g.tracking
}

// Offset returns the x position of the indicator line. Only meaningful
// while Tracking.
func (g *Gradient) Offset() float64 {
	return g.offset
}

// Tracked returns the color under the pointer during a gesture.
func (g *Gradient) Tracked() rgba.Color {
	return g.tracked
}

// Interpolate returns the color at delta, clamped to [0, 1], along the strip.
func (g *Gradient) Interpolate(delta float64) rgba.Color {
	return rgba.Lerp(g.Left, g.Right, geom.Clamp01(delta))
}

// Delta maps an x coordinate to a position along the strip in [0, 1].
func (g *Gradient) Delta(x float64) float64 {
	if g.bounds.W <= 0 {
		return 0
	}
	return geom.Clamp01((x - g.bounds.X) / g.bounds.W)
}

// Press starts tracking and samples the color under the press.
func (g *Gradient) Press(ev input.Event) {
	g.pressed = true
	g.tracking = true
	g.sample(ev.Point)
	g.cb.repaint()
}

// Feed follows the pointer, resampling on every event, until release. A
// release while tracking commits the last sampled color; the popover is
// closed either way.
func (g *Gradient) Feed(ev input.Event) bool {
	if !g.pressed {
		return false
	}
	switch ev.Type {
	case input.Moved, input.Dragged, input.Released:
	default:
		return false
	}

	g.sample(ev.Point)
	g.tracking = g.bounds.Contains(ev.Point)
	g.cb.repaint()
	if ev.Type != input.Released {
		return false
	}

	committed := g.tracking
	g.pressed = false
	g.tracking = false
	g.cb.repaint()
	if committed {
		g.cb.selectColor(g.tracked)
	}
	g.cb.close()
	return true
}

// Cancel abandons a gesture in progress.
func (g *Gradient) Cancel() {
	if !g.pressed {
		return
	}
	g.pressed = false
	g.tracking = false
	g.cb.repaint()
}

func (g *Gradient) sample(p geom.Point) {
	g.tracked = g.Interpolate(g.Delta(p.X))
	g.offset = p.X
}
