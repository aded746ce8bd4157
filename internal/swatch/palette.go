package swatch

import (
	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
	"github.com/phinze/colorwell/internal/rgba"
)

// Layout controls how a palette arranges its children.
type Layout struct {
	Columns        int
	Cell           float64 // swatch edge length
	Gap            float64 // space between children
	Padding        float64 // space around the content
	GradientHeight float64
}

// DefaultLayout matches the stock popover: 8 columns of 18pt swatches.
var DefaultLayout = Layout{
	Columns:        8,
	Cell:           18,
	Gap:            4,
	Padding:        8,
	GradientHeight: 18,
}

// GradientSpec describes one gradient strip.
type GradientSpec struct {
	Left, Right rgba.Color
}

// Palette is the popover content view. It owns its swatches and
// gradients and routes each gesture to the child under the press.
type Palette struct {
	size      geom.Rect
	swatches  []*Swatch
	gradients []*Gradient
	active    Child
	cb        Callbacks
}

// NewPalette lays out swatches in a grid followed by full-width gradient
// strips, one per row.
func NewPalette(layout Layout, colors []rgba.Color, gradients []GradientSpec, cb Callbacks) *Palette {
	if layout.Columns <= 0 {
		layout.Columns = 1
	}
	p := &Palette{cb: cb}

	cols := layout.Columns
	if len(colors) > 0 && len(colors) < cols {
		cols = len(colors)
	}
	contentW := float64(cols)*layout.Cell + float64(cols-1)*layout.Gap
	y := layout.Padding

	for i, c := range colors {
		row, col := i/layout.Columns, i%layout.Columns
		frame := geom.R(
			layout.Padding+float64(col)*(layout.Cell+layout.Gap),
			layout.Padding+float64(row)*(layout.Cell+layout.Gap),
			layout.Cell, layout.Cell,
		)
		p.swatches = append(p.swatches, NewSwatch(c, frame, cb))
	}
	if n := len(colors); n > 0 {
		rows := (n + layout.Columns - 1) / layout.Columns
		y += float64(rows) * (layout.Cell + layout.Gap)
	}

	for _, spec := range gradients {
		frame := geom.R(layout.Padding, y, contentW, layout.GradientHeight)
		p.gradients = append(p.gradients, NewGradient(spec.Left, spec.Right, frame, cb))
		y += layout.GradientHeight + layout.Gap
	}

	if len(colors) > 0 || len(gradients) > 0 {
		y -= layout.Gap
	}
	p.size = geom.R(0, 0, contentW+2*layout.Padding, y+layout.Padding)
	return p
}

// Bounds returns the content frame, origin at zero.
func (p *Palette) Bounds() geom.Rect {
	return p.size
}

// Swatches returns the fixed-color children in layout order.
func (p *Palette) Swatches() []*Swatch {
	return p.swatches
}

// Gradients returns the gradient children in layout order.
func (p *Palette) Gradients() []*Gradient {
	return p.gradients
}

// Tracking reports whether a child gesture is in progress.
func (p *Palette) Tracking() bool {
	return p.active != nil
}

// ChildAt returns the child containing pt, or nil.
func (p *Palette) ChildAt(pt geom.Point) Child {
	for _, s := range p.swatches {
		if s.Bounds().Contains(pt) {
			return s
		}
	}
	for _, g := range p.gradients {
		if g.Bounds().Contains(pt) {
			return g
		}
	}
	return nil
}

// HandleEvent drives the palette without blocking. A press on a child
// starts its gesture; later events go to that child until it reports the
// gesture ended, at which point HandleEvent returns true. Presses on the
// background and events outside a gesture are ignored.
func (p *Palette) HandleEvent(ev input.Event) bool {
	if p.active != nil {
		if p.active.Feed(ev) {
			p.active = nil
			return true
		}
		return false
	}
	if ev.Type != input.Pressed {
		return false
	}
	child := p.ChildAt(ev.Point)
	if child == nil {
		return false
	}
	p.active = child
	child.Press(ev)
	return false
}

// Cancel abandons the child gesture in progress, if any, without
// committing or closing.
func (p *Palette) Cancel() {
	if p.active == nil {
		return
	}
	child := p.active
	p.active = nil
	child.Cancel()
}
