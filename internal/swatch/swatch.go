// Package swatch implements the popover content: fixed-color swatches and
// two-color gradient strips that commit a color back to the owning well.
package swatch

import (
	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
	"github.com/phinze/colorwell/internal/rgba"
)

// Callbacks connect popover content to the well that opened it. They are
// handed to every child at construction; children never see the well.
type Callbacks struct {
	// Select receives a committed color.
	Select func(rgba.Color)

	// Close asks for the popover to be dismissed.
	Close func()

	// Repaint asks for the popover content to be redrawn.
	Repaint func()
}

func (cb Callbacks) selectColor(c rgba.Color) {
	if cb.Select != nil {
		cb.Select(c)
	}
}

func (cb Callbacks) close() {
	if cb.Close != nil {
		cb.Close()
	}
}

func (cb Callbacks) repaint() {
	if cb.Repaint != nil {
		cb.Repaint()
	}
}

// Child is a pressable element of a palette.
type Child interface {
	Bounds() geom.Rect
	Tracking() bool

	// Press starts a gesture. The press is assumed to be inside Bounds.
	Press(ev input.Event)

	// Feed delivers a subsequent event and reports whether the gesture
	// ended. When it ends the child has already committed and closed.
	Feed(ev input.Event) bool

	// Cancel abandons a gesture without committing or closing.
	Cancel()
}

// Swatch is a single fixed color.
type Swatch struct {
	color    rgba.Color
	bounds   geom.Rect
	tracking bool
	pressed  bool
	cb       Callbacks
}

// NewSwatch creates a swatch showing c inside bounds.
func NewSwatch(c rgba.Color, bounds geom.Rect, cb Callbacks) *Swatch {
	return &Swatch{color: c, bounds: bounds, cb: cb}
}

// Color returns the swatch's fixed color.
func (s *Swatch) Color() rgba.Color {
	return s.color
}

// Bounds returns the swatch frame in palette coordinates.
func (s *Swatch) Bounds() geom.Rect {
	return s.bounds
}

// Tracking reports whether the pointer is pressed and inside the swatch.
func (s *Swatch) Tracking() bool {
	return s.tracking
}

// Press starts tracking.
func (s *Swatch) Press(ev input.Event) {
	s.pressed = true
	s.tracking = true
	s.cb.repaint()
}

// Cancel abandons a gesture in progress.
func (s *Swatch) Cancel() {
	if !s.pressed {
		return
	}
	s.pressed = false
	s.tracking = false
	s.cb.repaint()
}

// Feed follows the pointer until release. A release while tracking
// commits the swatch color; the popover is closed either way.
func (s *Swatch) Feed(ev input.Event) bool {
	if !s.pressed {
		return false
	}
	switch ev.Type {
	case input.Moved, input.Dragged, input.Released:
	default:
		return false
	}

	inside := s.bounds.Contains(ev.Point)
	if inside != s.tracking {
		s.tracking = inside
		s.cb.repaint()
	}
	if ev.Type != input.Released {
		return false
	}

	committed := s.tracking
	s.pressed = false
	s.tracking = false
	s.cb.repaint()
	if committed {
		s.cb.selectColor(s.color)
	}
	s.cb.close()
	return true
}
