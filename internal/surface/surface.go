// Package surface defines the drawing and input surfaces the color wells run
// on: a Stream Deck touch strip, an emulator window, or an in-memory surface.
package surface

import (
	"image"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
)

// Surface is the interface that abstracts where wells are drawn and where
// their input comes from. Hardware, the emulator and the in-memory surface
// all implement it.
type Surface interface {
	// Lifecycle
	Open() error
	Close() error
	IsOpen() bool

	// Surface info
	Name() string
	Bounds() image.Rectangle

	// Present replaces the displayed image.
	Present(img image.Image) error

	// Events returns the input stream in surface coordinates.
	Events() input.Source

	// Listen runs the surface's own event loop until it closes or fails.
	Listen(errCh chan error) error
}

// swipeSteps is how many intermediate drag events a swipe expands into.
const swipeSteps = 4

// TapEvents expands a touch strip tap into a press and release.
func TapEvents(p image.Point, mods input.Modifiers) []input.Event {
	return input.Click(float64(p.X), float64(p.Y), mods)
}

// SwipeEvents expands a touch strip swipe into a press at origin, a few
// drag events along the way and a release at destination.
func SwipeEvents(origin, destination image.Point, mods input.Modifiers) []input.Event {
	events := input.DragPath(
		geom.Pt(float64(origin.X), float64(origin.Y)),
		geom.Pt(float64(destination.X), float64(destination.Y)),
		swipeSteps,
	)
	for i := range events {
		events[i].Modifiers = mods
	}
	return events
}

// Pointer turns polled mouse state into pointer events. Hosts that sample
// the mouse each frame feed it through Update.
type Pointer struct {
	last     geom.Point
	down     bool
	captured bool

	// hovering is set between the Entered and Exited it reported.
	hovering bool
}

// Update compares the new mouse state with the previous one and returns
// the events describing the change. A press that starts inside the surface
// captures the pointer until release, so drags may leave the surface and
// Exited is held back until the release.
func (p *Pointer) Update(at geom.Point, down, inside bool, mods input.Modifiers) []input.Event {
	var events []input.Event
	emit := func(t input.EventType) {
		events = append(events, input.Event{Type: t, Point: at, Modifiers: mods})
	}

	if inside && !p.hovering {
		p.hovering = true
		emit(input.Entered)
	}

	switch {
	case down && !p.down:
		if inside {
			p.captured = true
			emit(input.Pressed)
		}
	case down && p.down:
		if p.captured && at != p.last {
			emit(input.Dragged)
		}
	case !down && p.down:
		if p.captured {
			p.captured = false
			emit(input.Released)
		}
	default:
		if inside && at != p.last {
			emit(input.Moved)
		}
	}

	if !inside && p.hovering && !p.captured {
		p.hovering = false
		emit(input.Exited)
	}

	p.last = at
	p.down = down
	return events
}
