// Package input defines the pointer and keyboard events a color well
// consumes and the sources that deliver them.
package input

import (
	"fmt"
	"time"

	"github.com/phinze/colorwell/internal/geom"
)

// EventType indicates what kind of interaction occurred.
type EventType uint8

const (
	// Moved indicates the pointer moved with no button held.
	Moved EventType = iota + 1
	// Entered indicates the pointer entered the surface.
	Entered
	// Exited indicates the pointer left the surface.
	Exited
	// Pressed indicates the primary button went down.
	Pressed
	// Dragged indicates the pointer moved with the button held.
	Dragged
	// Released indicates the primary button went up.
	Released
	// KeyPressed indicates a key was pressed. Key holds its name.
	KeyPressed
	// DragEntered indicates a dragged color entered a drop target.
	DragEntered
	// DragExited indicates a dragged color left a drop target.
	DragExited
	// PrepareForDrop indicates a dragged color is about to be dropped.
	PrepareForDrop
	// Tick is a periodic animation heartbeat produced by hosts.
	Tick
)

var eventTypeNames = map[EventType]string{
	Moved:          "moved",
	Entered:        "entered",
	Exited:         "exited",
	Pressed:        "pressed",
	Dragged:        "dragged",
	Released:       "released",
	KeyPressed:     "key",
	DragEntered:    "drag-entered",
	DragExited:     "drag-exited",
	PrepareForDrop: "prepare-for-drop",
	Tick:           "tick",
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// IsPointer reports whether t carries a meaningful pointer location.
func (t EventType) IsPointer() bool {
	switch t {
	case Moved, Entered, Exited, Pressed, Dragged, Released:
		return true
	}
	return false
}

// Modifiers is a bitmask of keyboard modifier keys held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota // Shift key
	ModCtrl                        // Control key
	ModAlt                         // Alt / Option key
	ModMeta                        // Meta / Command key
)

// Has reports whether every modifier in m is held.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// Key names delivered with KeyPressed events.
const (
	KeyEscape = "Escape"
)

// Event is a single input event in some coordinate space. Hosts deliver
// surface coordinates; Translate maps them into widget-local space.
type Event struct {
	Type      EventType
	Point     geom.Point
	Modifiers Modifiers

	// Key is the key name for KeyPressed events.
	Key string

	// Time is when the host observed the event. Zero for synthetic events.
	Time time.Time
}

func (e Event) String() string {
	if e.Type == KeyPressed {
		return fmt.Sprintf("%s %s", e.Type, e.Key)
	}
	return fmt.Sprintf("%s (%.1f, %.1f)", e.Type, e.Point.X, e.Point.Y)
}

// At returns a copy of e at point p.
func (e Event) At(p geom.Point) Event {
	e.Point = p
	return e
}

// Press returns a Pressed event at (x, y).
func Press(x, y float64) Event {
	return Event{Type: Pressed, Point: geom.Pt(x, y)}
}

// Drag returns a Dragged event at (x, y).
func Drag(x, y float64) Event {
	return Event{Type: Dragged, Point: geom.Pt(x, y)}
}

// Release returns a Released event at (x, y).
func Release(x, y float64) Event {
	return Event{Type: Released, Point: geom.Pt(x, y)}
}

// Move returns a Moved event at (x, y).
func Move(x, y float64) Event {
	return Event{Type: Moved, Point: geom.Pt(x, y)}
}

// Key returns a KeyPressed event for the named key.
func Key(name string) Event {
	return Event{Type: KeyPressed, Key: name}
}
