// Package gesture implements the press-drag-release tracking state machine
// that runs for the duration of one pointer gesture on a color well.
package gesture

import (
	"context"
	"math"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
)

// DragThreshold is how far the pointer may travel on either axis before a
// press turns into a drag. Travel of exactly DragThreshold is still a click.
const DragThreshold = 3.0

// State is the tracker's position in its lifecycle.
type State uint8

const (
	Idle        State = iota // no gesture in progress
	Tracking                 // press seen, waiting for movement or release
	DragStarted              // threshold exceeded, handed off to a drag
	Clicked                  // released without exceeding the threshold
	Cancelled                // aborted by the host
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case DragStarted:
		return "drag-started"
	case Clicked:
		return "clicked"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Terminal reports whether s ends a gesture.
func (s State) Terminal() bool {
	return s == DragStarted || s == Clicked || s == Cancelled
}

// Kind classifies how a gesture ended.
type Kind uint8

const (
	// None means the press landed outside both regions; nothing happened.
	None Kind = iota
	// WheelClick means the release landed in the wheel region.
	WheelClick
	// ColorClick means the release landed in the color region.
	ColorClick
	// ReleasedOutside means the release landed outside both regions.
	ReleasedOutside
	// Drag means the pointer moved past DragThreshold.
	Drag
	// Aborted means the host cancelled the gesture.
	Aborted
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case WheelClick:
		return "wheel-click"
	case ColorClick:
		return "color-click"
	case ReleasedOutside:
		return "released-outside"
	case Drag:
		return "drag"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Outcome describes a finished gesture.
type Outcome struct {
	Kind Kind

	// Region is where the press landed.
	Region geom.Region

	// Exclusive is set for WheelClick: true unless Shift was held at release.
	Exclusive bool

	// Event is the event that ended the gesture. For Drag it is the
	// movement that crossed the threshold.
	Event input.Event
}

// Tracker is the gesture state machine. The zero value is Idle. A Tracker
// is reused across gestures; Begin starts a new one.
type Tracker struct {
	state  State
	bounds geom.Rect
	start  geom.Point
	last   geom.Point
	region geom.Region
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool {
	return t.state == Tracking
}

// Region returns the region the current or last press landed in.
func (t *Tracker) Region() geom.Region {
	return t.region
}

// Start returns where the current or last press landed.
func (t *Tracker) Start() geom.Point {
	return t.start
}

// Last returns the most recent pointer location seen by the tracker.
func (t *Tracker) Last() geom.Point {
	return t.last
}

// Begin starts tracking a press on a well with the given bounds. If the
// press is outside both regions the tracker stays Idle and Begin returns
// false with a None outcome.
func (t *Tracker) Begin(bounds geom.Rect, press input.Event) (Outcome, bool) {
	if t.state == Tracking {
		panic("gesture: Begin called while tracking")
	}
	region := geom.Classify(bounds, press.Point)
	if region == geom.RegionNone {
		t.state = Idle
		t.region = geom.RegionNone
		return Outcome{Kind: None, Event: press}, false
	}
	t.state = Tracking
	t.bounds = bounds
	t.start = press.Point
	t.last = press.Point
	t.region = region
	return Outcome{}, true
}

// Feed advances the machine with one event. It returns the outcome and
// true once the gesture has ended. Events other than movement and release
// are ignored.
func (t *Tracker) Feed(ev input.Event) (Outcome, bool) {
	if t.state != Tracking {
		return Outcome{}, false
	}

	switch ev.Type {
	case input.Moved, input.Dragged:
		t.last = ev.Point
		if exceeds(t.start, ev.Point) {
			t.state = DragStarted
			return Outcome{Kind: Drag, Region: t.region, Event: ev}, true
		}
		return Outcome{}, false

	case input.Released:
		t.last = ev.Point
		t.state = Clicked
		out := Outcome{Region: t.region, Event: ev}
		switch geom.Classify(t.bounds, ev.Point) {
		case geom.RegionWheel:
			out.Kind = WheelClick
			out.Exclusive = !ev.Modifiers.Has(input.ModShift)
		case geom.RegionColor:
			out.Kind = ColorClick
		default:
			out.Kind = ReleasedOutside
		}
		return out, true
	}
	return Outcome{}, false
}

// Cancel aborts a gesture in progress.
func (t *Tracker) Cancel() (Outcome, bool) {
	if t.state != Tracking {
		return Outcome{}, false
	}
	t.state = Cancelled
	return Outcome{Kind: Aborted, Region: t.region}, true
}

func exceeds(start, p geom.Point) bool {
	return math.Abs(p.X-start.X) > DragThreshold || math.Abs(p.Y-start.Y) > DragThreshold
}

// Run pumps events from src into t until the gesture ends. The tracker
// must already be Tracking. Run has no timeout: a source that never
// delivers a release keeps it blocked. If src fails (including ctx being
// done) the gesture is cancelled and the error returned.
func Run(ctx context.Context, t *Tracker, src input.Source) (Outcome, error) {
	for t.Active() {
		ev, err := src.Next(ctx)
		if err != nil {
			out, _ := t.Cancel()
			return out, err
		}
		if out, done := t.Feed(ev); done {
			return out, nil
		}
	}
	return Outcome{}, nil
}
