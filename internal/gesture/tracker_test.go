package gesture

import (
	"context"
	"errors"
	"testing"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
)

// A 100x20 well: color region is x in [0, 69.69], wheel is the rest.
var bounds = geom.R(0, 0, 100, 20)

func begin(t *testing.T, x, y float64) *Tracker {
	t.Helper()
	tr := &Tracker{}
	if _, ok := tr.Begin(bounds, input.Press(x, y)); !ok {
		t.Fatalf("Begin(%v, %v) did not start tracking", x, y)
	}
	return tr
}

func TestBeginOutsideRegions(t *testing.T) {
	tr := &Tracker{}
	out, ok := tr.Begin(bounds, input.Press(150, 10))
	if ok {
		t.Fatal("Begin outside the well should not start tracking")
	}
	if out.Kind != None || tr.State() != Idle {
		t.Errorf("outcome = %v, state = %v; want none, idle", out.Kind, tr.State())
	}
}

func TestBeginRecordsRegion(t *testing.T) {
	if got := begin(t, 10, 10).Region(); got != geom.RegionColor {
		t.Errorf("press in color region: Region() = %v", got)
	}
	if got := begin(t, 90, 10).Region(); got != geom.RegionWheel {
		t.Errorf("press in wheel region: Region() = %v", got)
	}
}

func TestDragThresholdBoundary(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		drag   bool
	}{
		{"no movement", 0, 0, false},
		{"exactly threshold in x", 3.0, 0, false},
		{"exactly threshold in y", 0, -3.0, false},
		{"just past threshold in x", 3.01, 0, true},
		{"just past threshold in y", 0, 3.01, true},
		{"negative x past threshold", -3.01, 0, true},
		{"diagonal under threshold on both axes", 2.9, 2.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := begin(t, 30, 10)
			out, done := tr.Feed(input.Drag(30+tt.dx, 10+tt.dy))
			if done != tt.drag {
				t.Fatalf("Feed done = %v, want %v", done, tt.drag)
			}
			if tt.drag && (out.Kind != Drag || tr.State() != DragStarted) {
				t.Errorf("outcome = %v, state = %v; want drag, drag-started", out.Kind, tr.State())
			}
			if !tt.drag && tr.State() != Tracking {
				t.Errorf("state = %v, want tracking", tr.State())
			}
		})
	}
}

func TestMovedCountsAsMovement(t *testing.T) {
	tr := begin(t, 30, 10)
	out, done := tr.Feed(input.Move(40, 10))
	if !done || out.Kind != Drag {
		t.Errorf("Moved past threshold: done = %v, kind = %v", done, out.Kind)
	}
	if out.Event.Point != geom.Pt(40, 10) {
		t.Errorf("drag outcome carries %v, want triggering event", out.Event.Point)
	}
}

func TestReleaseClassification(t *testing.T) {
	tests := []struct {
		name      string
		pressX    float64
		release   input.Event
		kind      Kind
		exclusive bool
	}{
		{"wheel click", 90, input.Release(90, 10), WheelClick, true},
		{"wheel click with shift", 90, input.Event{Type: input.Released, Point: geom.Pt(90, 10), Modifiers: input.ModShift}, WheelClick, false},
		{"wheel click with ctrl only", 90, input.Event{Type: input.Released, Point: geom.Pt(90, 10), Modifiers: input.ModCtrl}, WheelClick, true},
		{"color click", 30, input.Release(30, 10), ColorClick, false},
		{"press color release wheel", 68, input.Release(71, 10), WheelClick, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := begin(t, tt.pressX, 10)
			out, done := tr.Feed(tt.release)
			if !done {
				t.Fatal("release did not end the gesture")
			}
			if out.Kind != tt.kind || out.Exclusive != tt.exclusive {
				t.Errorf("outcome = %v exclusive=%v, want %v exclusive=%v", out.Kind, out.Exclusive, tt.kind, tt.exclusive)
			}
			if tr.State() != Clicked {
				t.Errorf("state = %v, want clicked", tr.State())
			}
		})
	}
}

func TestReleaseOutsideWithoutDrag(t *testing.T) {
	// A release outside the well needs no intermediate movement when the
	// press was already near the edge.
	tr := begin(t, 99, 19)
	out, done := tr.Feed(input.Release(101, 21))
	if !done || out.Kind != ReleasedOutside {
		t.Errorf("outcome = %v (done=%v), want released-outside", out.Kind, done)
	}
}

func TestIgnoresUnrelatedEvents(t *testing.T) {
	tr := begin(t, 30, 10)
	for _, ev := range []input.Event{
		input.Key(input.KeyEscape),
		{Type: input.Tick},
		{Type: input.DragEntered},
		{Type: input.Entered, Point: geom.Pt(500, 500)},
		{Type: input.Pressed, Point: geom.Pt(500, 500)},
	} {
		if _, done := tr.Feed(ev); done {
			t.Fatalf("Feed(%v) ended the gesture", ev)
		}
	}
	if tr.State() != Tracking {
		t.Errorf("state = %v, want tracking", tr.State())
	}
}

func TestFeedWhenIdle(t *testing.T) {
	tr := &Tracker{}
	if _, done := tr.Feed(input.Release(10, 10)); done {
		t.Error("idle tracker should ignore events")
	}
}

func TestRunUntilRelease(t *testing.T) {
	tr := begin(t, 90, 10)
	src := input.NewScript(
		input.Key(input.KeyEscape),
		input.Drag(91, 11),
		input.Release(91, 11),
		input.Move(0, 0),
	)
	out, err := Run(context.Background(), tr, src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Kind != WheelClick || !out.Exclusive {
		t.Errorf("outcome = %+v, want exclusive wheel click", out)
	}
	if src.Remaining() != 1 {
		t.Errorf("Run consumed past the release: %d left, want 1", src.Remaining())
	}
}

func TestRunStopsAtDrag(t *testing.T) {
	tr := begin(t, 30, 10)
	src := input.NewScript(input.Drag(35, 10), input.Release(35, 10))
	out, err := Run(context.Background(), tr, src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Kind != Drag {
		t.Errorf("outcome = %v, want drag", out.Kind)
	}
	if src.Remaining() != 1 {
		t.Errorf("release should be left for the drag session, %d left", src.Remaining())
	}
}

func TestRunSourceFailureCancels(t *testing.T) {
	tr := begin(t, 30, 10)
	out, err := Run(context.Background(), tr, input.NewScript())
	if !errors.Is(err, input.ErrExhausted) {
		t.Fatalf("Run error = %v, want ErrExhausted", err)
	}
	if out.Kind != Aborted || tr.State() != Cancelled {
		t.Errorf("outcome = %v, state = %v; want aborted, cancelled", out.Kind, tr.State())
	}
}

func TestTrackerReusable(t *testing.T) {
	tr := begin(t, 30, 10)
	tr.Feed(input.Release(30, 10))
	if _, ok := tr.Begin(bounds, input.Press(90, 10)); !ok {
		t.Fatal("second Begin failed")
	}
	if tr.Region() != geom.RegionWheel {
		t.Errorf("Region() = %v after second press", tr.Region())
	}
}
