package popover

import (
	"testing"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
)

// fakeContent records what the controller delivers to it.
type fakeContent struct {
	size     geom.Rect
	tracking bool
	got      []input.Event
	cancels  int
}

func (f *fakeContent) Bounds() geom.Rect { return f.size }
func (f *fakeContent) Tracking() bool    { return f.tracking }

func (f *fakeContent) Cancel() {
	f.cancels++
	f.tracking = false
}

func (f *fakeContent) HandleEvent(ev input.Event) bool {
	f.got = append(f.got, ev)
	switch ev.Type {
	case input.Pressed:
		f.tracking = true
	case input.Released:
		f.tracking = false
		return true
	}
	return false
}

func newTestController() (*Controller, *fakeContent, *int) {
	content := &fakeContent{size: geom.R(0, 0, 100, 50)}
	builds := 0
	c := NewController(func() Content {
		builds++
		return content
	})
	return c, content, &builds
}

func TestControllerBuildsLazily(t *testing.T) {
	c, content, builds := newTestController()
	if c.Content() != nil || *builds != 0 {
		t.Fatal("content built before first Show")
	}

	c.Show(geom.R(0, 0, 70, 30), EdgeBottom)
	c.Close()
	c.Show(geom.R(10, 0, 70, 30), EdgeBottom)

	if *builds != 1 {
		t.Errorf("builds = %d, want 1", *builds)
	}
	if c.Content() != content {
		t.Error("Content() did not return the built content")
	}
}

func TestControllerShowCloseIdempotent(t *testing.T) {
	c, _, _ := newTestController()
	var changes []bool
	c.OnChange = func(shown bool) { changes = append(changes, shown) }

	anchor := geom.R(0, 0, 70, 30)
	c.Show(anchor, EdgeBottom)
	c.Show(anchor, EdgeBottom)
	c.Show(anchor.Offset(geom.Pt(5, 0)), EdgeBottom)
	c.Close()
	c.Close()

	want := []bool{true, true, false}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %v, want %v", i, changes[i], want[i])
		}
	}
	if a, _ := c.Anchor(); a != anchor.Offset(geom.Pt(5, 0)) {
		t.Errorf("Anchor() = %v, want the re-anchored rect", a)
	}
}

func TestControllerTransientClose(t *testing.T) {
	c, content, _ := newTestController()
	c.Show(geom.R(0, 0, 100, 20), EdgeBottom)
	frame, _ := c.Frame()

	if !c.HandleEvent(input.Press(frame.X+frame.W+10, frame.Y)) {
		t.Error("outside press was not consumed")
	}
	if c.Shown() {
		t.Error("outside press did not close the popover")
	}
	if len(content.got) != 0 {
		t.Errorf("content received %v", content.got)
	}
	if c.HandleEvent(input.Press(1, 1)) {
		t.Error("hidden popover consumed an event")
	}
}

func TestControllerEscape(t *testing.T) {
	c, _, _ := newTestController()
	c.Show(geom.R(0, 0, 100, 20), EdgeBottom)

	if c.HandleEvent(input.Key("a")) {
		t.Error("ordinary key consumed")
	}
	if !c.HandleEvent(input.Key(input.KeyEscape)) || c.Shown() {
		t.Error("Escape did not close the popover")
	}
}

func TestControllerRoutesInContentCoordinates(t *testing.T) {
	c, content, _ := newTestController()
	c.Show(geom.R(0, 0, 100, 20), EdgeBottom)
	frame, _ := c.Frame()

	c.HandleEvent(input.Press(frame.X+10, frame.Y+5))
	// outside while tracking still goes to the content
	c.HandleEvent(input.Drag(frame.X+200, frame.Y+5))
	c.HandleEvent(input.Release(frame.X+200, frame.Y+5))

	if len(content.got) != 3 {
		t.Fatalf("content got %d events, want 3", len(content.got))
	}
	if p := content.got[0].Point; p != geom.Pt(10, 5) {
		t.Errorf("press delivered at %v, want (10, 5)", p)
	}
	if p := content.got[1].Point; p != geom.Pt(200, 5) {
		t.Errorf("drag delivered at %v, want (200, 5)", p)
	}
	if !c.Shown() {
		t.Error("controller closed itself; only the content closes after a gesture")
	}

	// hover outside with no gesture passes through
	if c.HandleEvent(input.Move(frame.X+300, frame.Y)) {
		t.Error("outside move consumed while idle")
	}
}

func TestControllerKeysIgnoredWhileTracking(t *testing.T) {
	c, content, _ := newTestController()
	c.Show(geom.R(0, 0, 100, 20), EdgeBottom)
	frame, _ := c.Frame()

	c.HandleEvent(input.Press(frame.X+10, frame.Y+5))
	for _, key := range []string{input.KeyEscape, "a"} {
		if !c.HandleEvent(input.Key(key)) {
			t.Errorf("key %q not swallowed during a gesture", key)
		}
	}
	if !c.Shown() {
		t.Fatal("Escape closed the popover in the middle of a gesture")
	}
	if !content.tracking || content.cancels != 0 {
		t.Errorf("gesture disturbed: tracking = %v, cancels = %d", content.tracking, content.cancels)
	}
	for _, ev := range content.got {
		if ev.Type == input.KeyPressed {
			t.Errorf("content received key event %v", ev)
		}
	}

	c.HandleEvent(input.Release(frame.X+10, frame.Y+5))
	if !c.HandleEvent(input.Key(input.KeyEscape)) || c.Shown() {
		t.Error("Escape after the gesture did not close the popover")
	}
}

func TestControllerCloseCancelsGesture(t *testing.T) {
	c, content, _ := newTestController()
	c.Show(geom.R(0, 0, 100, 20), EdgeBottom)
	frame, _ := c.Frame()

	c.HandleEvent(input.Press(frame.X+10, frame.Y+5))
	c.Close()
	if content.cancels != 1 || content.tracking {
		t.Fatalf("Close left the gesture running: cancels = %d, tracking = %v", content.cancels, content.tracking)
	}

	// Reopened, an outside press is a transient dismissal again.
	c.Show(geom.R(0, 0, 100, 20), EdgeBottom)
	if c.HandleEvent(input.Move(frame.X+300, frame.Y)) {
		t.Error("outside move consumed after reopening")
	}
	if !c.HandleEvent(input.Press(frame.X+300, frame.Y)) || c.Shown() {
		t.Error("outside press did not dismiss the reopened popover")
	}
	if content.cancels != 1 {
		t.Errorf("idle close cancelled again: cancels = %d", content.cancels)
	}
}
