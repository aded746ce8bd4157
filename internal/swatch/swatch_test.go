package swatch

import (
	"math"
	"testing"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
	"github.com/phinze/colorwell/internal/rgba"
)

// recorder captures callback traffic from popover content.
type recorder struct {
	selected []rgba.Color
	closes   int
	repaints int
	order    []string
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		Select: func(c rgba.Color) {
			r.selected = append(r.selected, c)
			r.order = append(r.order, "select")
		},
		Close: func() {
			r.closes++
			r.order = append(r.order, "close")
		},
		Repaint: func() { r.repaints++ },
	}
}

func closeTo(a, b rgba.Color) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

func TestSwatchCommitsOnReleaseInside(t *testing.T) {
	rec := &recorder{}
	s := NewSwatch(rgba.Red, geom.R(10, 10, 18, 18), rec.callbacks())

	s.Press(input.Press(15, 15))
	if !s.Tracking() {
		t.Fatal("swatch should track after press")
	}
	if done := s.Feed(input.Drag(20, 20)); done {
		t.Fatal("drag ended the gesture")
	}
	if done := s.Feed(input.Release(20, 20)); !done {
		t.Fatal("release did not end the gesture")
	}

	if len(rec.selected) != 1 || rec.selected[0] != rgba.Red {
		t.Errorf("selected = %v, want [red]", rec.selected)
	}
	if rec.closes != 1 {
		t.Errorf("closes = %d, want 1", rec.closes)
	}
	if len(rec.order) != 2 || rec.order[0] != "select" || rec.order[1] != "close" {
		t.Errorf("callback order = %v, want [select close]", rec.order)
	}
	if s.Tracking() {
		t.Error("swatch still tracking after release")
	}
}

func TestSwatchReleaseOutsideClosesWithoutCommit(t *testing.T) {
	rec := &recorder{}
	s := NewSwatch(rgba.Red, geom.R(10, 10, 18, 18), rec.callbacks())

	s.Press(input.Press(15, 15))
	s.Feed(input.Drag(50, 50))
	if s.Tracking() {
		t.Error("swatch should stop tracking once the pointer leaves")
	}
	s.Feed(input.Release(50, 50))

	if len(rec.selected) != 0 {
		t.Errorf("selected = %v, want none", rec.selected)
	}
	if rec.closes != 1 {
		t.Errorf("closes = %d, want 1 even without a commit", rec.closes)
	}
}

func TestSwatchReentryResumesTracking(t *testing.T) {
	rec := &recorder{}
	s := NewSwatch(rgba.Blue, geom.R(0, 0, 10, 10), rec.callbacks())

	s.Press(input.Press(5, 5))
	s.Feed(input.Drag(20, 5))
	s.Feed(input.Drag(6, 6))
	if !s.Tracking() {
		t.Fatal("swatch should resume tracking when the pointer returns")
	}
	s.Feed(input.Release(6, 6))
	if len(rec.selected) != 1 {
		t.Errorf("selected = %v, want one commit", rec.selected)
	}
}

func TestSwatchIgnoresKeys(t *testing.T) {
	rec := &recorder{}
	s := NewSwatch(rgba.Blue, geom.R(0, 0, 10, 10), rec.callbacks())
	s.Press(input.Press(5, 5))
	if s.Feed(input.Key(input.KeyEscape)) {
		t.Error("key event ended the gesture")
	}
}

func TestGradientInterpolate(t *testing.T) {
	g := NewGradient(rgba.Red, rgba.Blue, geom.R(0, 0, 100, 18), Callbacks{})

	if got := g.Interpolate(0); got != rgba.Red {
		t.Errorf("Interpolate(0) = %v, want left", got)
	}
	if got := g.Interpolate(1); got != rgba.Blue {
		t.Errorf("Interpolate(1) = %v, want right", got)
	}
	if got := g.Interpolate(-0.5); got != rgba.Red {
		t.Errorf("Interpolate(-0.5) = %v, want clamped to left", got)
	}
	for i := 0; i <= 20; i++ {
		c := g.Interpolate(float64(i) / 20)
		if c.R < 0 || c.R > 1 || c.B < 0 || c.B > 1 || c.G != 0 || c.A != 1 {
			t.Errorf("Interpolate(%v) = %v outside endpoints", float64(i)/20, c)
		}
	}
}

func TestGradientDelta(t *testing.T) {
	g := NewGradient(rgba.Black, rgba.White, geom.R(20, 0, 200, 18), Callbacks{})
	tests := []struct{ x, want float64 }{
		{20, 0}, {120, 0.5}, {220, 1}, {0, 0}, {400, 1},
	}
	for _, tt := range tests {
		if got := g.Delta(tt.x); got != tt.want {
			t.Errorf("Delta(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}

	empty := NewGradient(rgba.Black, rgba.White, geom.R(0, 0, 0, 18), Callbacks{})
	if got := empty.Delta(5); got != 0 {
		t.Errorf("zero-width Delta = %v, want 0", got)
	}
}

func TestGradientClickCommitsMidpoint(t *testing.T) {
	rec := &recorder{}
	g := NewGradient(rgba.Red, rgba.Blue, geom.R(0, 0, 100, 18), rec.callbacks())

	g.Press(input.Press(50, 9))
	if !g.Tracking() || g.Offset() != 50 {
		t.Fatalf("after press: tracking=%v offset=%v", g.Tracking(), g.Offset())
	}
	if done := g.Feed(input.Release(50, 9)); !done {
		t.Fatal("release did not end the gesture")
	}

	want := rgba.Color{R: 0.5, G: 0, B: 0.5, A: 1}
	if len(rec.selected) != 1 {
		t.Fatalf("selected %d colors, want exactly 1", len(rec.selected))
	}
	if !closeTo(rec.selected[0], want) {
		t.Errorf("committed %v, want %v", rec.selected[0], want)
	}
	if rec.closes != 1 {
		t.Errorf("closes = %d, want 1", rec.closes)
	}
}

func TestGradientTracksLastPosition(t *testing.T) {
	rec := &recorder{}
	g := NewGradient(rgba.Black, rgba.White, geom.R(0, 0, 100, 18), rec.callbacks())

	g.Press(input.Press(10, 9))
	g.Feed(input.Drag(40, 9))
	g.Feed(input.Drag(75, 9))
	if g.Offset() != 75 {
		t.Errorf("Offset() = %v, want 75", g.Offset())
	}
	g.Feed(input.Release(75, 9))

	if len(rec.selected) != 1 || !closeTo(rec.selected[0], rgba.Color{R: 0.75, G: 0.75, B: 0.75, A: 1}) {
		t.Errorf("selected = %v, want 75%% gray", rec.selected)
	}
}

func TestGradientReleaseOutside(t *testing.T) {
	rec := &recorder{}
	g := NewGradient(rgba.Black, rgba.White, geom.R(0, 0, 100, 18), rec.callbacks())

	g.Press(input.Press(10, 9))
	g.Feed(input.Drag(150, 9))
	if g.Tracking() {
		t.Error("still tracking outside the strip")
	}
	if g.Offset() != 150 {
		t.Errorf("offset should follow the pointer outside, got %v", g.Offset())
	}
	g.Feed(input.Release(150, 40))

	if len(rec.selected) != 0 {
		t.Errorf("selected = %v, want none", rec.selected)
	}
	if rec.closes != 1 {
		t.Errorf("closes = %d, want 1", rec.closes)
	}
}

func TestPaletteLayout(t *testing.T) {
	colors := []rgba.Color{rgba.Red, rgba.Blue, rgba.Black, rgba.White, rgba.Red}
	layout := Layout{Columns: 4, Cell: 10, Gap: 2, Padding: 5, GradientHeight: 8}
	p := NewPalette(layout, colors, []GradientSpec{{rgba.Black, rgba.White}}, Callbacks{})

	if got := p.Swatches()[4].Bounds(); got != geom.R(5, 17, 10, 10) {
		t.Errorf("fifth swatch at %v, want second row first column", got)
	}
	// two rows of swatches then one gradient
	g := p.Gradients()[0].Bounds()
	if g != geom.R(5, 29, 46, 8) {
		t.Errorf("gradient frame = %v", g)
	}
	if got := p.Bounds(); got != geom.R(0, 0, 56, 42) {
		t.Errorf("palette bounds = %v", got)
	}
}

func TestPaletteRoutesPressToChild(t *testing.T) {
	rec := &recorder{}
	colors := []rgba.Color{rgba.Red, rgba.Blue}
	p := NewPalette(DefaultLayout, colors, []GradientSpec{{rgba.Red, rgba.Blue}}, rec.callbacks())

	blue := p.Swatches()[1].Bounds()
	center := geom.Pt(blue.X+blue.W/2, blue.Y+blue.H/2)

	if p.HandleEvent(input.Press(center.X, center.Y)) {
		t.Fatal("press reported the gesture as ended")
	}
	if !p.Tracking() {
		t.Fatal("palette not tracking after a press on a swatch")
	}
	p.HandleEvent(input.Drag(center.X+1, center.Y))
	if !p.HandleEvent(input.Release(center.X+1, center.Y)) {
		t.Error("release did not end the gesture")
	}
	if len(rec.selected) != 1 || rec.selected[0] != rgba.Blue {
		t.Errorf("selected = %v, want [blue]", rec.selected)
	}
	if p.Tracking() {
		t.Error("palette still tracking after release")
	}
}

func TestPaletteBackgroundPressIgnored(t *testing.T) {
	rec := &recorder{}
	p := NewPalette(DefaultLayout, []rgba.Color{rgba.Red}, nil, rec.callbacks())

	p.HandleEvent(input.Press(1, 1))
	p.HandleEvent(input.Release(1, 1))
	if p.Tracking() {
		t.Error("background press started a gesture")
	}
	if len(rec.selected) != 0 || rec.closes != 0 {
		t.Errorf("background press produced callbacks: %+v", rec)
	}
}

func TestPaletteCancel(t *testing.T) {
	rec := &recorder{}
	p := NewPalette(DefaultLayout, []rgba.Color{rgba.Red}, []GradientSpec{{rgba.Red, rgba.Blue}}, rec.callbacks())

	tests := []struct {
		name  string
		child Child
	}{
		{"swatch", p.Swatches()[0]},
		{"gradient", p.Gradients()[0]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.child.Bounds()
			at := geom.Pt(b.X+2, b.Y+2)
			p.HandleEvent(input.Press(at.X, at.Y))
			if !tt.child.Tracking() {
				t.Fatal("child not tracking after press")
			}

			p.Cancel()
			if tt.child.Tracking() || p.Tracking() {
				t.Error("cancel left tracking state behind")
			}
			// A release after the cancel belongs to no gesture.
			if p.HandleEvent(input.Release(at.X, at.Y)) {
				t.Error("release after cancel ended a gesture")
			}
			if rec.closes != 0 || len(rec.selected) != 0 {
				t.Errorf("cancel should not commit or close: %+v", rec)
			}
		})
	}

	// Cancelling an idle palette does nothing.
	p.Cancel()
	if rec.closes != 0 {
		t.Errorf("idle cancel closed the popover")
	}
}
