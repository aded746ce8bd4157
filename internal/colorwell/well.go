// Package colorwell is the color well widget: a color region that opens a
// palette popover and a wheel region that toggles the shared color panel.
// Pointer input is driven through a gesture tracker; all drawing goes
// through a Renderer.
package colorwell

import (
	"context"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/gesture"
	"github.com/phinze/colorwell/internal/input"
	"github.com/phinze/colorwell/internal/popover"
	"github.com/phinze/colorwell/internal/rgba"
	"github.com/phinze/colorwell/internal/swatch"
)

// DefaultAccent is the control accent used when none is configured.
var DefaultAccent = rgba.MustParse("#0a84ff")

// Frame is everything a renderer needs to draw one well.
type Frame struct {
	Name   string
	Bounds geom.Rect
	Accent rgba.Color
	Color  rgba.Color
	State  State
}

// Renderer receives a repaint request for every visible change.
type Renderer interface {
	Repaint(f Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

// Repaint calls f.
func (f RendererFunc) Repaint(fr Frame) {
	f(fr)
}

// DragSource starts a color drag out of a well.
type DragSource interface {
	BeginDrag(c rgba.Color, ev input.Event)
}

// DragSourceFunc adapts a function to DragSource.
type DragSourceFunc func(rgba.Color, input.Event)

// BeginDrag calls f.
func (f DragSourceFunc) BeginDrag(c rgba.Color, ev input.Event) {
	f(c, ev)
}

// PaletteOptions configure the popover content a well builds for itself.
type PaletteOptions struct {
	Layout    swatch.Layout
	Colors    []rgba.Color
	Gradients []swatch.GradientSpec
}

// Options configure a Well. Zero values are usable.
type Options struct {
	Name   string
	Bounds geom.Rect
	Color  rgba.Color
	Accent rgba.Color

	Renderer Renderer
	Drag     DragSource

	// Action is called with every color the user commits.
	Action func(rgba.Color)

	// OnActivation observes activation changes.
	OnActivation func(active, exclusive bool)

	// Palette is used to build the popover on first show.
	Palette PaletteOptions

	// Popover replaces the well's own popover controller.
	Popover popover.Host

	// Within bounds the popover placement, in well coordinates.
	Within geom.Rect

	// PopoverChanged is called when the popover opens, closes or its
	// content needs repainting.
	PopoverChanged func()
}

// Well is a single color well. It is not safe for concurrent use; hosts
// serialise every call on one goroutine.
type Well struct {
	name   string
	bounds geom.Rect
	color  rgba.Color
	accent rgba.Color
	state  State

	tracker gesture.Tracker
	group   *Group

	renderer     Renderer
	drag         DragSource
	action       func(rgba.Color)
	onActivation func(active, exclusive bool)

	host           popover.Host
	controller     *popover.Controller
	popoverChanged func()
}

// New creates a well.
func New(opts Options) *Well {
	w := &Well{
		name:           opts.Name,
		bounds:         opts.Bounds,
		color:          opts.Color,
		accent:         opts.Accent,
		renderer:       opts.Renderer,
		drag:           opts.Drag,
		action:         opts.Action,
		onActivation:   opts.OnActivation,
		popoverChanged: opts.PopoverChanged,
	}
	if w.accent == (rgba.Color{}) {
		w.accent = DefaultAccent
	}

	if opts.Popover != nil {
		w.host = opts.Popover
		return w
	}

	palette := opts.Palette
	if palette.Layout.Columns == 0 {
		palette.Layout = swatch.DefaultLayout
	}
	w.controller = popover.NewController(func() popover.Content {
		return swatch.NewPalette(palette.Layout, palette.Colors, palette.Gradients, swatch.Callbacks{
			Select:  w.SelectColor,
			Close:   w.ClosePopover,
			Repaint: w.notifyPopover,
		})
	})
	w.controller.Within = opts.Within
	w.controller.OnChange = func(bool) { w.notifyPopover() }
	w.host = w.controller
	return w
}

// Name returns the well's name.
func (w *Well) Name() string {
	return w.name
}

// Color returns the current color.
func (w *Well) Color() rgba.Color {
	return w.color
}

// SetColor changes the current color without firing the action.
func (w *Well) SetColor(c rgba.Color) {
	w.color = c
	w.repaint()
}

// SetAccent changes the accent used to draw the active wheel.
func (w *Well) SetAccent(c rgba.Color) {
	w.accent = c
	w.repaint()
}

// Bounds returns the well's frame in its own coordinate space.
func (w *Well) Bounds() geom.Rect {
	return w.bounds
}

// SetBounds moves or resizes the well.
func (w *Well) SetBounds(r geom.Rect) {
	w.bounds = r
	w.repaint()
}

// State returns the rendering state.
func (w *Well) State() State {
	return w.state
}

// Frame returns the current rendering frame.
func (w *Well) Frame() Frame {
	return Frame{
		Name:   w.name,
		Bounds: w.bounds,
		Accent: w.accent,
		Color:  w.color,
		State:  w.state,
	}
}

// Group returns the group w belongs to, or nil.
func (w *Well) Group() *Group {
	return w.group
}

// IsActive reports whether the well is bound to the color panel.
func (w *Well) IsActive() bool {
	return w.state.Active
}

// Activate binds the well to the color panel. An exclusive activation
// first deactivates the other wells in the group.
func (w *Well) Activate(exclusive bool) {
	if exclusive && w.group != nil {
		w.group.deactivateOthers(w)
	}
	w.state.Active = true
	w.repaint()
	if w.onActivation != nil {
		w.onActivation(true, exclusive)
	}
}

// Deactivate unbinds the well. It always repaints.
func (w *Well) Deactivate() {
	was := w.state.Active
	w.state.Active = false
	w.repaint()
	if was && w.onActivation != nil {
		w.onActivation(false, false)
	}
}

// Popover returns the well's own popover controller, or nil if the host
// supplied one.
func (w *Well) Popover() *popover.Controller {
	return w.controller
}

// ClosePopover dismisses the popover.
func (w *Well) ClosePopover() {
	w.host.Close()
}

// SelectColor commits c: it becomes the current color, the action fires
// and the popover closes.
func (w *Well) SelectColor(c rgba.Color) {
	w.SetColor(c)
	w.fire(c)
	w.host.Close()
}

// Tracking reports whether a gesture on the well is in progress.
func (w *Well) Tracking() bool {
	return w.tracker.Active()
}

// HandleEvent drives the well with one event without blocking. It returns
// the outcome and true when a gesture ends. A press outside both regions
// ends immediately with a None outcome.
func (w *Well) HandleEvent(ev input.Event) (gesture.Outcome, bool) {
	if w.tracker.Active() {
		out, done := w.tracker.Feed(ev)
		if done {
			w.finish(out)
		}
		return out, done
	}

	if w.controller != nil && w.controller.HandleEvent(ev) {
		return gesture.Outcome{}, false
	}

	switch ev.Type {
	case input.Moved, input.Entered:
		w.state.hover(geom.Classify(w.bounds, ev.Point))
		w.repaint()
	case input.Exited:
		w.state.hover(geom.RegionNone)
		w.repaint()
	case input.Pressed:
		out, ok := w.tracker.Begin(w.bounds, ev)
		if !ok {
			return out, true
		}
		w.state.track(w.tracker.Region())
		w.repaint()
	case input.DragEntered:
		w.DragEntered()
	case input.DragExited:
		w.DragExited()
	case input.PrepareForDrop:
		w.PrepareForDrop()
	}
	return gesture.Outcome{}, false
}

// TrackPress handles press and then blocks pulling events from src until
// the gesture ends. If src fails the gesture is cancelled and the error
// returned with an Aborted outcome.
func (w *Well) TrackPress(ctx context.Context, press input.Event, src input.Source) (gesture.Outcome, error) {
	if out, done := w.HandleEvent(press); done || !w.tracker.Active() {
		return out, nil
	}
	out, err := gesture.Run(ctx, &w.tracker, src)
	w.finish(out)
	return out, err
}

// Cancel aborts a gesture in progress.
func (w *Well) Cancel() gesture.Outcome {
	out, ok := w.tracker.Cancel()
	if ok {
		w.finish(out)
	}
	return out
}

// finish clears tracking state and applies the outcome.
func (w *Well) finish(out gesture.Outcome) {
	w.state.track(geom.RegionNone)
	if out.Event.Type.IsPointer() {
		w.state.hover(geom.Classify(w.bounds, out.Event.Point))
	}
	w.repaint()

	switch out.Kind {
	case gesture.WheelClick:
		if w.state.Active {
			w.Deactivate()
		} else {
			w.Activate(out.Exclusive)
		}
	case gesture.ColorClick:
		w.host.Show(geom.ColorRegion(w.bounds), popover.EdgeBottom)
	case gesture.Drag:
		if w.drag != nil {
			w.drag.BeginDrag(w.color, out.Event)
		}
	}
}

// DragEntered marks the well as a drop target under a dragged color.
func (w *Well) DragEntered() {
	w.state.DragAccepting = true
	w.repaint()
}

// DragExited clears the drop highlight.
func (w *Well) DragExited() {
	w.state.DragAccepting = false
	w.repaint()
}

// PrepareForDrop clears the drop highlight ahead of a drop.
func (w *Well) PrepareForDrop() {
	w.state.DragAccepting = false
	w.repaint()
}

// PerformDrop accepts a dropped color as if the user had picked it.
func (w *Well) PerformDrop(c rgba.Color) {
	w.SetColor(c)
	w.fire(c)
}

func (w *Well) fire(c rgba.Color) {
	if w.action != nil {
		w.action(c)
	}
}

func (w *Well) repaint() {
	if w.renderer != nil {
		w.renderer.Repaint(w.Frame())
	}
}

func (w *Well) notifyPopover() {
	if w.popoverChanged != nil {
		w.popoverChanged()
	}
}
