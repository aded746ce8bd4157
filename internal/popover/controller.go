// Package popover shows palette content anchored next to a well and
// dismisses it the way a transient platform popover does.
package popover

import (
	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
)

// Host is what a well needs from its popover.
type Host interface {
	Show(anchor geom.Rect, edge Edge)
	Close()
}

// Content is the view a Controller presents. *swatch.Palette satisfies it.
type Content interface {
	Bounds() geom.Rect
	Tracking() bool
	HandleEvent(ev input.Event) bool

	// Cancel abandons a gesture in progress without committing.
	Cancel()
}

// Controller owns the popover content and where it is shown. Content is
// built on the first Show and reused afterwards.
type Controller struct {
	// Within bounds placement. Empty disables fitting.
	Within geom.Rect

	// OnChange, if set, is called whenever the popover is shown, moved
	// or closed.
	OnChange func(shown bool)

	build   func() Content
	content Content
	shown   bool
	anchor  geom.Rect
	edge    Edge
	placed  Edge
	frame   geom.Rect
}

// NewController returns a controller that calls build the first time the
// popover is shown.
func NewController(build func() Content) *Controller {
	return &Controller{build: build}
}

// Shown reports whether the popover is visible.
func (c *Controller) Shown() bool {
	return c.shown
}

// Content returns the content, or nil if the popover was never shown.
func (c *Controller) Content() Content {
	return c.content
}

// Anchor returns the anchor and requested edge of the last Show.
func (c *Controller) Anchor() (geom.Rect, Edge) {
	return c.anchor, c.edge
}

// Frame returns where the content is placed and the edge actually used.
func (c *Controller) Frame() (geom.Rect, Edge) {
	return c.frame, c.placed
}

// Show displays the content next to anchor. Showing again with the same
// anchor and edge does nothing.
func (c *Controller) Show(anchor geom.Rect, edge Edge) {
	if c.shown && anchor == c.anchor && edge == c.edge {
		return
	}
	if c.content == nil {
		c.content = c.build()
	}
	b := c.content.Bounds()
	c.anchor, c.edge = anchor, edge
	c.frame, c.placed = Place(anchor, geom.Pt(b.W, b.H), edge, c.Within)
	c.shown = true
	c.changed()
}

// Close hides the popover. A gesture still running in the content is
// cancelled. Closing a hidden popover does nothing.
func (c *Controller) Close() {
	if !c.shown {
		return
	}
	if c.content.Tracking() {
		c.content.Cancel()
	}
	c.shown = false
	c.changed()
}

// HandleEvent offers ev to the popover and reports whether it was
// consumed. Escape closes the popover. While the content is tracking a
// gesture every key is swallowed, Escape included. A press outside the
// content closes it and is swallowed. Pointer events inside the content,
// or any pointer event while the content is tracking a gesture, are
// delivered to the content in its own coordinates.
func (c *Controller) HandleEvent(ev input.Event) bool {
	if !c.shown {
		return false
	}
	if ev.Type == input.KeyPressed {
		if c.content.Tracking() {
			return true
		}
		if ev.Key == input.KeyEscape {
			c.Close()
			return true
		}
		return false
	}
	if !ev.Type.IsPointer() {
		return false
	}

	inside := c.frame.Contains(ev.Point)
	if !c.content.Tracking() {
		if ev.Type == input.Pressed && !inside {
			c.Close()
			return true
		}
		if !inside {
			return false
		}
	}
	c.content.HandleEvent(ev.At(ev.Point.Sub(c.frame.Origin())))
	return true
}

func (c *Controller) changed() {
	if c.OnChange != nil {
		c.OnChange(c.shown)
	}
}
