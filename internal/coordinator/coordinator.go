// Package coordinator owns the wells on a surface, routes surface input to
// them on a single UI goroutine, and composites what they draw.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phinze/colorwell/internal/colorwell"
	"github.com/phinze/colorwell/internal/config"
	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
	"github.com/phinze/colorwell/internal/render"
	"github.com/phinze/colorwell/internal/rgba"
	"github.com/phinze/colorwell/internal/surface"
)

const (
	// tickInterval is the animation frame period.
	tickInterval = 33 * time.Millisecond

	// fadeDuration is how long the popover takes to fade in, in seconds.
	fadeDuration = 0.15

	ghostSize = 24
)

// Coordinator manages the wells on one surface.
type Coordinator struct {
	surface  surface.Surface
	renderer *render.Renderer
	accent   rgba.Color
	group    *colorwell.Group
	slots    []*slot

	// OnSelect observes every committed color. Set before Start.
	OnSelect func(well string, c rgba.Color)

	// OnActivation observes activation changes. Set before Start.
	OnActivation func(well string, active bool)

	// UI state, only touched on the UI goroutine
	owner        *slot
	popoverImg   *image.RGBA
	popoverDirty bool
	fade         *gween.Tween
	fadeAlpha    float64
	drag         *dragSession
	status       string
	dirty        bool

	queue     *input.Queue
	animating atomic.Bool

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// slot is a well placed on the surface.
type slot struct {
	name   string
	origin geom.Point
	well   *colorwell.Well
	tile   *image.RGBA
}

// frame returns the well's rectangle in surface coordinates.
func (s *slot) frame() geom.Rect {
	return s.well.Bounds().Offset(s.origin)
}

// local maps a surface event into the well's coordinates.
func (s *slot) local(ev input.Event) input.Event {
	if ev.Type.IsPointer() {
		ev.Point = ev.Point.Sub(s.origin)
	}
	return ev
}

func (s *slot) pixelOrigin() image.Point {
	return image.Pt(int(math.Round(s.origin.X)), int(math.Round(s.origin.Y)))
}

// dragSession follows a color dragged out of a well.
type dragSession struct {
	source *slot
	color  rgba.Color
	at     geom.Point
	target *slot
}

// New creates a coordinator for the wells in cfg. The surface must already
// be open so its bounds are known.
func New(surf surface.Surface, cfg *config.Config) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	accent, err := cfg.AccentColor()
	if err != nil {
		return nil, err
	}
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	swatches, err := cfg.Palette.Swatches()
	if err != nil {
		return nil, err
	}
	gradients, err := cfg.Palette.GradientSpecs()
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		surface:  surf,
		renderer: renderer,
		accent:   accent,
		group:    colorwell.NewGroup(),
		queue:    input.NewQueue(1024),
		dirty:    true,
	}

	within := geom.FromImage(surf.Bounds())
	for _, wc := range cfg.Wells {
		initial, err := wc.InitialColor()
		if err != nil {
			return nil, fmt.Errorf("well %q: %w", wc.Name, err)
		}
		s := &slot{name: wc.Name, origin: geom.Pt(wc.X, wc.Y)}
		s.well = colorwell.New(colorwell.Options{
			Name:   wc.Name,
			Bounds: geom.R(0, 0, wc.Width, wc.Height),
			Color:  initial,
			Accent: accent,
			Renderer: colorwell.RendererFunc(func(f colorwell.Frame) {
				s.tile = c.renderer.Well(f)
				c.dirty = true
			}),
			Drag: colorwell.DragSourceFunc(func(col rgba.Color, ev input.Event) {
				c.beginDrag(s, col, ev)
			}),
			Action: func(col rgba.Color) {
				c.selected(s, col)
			},
			OnActivation: func(active, exclusive bool) {
				c.activationChanged(s, active, exclusive)
			},
			Palette: colorwell.PaletteOptions{
				Layout:    cfg.Palette.Layout(),
				Colors:    swatches,
				Gradients: gradients,
			},
			Within: within.Offset(geom.Pt(-wc.X, -wc.Y)),
			PopoverChanged: func() {
				c.popoverChanged(s)
			},
		})
		s.tile = renderer.Well(s.well.Frame())
		c.group.Add(s.well)
		c.slots = append(c.slots, s)
	}
	return c, nil
}

// Wells returns the wells in configuration order.
func (c *Coordinator) Wells() []*colorwell.Well {
	wells := make([]*colorwell.Well, len(c.slots))
	for i, s := range c.slots {
		wells[i] = s.well
	}
	return wells
}

// Well returns the named well, or nil.
func (c *Coordinator) Well(name string) *colorwell.Well {
	if s := c.slotNamed(name); s != nil {
		return s.well
	}
	return nil
}

// Origin returns where the named well sits on the surface.
func (c *Coordinator) Origin(name string) geom.Point {
	if s := c.slotNamed(name); s != nil {
		return s.origin
	}
	return geom.Point{}
}

// PopoverOwner returns the name of the well whose popover is shown, or "".
func (c *Coordinator) PopoverOwner() string {
	if c.owner == nil {
		return ""
	}
	return c.owner.name
}

// Status returns the status line text.
func (c *Coordinator) Status() string {
	return c.status
}

// Dragging reports whether a color drag is in progress.
func (c *Coordinator) Dragging() bool {
	return c.drag != nil
}

func (c *Coordinator) slotNamed(name string) *slot {
	for _, s := range c.slots {
		if s.name == name {
			return s
		}
	}
	return nil
}

// Start begins pumping surface input to the wells. It blocks until ctx is
// cancelled, the surface stops listening, or input fails.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	listenErr := make(chan error, 1)
	go func() {
		err := c.surface.Listen(nil)
		if err != nil {
			listenErr <- err
		}
		close(listenErr)
	}()

	c.wg.Add(2)
	go c.pump()
	go c.tickLoop()

	uiErr := make(chan error, 1)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		uiErr <- c.loop(c.ctx, c.queue)
	}()

	select {
	case <-c.ctx.Done():
		return nil
	case err := <-listenErr:
		return err
	case err := <-uiErr:
		if errors.Is(err, context.Canceled) || errors.Is(err, input.ErrClosed) {
			return nil
		}
		return err
	}
}

// Stop shuts down the input pump and UI goroutine.
func (c *Coordinator) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.queue.Close()
	c.wg.Wait()
	return nil
}

// Replay runs the UI loop on the caller's goroutine against src until it is
// exhausted, settles any animation and presents the final frame.
func (c *Coordinator) Replay(ctx context.Context, src input.Source) error {
	err := c.loop(ctx, src)
	if errors.Is(err, input.ErrExhausted) {
		err = nil
	}
	c.settle()
	c.flush()
	return err
}

// pump moves surface events onto the UI queue.
func (c *Coordinator) pump() {
	defer c.wg.Done()
	src := c.surface.Events()
	for {
		ev, err := src.Next(c.ctx)
		if err != nil {
			return
		}
		if !c.queue.Push(ev) {
			log.Printf("Dropped %s: UI queue full", ev)
		}
	}
}

// tickLoop feeds animation ticks while something is animating.
func (c *Coordinator) tickLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case t := <-ticker.C:
			if c.animating.Load() {
				c.queue.Push(input.Event{Type: input.Tick, Time: t})
			}
		}
	}
}

// loop is the UI goroutine: present, wait for input, dispatch.
func (c *Coordinator) loop(ctx context.Context, src input.Source) error {
	for {
		c.flush()
		ev, err := src.Next(ctx)
		if err != nil {
			return err
		}
		if err := c.dispatch(ctx, src, ev); err != nil {
			return err
		}
	}
}

func (c *Coordinator) dispatch(ctx context.Context, src input.Source, ev input.Event) error {
	if ev.Type == input.Tick {
		c.tick()
		return nil
	}
	if c.drag != nil {
		c.feedDrag(ev)
		return nil
	}

	if owner := c.owner; owner != nil {
		owner.well.HandleEvent(owner.local(ev))
		switch ev.Type {
		case input.Moved, input.Entered, input.Exited:
			// other wells still follow the pointer
		default:
			return nil
		}
	}

	switch ev.Type {
	case input.Moved, input.Entered, input.Exited:
		c.hover(ev)
	case input.Pressed:
		s := c.slotAt(ev.Point, nil)
		if s == nil {
			return nil
		}
		out, err := s.well.TrackPress(ctx, s.local(ev), c.trackSource(src, s))
		if err != nil {
			return err
		}
		log.Printf("Well %s: %s", s.name, out.Kind)
	}
	return nil
}

// trackSource is the event stream a well sees while it tracks a press:
// frames are presented before blocking, ticks keep animating, and events
// arrive in the well's coordinates.
func (c *Coordinator) trackSource(src input.Source, s *slot) input.Source {
	return input.Translate(input.SourceFunc(func(ctx context.Context) (input.Event, error) {
		for {
			c.flush()
			ev, err := src.Next(ctx)
			if err != nil {
				return ev, err
			}
			if ev.Type == input.Tick {
				c.tick()
				continue
			}
			return ev, nil
		}
	}), s.origin)
}

// hover delivers pointer motion to the wells under the pointer and tells
// wells the pointer just left.
func (c *Coordinator) hover(ev input.Event) {
	for _, s := range c.slots {
		if s == c.owner {
			continue
		}
		st := s.well.State()
		hovered := st.ColorHover || st.WheelHover
		inside := ev.Type != input.Exited && s.frame().Contains(ev.Point)
		switch {
		case inside:
			s.well.HandleEvent(s.local(ev))
		case hovered:
			left := s.local(ev)
			left.Type = input.Exited
			s.well.HandleEvent(left)
		}
	}
}

// slotAt returns the well under p, skipping except.
func (c *Coordinator) slotAt(p geom.Point, except *slot) *slot {
	for _, s := range c.slots {
		if s != except && s.frame().Contains(p) {
			return s
		}
	}
	return nil
}

func (c *Coordinator) beginDrag(s *slot, col rgba.Color, ev input.Event) {
	c.drag = &dragSession{
		source: s,
		color:  col,
		at:     ev.Point.Add(s.origin),
	}
	c.status = fmt.Sprintf("Dragging %s from %s", col.Hex(), s.name)
	c.retarget(c.slotAt(c.drag.at, s))
	c.dirty = true
}

func (c *Coordinator) feedDrag(ev input.Event) {
	d := c.drag
	switch ev.Type {
	case input.Moved, input.Dragged:
		d.at = ev.Point
		c.retarget(c.slotAt(d.at, d.source))
	case input.Released:
		d.at = ev.Point
		c.retarget(c.slotAt(d.at, d.source))
		if t := d.target; t != nil {
			t.well.HandleEvent(input.Event{Type: input.PrepareForDrop})
			t.well.PerformDrop(d.color)
			log.Printf("Dropped %s from %s onto %s", d.color.Hex(), d.source.name, t.name)
		} else {
			c.status = ""
		}
		c.drag = nil
	case input.KeyPressed:
		if ev.Key == input.KeyEscape {
			c.retarget(nil)
			c.drag = nil
			c.status = ""
		}
	}
	c.dirty = true
}

// retarget moves the drop highlight to t.
func (c *Coordinator) retarget(t *slot) {
	d := c.drag
	if t == d.target {
		return
	}
	if d.target != nil {
		d.target.well.HandleEvent(input.Event{Type: input.DragExited})
	}
	if t != nil {
		t.well.HandleEvent(input.Event{Type: input.DragEntered})
	}
	d.target = t
}

func (c *Coordinator) selected(s *slot, col rgba.Color) {
	c.status = fmt.Sprintf("%s: %s", s.name, col.Hex())
	c.dirty = true
	log.Printf("Well %s selected %s", s.name, col.Hex())
	if c.OnSelect != nil {
		c.OnSelect(s.name, col)
	}
}

func (c *Coordinator) activationChanged(s *slot, active, exclusive bool) {
	switch {
	case active && exclusive:
		c.status = fmt.Sprintf("%s active", s.name)
	case active:
		c.status = fmt.Sprintf("%s active (shared)", s.name)
	default:
		c.status = fmt.Sprintf("%s inactive", s.name)
	}
	c.dirty = true
	if c.OnActivation != nil {
		c.OnActivation(s.name, active)
	}
}

func (c *Coordinator) popoverChanged(s *slot) {
	c.dirty = true
	if s.well.Popover().Shown() {
		if c.owner != s {
			c.owner = s
			c.startFade()
		}
		c.popoverDirty = true
		return
	}
	if c.owner == s {
		c.owner = nil
		c.popoverImg = nil
		c.fade = nil
		c.animating.Store(false)
	}
}

func (c *Coordinator) startFade() {
	c.fade = gween.New(0, 1, fadeDuration, ease.OutQuad)
	c.fadeAlpha = 0
	c.animating.Store(true)
}

// tick advances animations by one frame.
func (c *Coordinator) tick() {
	if c.fade == nil {
		return
	}
	alpha, done := c.fade.Update(float32(tickInterval.Seconds()))
	c.fadeAlpha = float64(alpha)
	if done {
		c.fade = nil
		c.fadeAlpha = 1
		c.animating.Store(false)
	}
	c.dirty = true
}

// settle finishes any running animation.
func (c *Coordinator) settle() {
	if c.fade != nil {
		c.fade = nil
		c.fadeAlpha = 1
		c.animating.Store(false)
		c.dirty = true
	}
}
