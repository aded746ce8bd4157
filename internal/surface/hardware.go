package surface

import (
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"rafaelmartins.com/p/streamdeck"

	"github.com/phinze/colorwell/internal/input"
)

// Hardware drives the touch strip of a real Stream Deck Plus. Taps and
// swipes on the strip become pointer events; holding dial 1 holds Shift and
// key 8 sends Escape.
type Hardware struct {
	dev        *streamdeck.Device
	brightness byte
	queue      *input.Queue

	mu         sync.Mutex
	bounds     image.Rectangle
	registered bool

	shift atomic.Bool
}

// NewHardware wraps an enumerated device. Brightness is a percentage.
func NewHardware(dev *streamdeck.Device, brightness byte) *Hardware {
	return &Hardware{
		dev:        dev,
		brightness: brightness,
		queue:      input.NewQueue(256),
	}
}

// Open opens the device if needed, clears its keys and registers the
// strip handlers.
func (h *Hardware) Open() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.dev.IsOpen() {
		if err := h.dev.Open(); err != nil {
			return fmt.Errorf("opening %s: %w", h.dev.GetModelName(), err)
		}
	}
	if !h.dev.GetTouchStripSupported() {
		return fmt.Errorf("hardware: %s has no touch strip", h.dev.GetModelName())
	}

	rect, err := h.dev.GetTouchStripImageRectangle()
	if err != nil {
		return fmt.Errorf("reading touch strip size: %w", err)
	}
	h.bounds = rect

	if err := h.dev.SetBrightness(h.brightness); err != nil {
		log.Printf("Failed to set brightness: %v", err)
	}
	h.dev.ForEachKey(func(key streamdeck.KeyID) error {
		return h.dev.ClearKey(key)
	})

	if h.registered {
		return nil
	}
	h.registered = true
	return h.register()
}

func (h *Hardware) register() error {
	if err := h.dev.AddTouchStripTouchHandler(func(d *streamdeck.Device, t streamdeck.TouchStripTouchType, p image.Point) error {
		h.push(TapEvents(p, h.mods())...)
		return nil
	}); err != nil {
		return fmt.Errorf("registering tap handler: %w", err)
	}

	if err := h.dev.AddTouchStripSwipeHandler(func(d *streamdeck.Device, origin, destination image.Point) error {
		h.push(SwipeEvents(origin, destination, h.mods())...)
		return nil
	}); err != nil {
		return fmt.Errorf("registering swipe handler: %w", err)
	}

	if err := h.dev.AddDialSwitchHandler(streamdeck.DIAL_1, func(d *streamdeck.Device, di *streamdeck.Dial) error {
		h.shift.Store(true)
		di.WaitForRelease()
		h.shift.Store(false)
		return nil
	}); err != nil {
		return fmt.Errorf("registering shift dial: %w", err)
	}

	if err := h.dev.AddKeyHandler(streamdeck.KEY_8, func(d *streamdeck.Device, k *streamdeck.Key) error {
		h.push(input.Key(input.KeyEscape))
		return nil
	}); err != nil {
		return fmt.Errorf("registering escape key: %w", err)
	}
	return nil
}

func (h *Hardware) mods() input.Modifiers {
	if h.shift.Load() {
		return input.ModShift
	}
	return 0
}

func (h *Hardware) push(events ...input.Event) {
	now := time.Now()
	for _, ev := range events {
		ev.Time = now
		if !h.queue.Push(ev) {
			log.Printf("Dropped %s: input queue full", ev)
		}
	}
}

// Close stops event delivery and closes the device.
func (h *Hardware) Close() error {
	h.queue.Close()
	return h.dev.Close()
}

// IsOpen returns whether the device is open.
func (h *Hardware) IsOpen() bool {
	return h.dev.IsOpen()
}

// Name returns the device model name.
func (h *Hardware) Name() string {
	return h.dev.GetModelName()
}

// Bounds returns the touch strip rectangle. It is empty before Open.
func (h *Hardware) Bounds() image.Rectangle {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bounds
}

// Present sends img to the touch strip.
func (h *Hardware) Present(img image.Image) error {
	return h.dev.SetTouchStripImage(img)
}

// Events returns the strip input stream.
func (h *Hardware) Events() input.Source {
	return h.queue
}

// Listen runs the device event loop.
func (h *Hardware) Listen(errCh chan error) error {
	return h.dev.Listen(errCh)
}

// Underlying returns the underlying streamdeck.Device for direct access when needed.
func (h *Hardware) Underlying() *streamdeck.Device {
	return h.dev
}
