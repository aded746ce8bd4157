package input

import (
	"context"
	"errors"
	"sync"

	"github.com/phinze/colorwell/internal/geom"
)

var (
	// ErrExhausted is returned by a Script that has no events left.
	ErrExhausted = errors.New("input: no more events")

	// ErrClosed is returned by a Queue after Close.
	ErrClosed = errors.New("input: queue closed")
)

// Source delivers events one at a time. Next blocks until an event is
// available, the source ends, or ctx is done.
type Source interface {
	Next(ctx context.Context) (Event, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Event, error)

// Next calls f.
func (f SourceFunc) Next(ctx context.Context) (Event, error) {
	return f(ctx)
}

// Queue is a buffered Source fed from other goroutines. Surfaces push raw
// events into it and the UI goroutine drains it.
type Queue struct {
	ch        chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue holding up to size pending events.
func NewQueue(size int) *Queue {
	return &Queue{
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
}

// Push enqueues ev without blocking. It reports false when the queue is
// full or closed and the event was dropped.
func (q *Queue) Push(ev Event) bool {
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

// Next returns the next queued event.
func (q *Queue) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-q.ch:
		return ev, nil
	default:
	}
	select {
	case ev := <-q.ch:
		return ev, nil
	case <-q.done:
		return Event{}, ErrClosed
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops the queue. Events already queued are still delivered; Next
// returns ErrClosed once they run out.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}

// Script replays a fixed list of events. It never blocks.
type Script struct {
	events []Event
	cursor int
}

// NewScript creates a script from events.
func NewScript(events ...Event) *Script {
	return &Script{events: events}
}

// Append adds events to the end of the script.
func (s *Script) Append(events ...Event) {
	s.events = append(s.events, events...)
}

// Next returns the next scripted event or ErrExhausted.
func (s *Script) Next(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	if s.cursor >= len(s.events) {
		return Event{}, ErrExhausted
	}
	ev := s.events[s.cursor]
	s.cursor++
	return ev, nil
}

// Remaining returns how many events have not been delivered yet.
func (s *Script) Remaining() int {
	return len(s.events) - s.cursor
}

// Click returns a press followed by a release at the same point.
func Click(x, y float64, mods Modifiers) []Event {
	return []Event{
		{Type: Pressed, Point: geom.Pt(x, y), Modifiers: mods},
		{Type: Released, Point: geom.Pt(x, y), Modifiers: mods},
	}
}

// DragPath returns a press at from, steps evenly spaced Dragged events and
// a release at to. steps may be zero.
func DragPath(from, to geom.Point, steps int) []Event {
	if steps < 0 {
		steps = 0
	}
	events := make([]Event, 0, steps+2)
	events = append(events, Event{Type: Pressed, Point: from})
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p := geom.Pt(from.X+(to.X-from.X)*t, from.Y+(to.Y-from.Y)*t)
		events = append(events, Event{Type: Dragged, Point: p})
	}
	events = append(events, Event{Type: Released, Point: to})
	return events
}

// Translate returns a Source whose pointer events are shifted into a
// coordinate space with its origin at origin.
func Translate(src Source, origin geom.Point) Source {
	return SourceFunc(func(ctx context.Context) (Event, error) {
		ev, err := src.Next(ctx)
		if err != nil {
			return ev, err
		}
		if ev.Type.IsPointer() {
			ev.Point = ev.Point.Sub(origin)
		}
		return ev, nil
	})
}
