package input

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phinze/colorwell/internal/geom"
)

func TestScriptDeliversInOrder(t *testing.T) {
	ctx := context.Background()
	s := NewScript(Click(1, 2, ModShift)...)
	s.Append(Key(KeyEscape))

	want := []EventType{Pressed, Released, KeyPressed}
	for i, w := range want {
		ev, err := s.Next(ctx)
		if err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		if ev.Type != w {
			t.Errorf("event %d type = %v, want %v", i, ev.Type, w)
		}
	}
	if _, err := s.Next(ctx); !errors.Is(err, ErrExhausted) {
		t.Errorf("Next after end = %v, want ErrExhausted", err)
	}
}

func TestQueuePushAndClose(t *testing.T) {
	q := NewQueue(2)
	if !q.Push(Move(1, 1)) || !q.Push(Move(2, 2)) {
		t.Fatal("Push into empty queue failed")
	}
	if q.Push(Move(3, 3)) {
		t.Error("Push into full queue should report a drop")
	}

	ev, err := q.Next(context.Background())
	if err != nil || ev.Point != geom.Pt(1, 1) {
		t.Errorf("Next = %v, %v; want first pushed event", ev, err)
	}

	q.Close()
	if q.Push(Move(4, 4)) {
		t.Error("Push after Close should fail")
	}
}

func TestQueueNextHonoursContext(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := q.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next on empty queue = %v, want deadline exceeded", err)
	}
}

func TestQueueNextAfterClose(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	if _, err := q.Next(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Next after Close = %v, want ErrClosed", err)
	}
}

func TestTranslate(t *testing.T) {
	s := NewScript(Press(110, 45), Key(KeyEscape))
	src := Translate(s, geom.Pt(100, 40))

	ev, _ := src.Next(context.Background())
	if ev.Point != geom.Pt(10, 5) {
		t.Errorf("translated point = %v, want (10, 5)", ev.Point)
	}
	ev, _ = src.Next(context.Background())
	if ev.Type != KeyPressed || ev.Key != KeyEscape {
		t.Errorf("key event changed by Translate: %v", ev)
	}
}

func TestDragPath(t *testing.T) {
	events := DragPath(geom.Pt(0, 0), geom.Pt(30, 0), 2)
	if len(events) != 4 {
		t.Fatalf("len = %d, want 4", len(events))
	}
	if events[1].Point != geom.Pt(10, 0) || events[2].Point != geom.Pt(20, 0) {
		t.Errorf("intermediate points = %v, %v", events[1].Point, events[2].Point)
	}
	if events[0].Type != Pressed || events[3].Type != Released {
		t.Errorf("endpoints = %v, %v", events[0].Type, events[3].Type)
	}
}

func TestModifiersHas(t *testing.T) {
	m := ModShift | ModAlt
	if !m.Has(ModShift) || !m.Has(ModAlt) || m.Has(ModCtrl) || m.Has(ModShift|ModCtrl) {
		t.Errorf("Has mismatch for %b", m)
	}
}
