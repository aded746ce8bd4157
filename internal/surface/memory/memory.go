// Package memory provides a headless surface for tests and replays.
package memory

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/phinze/colorwell/internal/input"
)

// maxFrames bounds how many presented frames are retained.
const maxFrames = 64

// Surface records presented frames and delivers injected events.
type Surface struct {
	mu     sync.Mutex
	bounds image.Rectangle
	open   bool
	frames []*image.RGBA
	total  int

	queue      *input.Queue
	listenDone chan struct{}
}

// New creates a closed surface of the given size.
func New(width, height int) *Surface {
	return &Surface{
		bounds: image.Rect(0, 0, width, height),
		queue:  input.NewQueue(4096),
	}
}

// Open marks the surface open.
func (s *Surface) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return fmt.Errorf("memory: surface is already open")
	}
	s.open = true
	s.listenDone = make(chan struct{})
	return nil
}

// Close ends Listen and the event stream.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return fmt.Errorf("memory: surface is not open")
	}
	s.open = false
	close(s.listenDone)
	s.queue.Close()
	return nil
}

// IsOpen returns whether the surface is open.
func (s *Surface) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Name returns a fixed description.
func (s *Surface) Name() string {
	return fmt.Sprintf("Memory surface %dx%d", s.bounds.Dx(), s.bounds.Dy())
}

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() image.Rectangle {
	return s.bounds
}

// Present stores a copy of img.
func (s *Surface) Present(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return fmt.Errorf("memory: surface is not open")
	}
	frame := image.NewRGBA(s.bounds)
	draw.Draw(frame, frame.Bounds(), img, img.Bounds().Min, draw.Src)
	s.frames = append(s.frames, frame)
	if len(s.frames) > maxFrames {
		s.frames = s.frames[len(s.frames)-maxFrames:]
	}
	s.total++
	return nil
}

// Presented returns how many frames have been presented in total.
func (s *Surface) Presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Last returns the most recent frame, or nil.
func (s *Surface) Last() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Inject queues events as if the user produced them.
func (s *Surface) Inject(events ...input.Event) error {
	for _, ev := range events {
		if !s.queue.Push(ev) {
			return fmt.Errorf("memory: cannot inject %s: queue full or closed", ev)
		}
	}
	return nil
}

// Pending returns how many injected events have not been consumed.
func (s *Surface) Pending() int {
	return s.queue.Len()
}

// Events returns the injected event stream.
func (s *Surface) Events() input.Source {
	return s.queue
}

// Listen blocks until the surface is closed.
func (s *Surface) Listen(errCh chan error) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return fmt.Errorf("memory: surface is not open")
	}
	done := s.listenDone
	s.mu.Unlock()

	<-done
	return nil
}
