// Package emulator provides a GUI window that stands in for the touch strip.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
	"github.com/phinze/colorwell/internal/surface"
)

// Layout constants
const (
	marginX      = 20
	marginY      = 20
	headerHeight = 30
	footerHeight = 30
	scale        = 1
)

// Emulator implements surface.Surface using Ebitengine for GUI rendering.
type Emulator struct {
	mu sync.RWMutex

	// State
	open       bool
	brightness byte
	width      int
	height     int
	frame      *image.RGBA
	frameDirty bool

	queue *input.Queue

	// Ebitengine state
	stopCh     chan struct{}
	errorCh    chan error
	listenDone chan struct{}

	// Input state (managed by game loop)
	pointer surface.Pointer
	texture *ebiten.Image
}

// New creates an emulator for a surface of the given size.
func New(width, height int, brightness byte) *Emulator {
	return &Emulator{
		brightness: brightness,
		width:      width,
		height:     height,
		frame:      image.NewRGBA(image.Rect(0, 0, width, height)),
		queue:      input.NewQueue(1024),
		stopCh:     make(chan struct{}),
	}
}

// Open initializes the emulator.
func (e *Emulator) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.open {
		return fmt.Errorf("emulator: device is already open")
	}

	e.open = true
	e.stopCh = make(chan struct{})
	return nil
}

// Close shuts down the emulator.
func (e *Emulator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return fmt.Errorf("emulator: device is not open")
	}

	e.open = false
	close(e.stopCh)
	e.queue.Close()
	return nil
}

// IsOpen returns whether the emulator is open.
func (e *Emulator) IsOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open
}

// Name returns the emulated surface name.
func (e *Emulator) Name() string {
	return "Touch Strip (Emulator)"
}

// Bounds returns the surface rectangle.
func (e *Emulator) Bounds() image.Rectangle {
	return image.Rect(0, 0, e.width, e.height)
}

// Present replaces the displayed frame.
func (e *Emulator) Present(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	frame := image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	draw.Draw(frame, frame.Bounds(), img, img.Bounds().Min, draw.Src)
	e.frame = frame
	e.frameDirty = true
	return nil
}

// Events returns the window's pointer and keyboard input.
func (e *Emulator) Events() input.Source {
	return e.queue
}

// Listen blocks until the emulator window is closed.
// The actual event loop runs via RunGUI() which must be called from main.
func (e *Emulator) Listen(errCh chan error) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	e.errorCh = errCh
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	done := e.listenDone
	e.mu.Unlock()

	<-done
	return nil
}

// RunGUI starts the Ebitengine GUI loop. This MUST be called from the main goroutine
// on macOS due to Cocoa threading requirements. This method blocks until the window is closed.
func (e *Emulator) RunGUI() error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	game := &emulatorGame{emu: e}
	e.mu.Unlock()

	w, h := e.windowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Color Well Emulator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	err := ebiten.RunGame(game)

	close(e.listenDone)
	return err
}

func (e *Emulator) windowSize() (int, int) {
	return 2*marginX + e.width*scale, headerHeight + marginY + e.height*scale + footerHeight
}

// stripOrigin is where the surface is drawn inside the window.
func (e *Emulator) stripOrigin() image.Point {
	return image.Pt(marginX, headerHeight+marginY)
}

// emulatorGame implements ebiten.Game for the emulator.
type emulatorGame struct {
	emu *Emulator
}

func (g *emulatorGame) Update() error {
	select {
	case <-g.emu.stopCh:
		return ebiten.Termination
	default:
	}

	g.handleInput()
	return nil
}

func (g *emulatorGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})

	e := g.emu
	e.mu.Lock()
	if e.texture == nil || e.frameDirty {
		if e.texture == nil {
			e.texture = ebiten.NewImage(e.width, e.height)
		}
		e.texture.WritePixels(e.frame.Pix)
		e.frameDirty = false
	}
	brightness := float32(e.brightness) / 100
	e.mu.Unlock()

	w, h := e.windowSize()
	ebitenutil.DebugPrintAt(screen, "Color Well Emulator", w/2-60, 8)

	origin := e.stripOrigin()
	drawRect(screen, origin.X-2, origin.Y-2, e.width*scale+4, e.height*scale+4, color.RGBA{60, 60, 60, 255})

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(origin.X), float64(origin.Y))
	op.ColorScale.Scale(brightness, brightness, brightness, 1)
	screen.DrawImage(e.texture, op)

	ebitenutil.DebugPrintAt(screen, "Click color to open palette | Click wheel to activate (Shift: keep others) | Drag color onto a well | Esc closes", 10, h-18)
}

func (g *emulatorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.emu.windowSize()
}

func (g *emulatorGame) handleInput() {
	e := g.emu
	mx, my := ebiten.CursorPosition()
	origin := e.stripOrigin()
	at := geom.Pt(float64(mx-origin.X)/scale, float64(my-origin.Y)/scale)
	inside := at.X >= 0 && at.Y >= 0 && at.X < float64(e.width) && at.Y < float64(e.height)
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	mods := currentModifiers()
	events := e.pointer.Update(at, down, inside, mods)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ev := input.Key(input.KeyEscape)
		ev.Modifiers = mods
		events = append(events, ev)
	}

	now := time.Now()
	for _, ev := range events {
		ev.Time = now
		if !e.queue.Push(ev) {
			log.Printf("Dropped %s: input queue full", ev)
		}
	}
}

func currentModifiers() input.Modifiers {
	var mods input.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= input.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= input.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= input.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= input.ModMeta
	}
	return mods
}

// Helper function to draw a filled rectangle
func drawRect(screen *ebiten.Image, x, y, w, h int, c color.Color) {
	rect := ebiten.NewImage(w, h)
	rect.Fill(c)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(rect, op)
}
