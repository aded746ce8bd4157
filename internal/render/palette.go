package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/rgba"
	"github.com/phinze/colorwell/internal/swatch"
)

// Palette draws the popover content in its own coordinates. The child
// being tracked is outlined with accent.
func (r *Renderer) Palette(p *swatch.Palette, accent rgba.Color) *image.RGBA {
	b := p.Bounds()
	img := newTile(b)
	fillRoundRect(img, b, bezelRadius, colorPanel)

	for _, s := range p.Swatches() {
		frame := s.Bounds()
		if s.Color().A < 1 {
			checker(img, frame)
		}
		fillRoundRect(img, frame, swatchRadius, s.Color())
		if s.Tracking() {
			strokeRoundRect(img, frame.Inset(-1.5), swatchRadius+1, 2, accent)
		}
	}

	for _, g := range p.Gradients() {
		drawGradient(img, g)
		if g.Tracking() {
			drawIndicator(img, g.Bounds(), g.Offset())
		}
	}
	return img
}

// drawGradient fills the strip one pixel column at a time using the same
// interpolation a commit uses.
func drawGradient(img *image.RGBA, g *swatch.Gradient) {
	frame := g.Bounds()
	clip := frame.Image().Intersect(img.Bounds())
	for x := clip.Min.X; x < clip.Max.X; x++ {
		c := g.Interpolate(g.Delta(float64(x) + 0.5))
		col := image.Rect(x, clip.Min.Y, x+1, clip.Max.Y)
		draw.Draw(img, col, &image.Uniform{c.NRGBA()}, image.Point{}, draw.Src)
	}
}

// drawIndicator draws a vertical line at x across frame.
func drawIndicator(img *image.RGBA, frame geom.Rect, x float64) {
	px := int(math.Round(x))
	top, bottom := int(frame.Y)-2, int(math.Ceil(frame.Y+frame.H))+2
	shadow := image.Rect(px-1, top, px+2, bottom).Intersect(img.Bounds())
	draw.Draw(img, shadow, &image.Uniform{color.RGBA{0, 0, 0, 160}}, image.Point{}, draw.Over)
	line := image.Rect(px, top, px+1, bottom).Intersect(img.Bounds())
	draw.Draw(img, line, &image.Uniform{color.White}, image.Point{}, draw.Src)
}
