package coordinator

import (
	"image"
	"image/color"
	"log"
	"math"

	"golang.org/x/image/draw"

	"github.com/phinze/colorwell/internal/render"
	"github.com/phinze/colorwell/internal/swatch"
)

// flush presents a new frame if anything changed since the last one.
func (c *Coordinator) flush() {
	if !c.dirty {
		return
	}
	c.dirty = false
	if err := c.surface.Present(c.compose()); err != nil {
		log.Printf("Error presenting frame: %v", err)
	}
}

// compose draws the whole surface: background, wells, status line, the
// open popover and the drag ghost, in that order.
func (c *Coordinator) compose() *image.RGBA {
	bounds := c.surface.Bounds()
	dst := image.NewRGBA(bounds)
	render.Background(dst)

	for _, s := range c.slots {
		if s.tile == nil {
			continue
		}
		at := s.pixelOrigin()
		draw.Draw(dst, s.tile.Bounds().Add(at), s.tile, image.Point{}, draw.Over)
	}

	if c.status != "" {
		c.renderer.StatusLine(dst, c.status, image.Pt(8, bounds.Dy()-8))
	}

	if s := c.owner; s != nil {
		c.drawPopover(dst, s)
	}

	if d := c.drag; d != nil {
		ghost := render.Ghost(d.color, ghostSize)
		at := image.Pt(
			int(math.Round(d.at.X))-ghostSize/2,
			int(math.Round(d.at.Y))-ghostSize/2,
		)
		draw.Draw(dst, ghost.Bounds().Add(at), ghost, image.Point{}, draw.Over)
	}
	return dst
}

func (c *Coordinator) drawPopover(dst *image.RGBA, s *slot) {
	ctrl := s.well.Popover()
	if ctrl == nil || !ctrl.Shown() {
		return
	}
	palette := c.paletteOf(s)
	if palette == nil {
		return
	}
	if c.popoverImg == nil || c.popoverDirty {
		c.popoverImg = c.renderer.Palette(palette, c.accent)
		c.popoverDirty = false
	}

	frame, _ := ctrl.Frame()
	origin := frame.Offset(s.origin).Image().Min
	r := c.popoverImg.Bounds().Add(origin)

	alpha := c.fadeAlpha
	if c.fade == nil {
		alpha = 1
	}
	if alpha >= 1 {
		draw.Draw(dst, r, c.popoverImg, image.Point{}, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})
	draw.DrawMask(dst, r, c.popoverImg, image.Point{}, mask, image.Point{}, draw.Over)
}

// paletteOf returns the palette inside a well's popover, or nil before it
// was first shown.
func (c *Coordinator) paletteOf(s *slot) *swatch.Palette {
	ctrl := s.well.Popover()
	if ctrl == nil {
		return nil
	}
	p, _ := ctrl.Content().(*swatch.Palette)
	return p
}
