package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/phinze/colorwell/internal/colorwell"
	"github.com/phinze/colorwell/internal/geom"
)

// Well draws one well in its own coordinates: origin at zero, sized to
// the frame bounds.
func (r *Renderer) Well(f colorwell.Frame) *image.RGBA {
	local := geom.R(0, 0, f.Bounds.W, f.Bounds.H)
	img := newTile(local)
	st := f.State

	bezel := colorBezel
	if st.ColorHover || st.WheelHover {
		bezel = colorBezelHover
	}
	fillRoundRect(img, local, bezelRadius, bezel)

	// color region
	swatchRect := geom.ColorRegion(local).Inset(regionInset)
	if f.Color.A < 1 {
		checker(img, swatchRect)
	}
	fillRoundRect(img, swatchRect, swatchRadius, f.Color)
	switch {
	case st.ColorTrack:
		fillRoundRect(img, swatchRect, swatchRadius, colorTrackTint)
	case st.ColorHover:
		fillRoundRect(img, swatchRect, swatchRadius, colorHoverTint)
	}

	// wheel region
	wheel := geom.WheelRegion(local)
	glyphColor := color.Color(colorGlyph)
	if st.Active {
		glyphColor = f.Accent
	}
	if st.WheelTrack {
		fillRoundRect(img, wheel.Inset(2), swatchRadius, colorTrackTint)
	} else if st.WheelHover {
		fillRoundRect(img, wheel.Inset(2), swatchRadius, colorHoverTint)
	}
	if size := int(math.Min(wheel.W, wheel.H)) - 2*regionInset; size > 0 {
		glyph := renderSVGIcon(wheelSVG, size, glyphColor)
		at := image.Pt(
			int(wheel.X+(wheel.W-float64(size))/2),
			int(wheel.Y+(wheel.H-float64(size))/2),
		)
		draw.Draw(img, glyph.Bounds().Add(at), glyph, image.Point{}, draw.Over)
	}

	outline := color.Color(colorOutline)
	width := 1.0
	if st.DragAccepting {
		outline = f.Accent
		width = 2
	}
	strokeRoundRect(img, local.Inset(width/2), bezelRadius, width, outline)
	return img
}
