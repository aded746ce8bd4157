// Package render rasterises wells, the palette popover and the drag ghost
// into images a surface can present.
package render

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/rgba"
)

//go:embed icons/wheel.svg
var wheelSVG string

// Colors
var (
	colorBackground = color.RGBA{25, 25, 25, 255}
	colorBezel      = color.RGBA{58, 58, 60, 255}
	colorBezelHover = color.RGBA{72, 72, 74, 255}
	colorOutline    = color.RGBA{90, 90, 92, 255}
	colorPanel      = color.RGBA{40, 40, 40, 255}
	colorGlyph      = color.RGBA{160, 160, 160, 255}
	colorText       = color.RGBA{230, 230, 230, 255}
	colorHoverTint  = color.NRGBA{255, 255, 255, 40}
	colorTrackTint  = color.NRGBA{0, 0, 0, 70}
	colorCheckLight = color.RGBA{204, 204, 204, 255}
	colorCheckDark  = color.RGBA{150, 150, 150, 255}
)

const (
	bezelRadius  = 6
	regionInset  = 4
	swatchRadius = 3
	checkSize    = 6
)

// Renderer draws widgets. It holds parsed font faces and is safe to reuse.
type Renderer struct {
	statusFace font.Face
}

// New parses the fonts a Renderer needs.
func New() (*Renderer, error) {
	tt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse status font: %w", err)
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    13,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create status face: %w", err)
	}
	return &Renderer{statusFace: face}, nil
}

// Background fills dst with the surface background.
func Background(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{colorBackground}, image.Point{}, draw.Src)
}

// StatusLine draws text with its baseline-left corner at at.
func (r *Renderer) StatusLine(dst *image.RGBA, text string, at image.Point) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(colorText),
		Face: r.statusFace,
		Dot:  fixed.Point26_6{X: fixed.I(at.X), Y: fixed.I(at.Y)},
	}
	d.DrawString(text)
}

// MeasureStatus returns the advance width of text in the status face.
func (r *Renderer) MeasureStatus(text string) int {
	return font.MeasureString(r.statusFace, text).Ceil()
}

// Ghost draws the image that follows the pointer during a color drag.
func Ghost(c rgba.Color, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)
	fillRoundRect(img, geom.R(0, 0, s, s), swatchRadius, color.RGBA{255, 255, 255, 220})
	inner := geom.R(0, 0, s, s).Inset(2)
	checker(img, inner)
	fillRoundRect(img, inner, swatchRadius-1, c.WithAlpha(c.A*0.85))
	return img
}

// newTile allocates a transparent image for a rect in local coordinates.
func newTile(b geom.Rect) *image.RGBA {
	w := int(math.Ceil(b.W))
	h := int(math.Ceil(b.H))
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func fillRoundRect(img *image.RGBA, r geom.Rect, radius float64, c color.Color) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	filler := rasterx.NewFiller(w, h, scanner)
	filler.SetColor(c)
	rasterx.AddRoundRect(r.X, r.Y, r.X+r.W, r.Y+r.H, radius, radius, 0, rasterx.RoundGap, filler)
	filler.Draw()
}

func strokeRoundRect(img *image.RGBA, r geom.Rect, radius, width float64, c color.Color) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	stroker := rasterx.NewStroker(w, h, scanner)
	stroker.SetStroke(fixed.Int26_6(width*64), 4*64, rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.Round)
	stroker.SetColor(c)
	rasterx.AddRoundRect(r.X, r.Y, r.X+r.W, r.Y+r.H, radius, radius, 0, rasterx.RoundGap, stroker)
	stroker.Draw()
}

// checker draws a transparency checkerboard clipped to r.
func checker(img *image.RGBA, r geom.Rect) {
	clip := r.Image().Intersect(img.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y += checkSize {
		for x := clip.Min.X; x < clip.Max.X; x += checkSize {
			c := colorCheckLight
			if ((x-clip.Min.X)/checkSize+(y-clip.Min.Y)/checkSize)%2 == 1 {
				c = colorCheckDark
			}
			cell := image.Rect(x, y, x+checkSize, y+checkSize).Intersect(clip)
			draw.Draw(img, cell, &image.Uniform{c}, image.Point{}, draw.Src)
		}
	}
}

// renderSVGIcon renders an SVG string to a square image of the given size
// with currentColor replaced by iconColor.
func renderSVGIcon(svgContent string, size int, iconColor color.Color) image.Image {
	r, g, b, _ := iconColor.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		log.Printf("Failed to parse SVG: %v", err)
		return img
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return img
}
