// Package geom holds the rectangle and point types used for hit-testing and
// the fixed proportional split of a color well into its two regions.
package geom

import (
	"image"
	"math"
)

// colorSplit is the share of the well's width taken by the color region.
// The wheel region takes the remainder so both always add up to the width.
const colorSplit = 0.6969

// Point is a location in widget-local coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is an axis-aligned rectangle. Y grows downward.
type Rect struct {
	X, Y, W, H float64
}

// R is shorthand for Rect{X: x, Y: y, W: w, H: h}.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Contains reports whether p lies inside r. Points on the edge are inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Max returns the corner opposite the origin.
func (r Rect) Max() Point {
	return Point{X: r.X + r.W, Y: r.Y + r.H}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Offset returns r moved by d.
func (r Rect) Offset(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Inset shrinks r by n on every side. Negative n grows it.
func (r Rect) Inset(n float64) Rect {
	w := math.Max(0, r.W-2*n)
	h := math.Max(0, r.H-2*n)
	return Rect{X: r.X + n, Y: r.Y + n, W: w, H: h}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Image converts r to an integer image.Rectangle, rounding outward.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)),
	)
}

// FromImage converts an image.Rectangle to a Rect.
func FromImage(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

// Region identifies which part of a color well a point falls in.
type Region uint8

const (
	RegionNone  Region = iota // outside both regions
	RegionColor               // the color swatch region
	RegionWheel               // the wheel affordance
)

func (r Region) String() string {
	switch r {
	case RegionColor:
		return "color"
	case RegionWheel:
		return "wheel"
	default:
		return "none"
	}
}

// ColorRegion returns the color swatch region for a well with the given
// bounds. It is recomputed on every call so resizes are always honoured.
func ColorRegion(bounds Rect) Rect {
	return Rect{X: 0, Y: 0, W: colorSplit * bounds.W, H: bounds.H}
}

// WheelRegion returns the wheel region. It starts exactly where the color
// region ends and extends to the full width.
func WheelRegion(bounds Rect) Rect {
	cw := colorSplit * bounds.W
	return Rect{X: cw, Y: 0, W: bounds.W - cw, H: bounds.H}
}

// Classify reports the region containing p. The wheel is tested first so
// the shared edge belongs to the wheel.
func Classify(bounds Rect, p Point) Region {
	if WheelRegion(bounds).Contains(p) {
		return RegionWheel
	}
	if ColorRegion(bounds).Contains(p) {
		return RegionColor
	}
	return RegionNone
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
