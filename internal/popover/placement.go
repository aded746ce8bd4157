package popover

import "github.com/phinze/colorwell/internal/geom"

// Edge is the side of the anchor the popover appears on.
type Edge uint8

const (
	EdgeBottom Edge = iota
	EdgeTop
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeBottom:
		return "bottom"
	case EdgeTop:
		return "top"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	}
	return "unknown"
}

// Opposite returns the edge across the anchor from e.
func (e Edge) Opposite() Edge {
	switch e {
	case EdgeTop:
		return EdgeBottom
	case EdgeLeft:
		return EdgeRight
	case EdgeRight:
		return EdgeLeft
	}
	return EdgeTop
}

// Vertical reports whether e places the popover above or below the anchor.
func (e Edge) Vertical() bool {
	return e == EdgeBottom || e == EdgeTop
}

// Place positions a popover of the given size next to anchor. The
// preferred edge is tried first, then its opposite, then the two edges on
// the other axis. The first edge with room along its axis wins; the frame
// is then clamped into within. If nothing fits the preferred edge is used.
// An empty within disables fitting and clamping.
func Place(anchor geom.Rect, size geom.Point, preferred Edge, within geom.Rect) (geom.Rect, Edge) {
	if within.Empty() {
		return beside(anchor, size, preferred), preferred
	}

	candidates := []Edge{preferred, preferred.Opposite()}
	if preferred.Vertical() {
		candidates = append(candidates, EdgeRight, EdgeLeft)
	} else {
		candidates = append(candidates, EdgeBottom, EdgeTop)
	}

	for _, edge := range candidates {
		r := beside(anchor, size, edge)
		if fitsAlong(r, within, edge) {
			return clampInto(r, within), edge
		}
	}
	return clampInto(beside(anchor, size, preferred), within), preferred
}

func beside(anchor geom.Rect, size geom.Point, edge Edge) geom.Rect {
	cx := anchor.X + anchor.W/2 - size.X/2
	cy := anchor.Y + anchor.H/2 - size.Y/2
	switch edge {
	case EdgeTop:
		return geom.R(cx, anchor.Y-size.Y, size.X, size.Y)
	case EdgeLeft:
		return geom.R(anchor.X-size.X, cy, size.X, size.Y)
	case EdgeRight:
		return geom.R(anchor.X+anchor.W, cy, size.X, size.Y)
	}
	return geom.R(cx, anchor.Y+anchor.H, size.X, size.Y)
}

func fitsAlong(r, within geom.Rect, edge Edge) bool {
	if edge.Vertical() {
		return r.Y >= within.Y && r.Y+r.H <= within.Y+within.H
	}
	return r.X >= within.X && r.X+r.W <= within.X+within.W
}

func clampInto(r, within geom.Rect) geom.Rect {
	r.X = clampSpan(r.X, r.W, within.X, within.W)
	r.Y = clampSpan(r.Y, r.H, within.Y, within.H)
	return r
}

// clampSpan keeps [v, v+n] inside [lo, lo+span], preferring the low side
// when n is larger than span.
func clampSpan(v, n, lo, span float64) float64 {
	if v+n > lo+span {
		v = lo + span - n
	}
	if v < lo {
		v = lo
	}
	return v
}
