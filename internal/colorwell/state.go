package colorwell

import (
	"strings"

	"github.com/phinze/colorwell/internal/geom"
)

// State is the well's rendering state.
type State struct {
	ColorHover bool
	ColorTrack bool
	WheelHover bool
	WheelTrack bool

	// DragAccepting is set while a dragged color hovers over the well.
	DragAccepting bool

	// Active mirrors the shared color panel being bound to this well.
	Active bool
}

// hover sets the hover flags for a pointer in region. At most one is set.
func (s *State) hover(region geom.Region) {
	s.ColorHover = region == geom.RegionColor
	s.WheelHover = region == geom.RegionWheel
}

// track sets the track flags for a press in region.
func (s *State) track(region geom.Region) {
	s.ColorTrack = region == geom.RegionColor
	s.WheelTrack = region == geom.RegionWheel
}

func (s State) String() string {
	var parts []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{s.ColorHover, "color-hover"},
		{s.ColorTrack, "color-track"},
		{s.WheelHover, "wheel-hover"},
		{s.WheelTrack, "wheel-track"},
		{s.DragAccepting, "drag-accepting"},
		{s.Active, "active"},
	} {
		if f.on {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "idle"
	}
	return strings.Join(parts, ",")
}
