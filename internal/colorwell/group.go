package colorwell

// Group is a set of wells sharing one color panel. Activating a well
// exclusively deactivates every other active well in its group.
type Group struct {
	wells []*Well
}

// NewGroup returns a group containing wells.
func NewGroup(wells ...*Well) *Group {
	g := &Group{}
	for _, w := range wells {
		g.Add(w)
	}
	return g
}

// Add puts w in g, removing it from any previous group.
func (g *Group) Add(w *Well) {
	if w.group == g {
		return
	}
	if w.group != nil {
		w.group.remove(w)
	}
	w.group = g
	g.wells = append(g.wells, w)
}

// Wells returns the members in the order they were added.
func (g *Group) Wells() []*Well {
	return g.wells
}

// Active returns the active members.
func (g *Group) Active() []*Well {
	var active []*Well
	for _, w := range g.wells {
		if w.IsActive() {
			active = append(active, w)
		}
	}
	return active
}

func (g *Group) remove(w *Well) {
	for i, m := range g.wells {
		if m == w {
			g.wells = append(g.wells[:i], g.wells[i+1:]...)
			return
		}
	}
}

// deactivateOthers deactivates every active member except w.
func (g *Group) deactivateOthers(w *Well) {
	for _, m := range g.wells {
		if m != w && m.IsActive() {
			m.Deactivate()
		}
	}
}
