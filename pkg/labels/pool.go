package labels

// Label is one pooled, reusable drawable. Entries are never destroyed during
// a session; when the active count shrinks they are deactivated in place and
// reassigned on the next computation.
type Label struct {
	MarkerIdx int // index into the engine's marker slice
	X, Y      int // screen cell position
	Text      string
	Angle     float64
	Size      float64
	Bold      bool // glyph outline treatment
	Badge     bool // background box visible
	Dimmed    bool // badge hidden, substitute text color
	Active    bool // member of the render layer

	// Dirty marks entries whose attributes changed in the last computation.
	// It is advisory: a renderer that rebuilds its canvas every frame must
	// repaint all active entries and can ignore it.
	Dirty bool
}

// Pool owns the label instances. Only the engine mutates it.
type Pool struct {
	entries []*Label
	active  int
}

// Size returns the total number of pooled instances, active or not.
func (p *Pool) Size() int { return len(p.entries) }

// ActiveCount returns the number of entries currently on the render layer.
func (p *Pool) ActiveCount() int { return p.active }

// Active returns the active entries in rank order.
func (p *Pool) Active() []*Label { return p.entries[:p.active] }

// at grows the pool up to index i and returns that entry.
func (p *Pool) at(i int) *Label {
	for len(p.entries) <= i {
		p.entries = append(p.entries, &Label{MarkerIdx: -1})
	}
	return p.entries[i]
}

// setActive marks the first n entries active and deactivates the rest that
// were active before. Deactivated entries keep their storage.
func (p *Pool) setActive(n int) {
	for i := n; i < p.active; i++ {
		p.entries[i].Active = false
		p.entries[i].Dirty = false
	}
	p.active = n
	for i := 0; i < n; i++ {
		p.entries[i].Active = true
	}
}
