package trench

import "github.com/paulmach/orb"

// Highlight is one named, individually removable path overlay.
type Highlight struct {
	Name     string
	Path     []orb.Point
	Meters   float64
	Fallback bool // straight-line connector, not a routed path
}

// HighlightSet holds the concurrently visible highlights in insertion order.
type HighlightSet struct {
	items []Highlight
}

// Add inserts or replaces the highlight with the given name.
func (h *HighlightSet) Add(hl Highlight) {
	for i := range h.items {
		if h.items[i].Name == hl.Name {
			h.items[i] = hl
			return
		}
	}
	h.items = append(h.items, hl)
}

// Remove deletes the named highlight. Removing an absent name is a no-op;
// the remaining highlights are untouched (no recomputation).
func (h *HighlightSet) Remove(name string) {
	for i := range h.items {
		if h.items[i].Name == name {
			h.items = append(h.items[:i], h.items[i+1:]...)
			return
		}
	}
}

// All returns the highlights in insertion order.
func (h *HighlightSet) All() []Highlight { return h.items }

// Clear drops every highlight.
func (h *HighlightSet) Clear() { h.items = nil }

// NearestAt returns the name of the highlight with a vertex closest to p
// within maxDist (per dist func), for remove-by-gesture. ok is false when
// nothing is close enough.
func (h *HighlightSet) NearestAt(p orb.Point, maxDist float64, dist func(a, b orb.Point) float64) (string, bool) {
	bestName := ""
	best := maxDist
	for _, hl := range h.items {
		for _, v := range hl.Path {
			if d := dist(p, v); d <= best {
				best = d
				bestName = hl.Name
			}
		}
	}
	return bestName, bestName != ""
}
