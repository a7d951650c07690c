// Package resolver assigns each work polygon the identifier of the label
// that belongs to it. Matching runs in fixed-size batches that yield back to
// the frame loop between chunks, so multi-thousand-feature sites never
// freeze interaction.
package resolver

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"

	"github.com/wesen/fieldmap/internal/feature"
	"github.com/wesen/fieldmap/pkg/geo"
	"github.com/wesen/fieldmap/pkg/gridindex"
)

const (
	// TightMatchM is the near-miss threshold for small features whose label
	// sits just outside their bounds.
	TightMatchM = 15
	// LooseMatchM is the last-resort radius for small features.
	LooseMatchM = 30
	// BatchSize is the number of polygons matched per frame chunk.
	BatchSize = 64
)

// Resolver matches polygons to labels incrementally. It is built once per
// load; a data reload discards the whole Resolver rather than resuming it.
type Resolver struct {
	polys   []*feature.Feature // descending bounding diagonal
	skipped int                // malformed geometry, matched nothing
	markers []geo.Marker
	index   *gridindex.Index

	claimed map[int]bool // marker index → claimed exclusively by a large feature
	next    int
}

// New prepares a resolver over the given polygons and label markers. The
// index must be built over the marker positions. Polygons with malformed
// geometry are dropped from matching but never abort the batch.
func New(polys []*feature.Feature, markers []geo.Marker, index *gridindex.Index) *Resolver {
	r := &Resolver{
		markers: markers,
		index:   index,
		claimed: make(map[int]bool),
	}
	for _, p := range polys {
		if p.Kind != feature.KindPolygon {
			continue
		}
		if !p.Precompute() {
			r.skipped++
			continue
		}
		r.polys = append(r.polys, p)
	}
	// Large features resolve first so they claim their label exclusively
	// before smaller features compete for the leftovers.
	sort.SliceStable(r.polys, func(i, j int) bool {
		return r.polys[i].DiagonalM > r.polys[j].DiagonalM
	})
	return r
}

// Done reports whether every polygon has been processed.
func (r *Resolver) Done() bool { return r.next >= len(r.polys) }

// Step matches up to n polygons and returns true when the run is complete.
func (r *Resolver) Step(n int) bool {
	if n <= 0 {
		n = BatchSize
	}
	for i := 0; i < n && r.next < len(r.polys); i++ {
		r.matchOne(r.polys[r.next])
		r.next++
	}
	return r.Done()
}

// Progress returns a coarse progress string for the footer.
func (r *Resolver) Progress() string {
	return fmt.Sprintf("matching %d/%d", r.next, len(r.polys))
}

// Assignments returns the resolved feature→label table.
func (r *Resolver) Assignments() map[string]string {
	out := make(map[string]string, len(r.polys))
	for _, p := range r.polys {
		if p.LabelID != "" {
			out[p.ID] = p.LabelID
		}
	}
	return out
}

// Groups returns, per label identifier, the small features sharing it.
// Large features claim exclusively and never appear in a group of more than
// one.
func (r *Resolver) Groups() map[string][]string {
	out := make(map[string][]string)
	for _, p := range r.polys {
		if p.LabelID != "" && p.Small {
			out[p.LabelID] = append(out[p.LabelID], p.ID)
		}
	}
	return out
}

func (r *Resolver) matchOne(f *feature.Feature) {
	query := f.Bound
	if f.Small {
		// Loose margin so a label sitting just outside a tiny feature still
		// shows up as a candidate.
		query = geo.PadBound(query, geo.MetersToDegrees(LooseMatchM, f.Centroid.Lat()))
	}

	var cands []int
	for _, mi := range r.index.QueryBounds(query) {
		if r.claimed[mi] {
			continue
		}
		cands = append(cands, mi)
	}

	// Strictly inside the polygon bounds beats everything.
	var inside []int
	for _, mi := range cands {
		p := r.markers[mi].Pos
		if f.Bound.Contains(p) {
			inside = append(inside, mi)
		}
	}

	switch {
	case len(inside) == 1:
		r.assign(f, inside[0])
	case len(inside) > 1:
		r.assign(f, r.nearest(inside, f.Centroid))
	case f.Small:
		if mi, ok := r.nearestWithin(cands, f.Centroid, TightMatchM); ok {
			r.assign(f, mi)
			return
		}
		// Last resort: the loosest radius, scanning every candidate. The
		// query bound was already padded by LooseMatchM so the candidate
		// list covers this radius around the centroid.
		if mi, ok := r.nearestWithin(cands, f.Centroid, LooseMatchM); ok {
			r.assign(f, mi)
		}
	}
}

func (r *Resolver) assign(f *feature.Feature, mi int) {
	f.LabelID = r.markers[mi].ID
	if !f.Small {
		r.claimed[mi] = true
	}
}

func (r *Resolver) nearest(idxs []int, to orb.Point) int {
	best := idxs[0]
	bestD := geo.HaversineMeters(to, r.markers[best].Pos)
	for _, mi := range idxs[1:] {
		if d := geo.HaversineMeters(to, r.markers[mi].Pos); d < bestD {
			best, bestD = mi, d
		}
	}
	return best
}

func (r *Resolver) nearestWithin(idxs []int, to orb.Point, maxM float64) (int, bool) {
	best, bestD := -1, maxM
	for _, mi := range idxs {
		if d := geo.HaversineMeters(to, r.markers[mi].Pos); d <= bestD {
			best, bestD = mi, d
		}
	}
	return best, best >= 0
}
