package labels

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/wesen/fieldmap/pkg/geo"
	"github.com/wesen/fieldmap/pkg/gridindex"
)

// Snapshot is the frozen view/cursor state one computation works from. It is
// captured at schedule time; a computation never mixes two snapshots.
type Snapshot struct {
	Zoom     float64
	Viewport orb.Bound

	CursorOver   bool // cursor is over the canvas
	CursorPxX    int
	CursorPxY    int
	CursorRegion orb.Bound // geo region around the cursor, cursor mode only

	// ToScreen projects a position to canvas cell coordinates.
	ToScreen func(orb.Point) (int, int)
	Width    int
	Height   int
}

// cacheKey is the redraw-suppression key: identical keys mean the previous
// computation is still valid and all work is skipped.
type cacheKey struct {
	zoom       int64
	minX, minY int64
	maxX, maxY int64
	cursorX    int
	cursorY    int
	cursorOver bool
	generation uint64
}

// Engine computes visible label placements from a snapshot, reusing the pool.
type Engine struct {
	params  Params
	markers []geo.Marker
	index   *gridindex.Index
	pool    Pool

	lastKey cacheKey
	haveKey bool
	gen     uint64
}

// NewEngine creates an engine with no source markers.
func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// SetSource replaces the marker slice and its grid index. Pending cache state
// is invalidated; pooled instances survive and are reassigned.
func (e *Engine) SetSource(markers []geo.Marker, index *gridindex.Index) {
	e.markers = markers
	e.index = index
	e.gen++
	e.haveKey = false
	e.pool.setActive(0)
}

// Params returns the engine configuration.
func (e *Engine) Params() Params { return e.params }

// Pool exposes the label pool for the renderer.
func (e *Engine) Pool() *Pool { return &e.pool }

// FontSize returns the zoom-relative size, clamped. A return under
// MinResolvable means the layer is skipped entirely at this zoom.
func (e *Engine) FontSize(zoom float64) float64 {
	size := e.params.BaseSize * math.Pow(2, zoom-e.params.RefZoom)
	if e.params.MinSize > 0 && size < e.params.MinSize {
		size = e.params.MinSize
	}
	if e.params.MaxSize > 0 && size > e.params.MaxSize {
		size = e.params.MaxSize
	}
	return size
}

func (e *Engine) keyOf(snap Snapshot) cacheKey {
	k := cacheKey{
		zoom:       int64(math.Round(snap.Zoom * 100)),
		minX:       int64(math.Round(snap.Viewport.Min[0] * 1e4)),
		minY:       int64(math.Round(snap.Viewport.Min[1] * 1e4)),
		maxX:       int64(math.Round(snap.Viewport.Max[0] * 1e4)),
		maxY:       int64(math.Round(snap.Viewport.Max[1] * 1e4)),
		cursorOver: snap.CursorOver,
		generation: e.gen,
	}
	if e.params.Mode == ModeCursor {
		k.cursorX = snap.CursorPxX
		k.cursorY = snap.CursorPxY
	}
	return k
}

// Compute recomputes label placements for the snapshot. It returns false
// without touching the pool when the cache key matches the previous call;
// computation cost is proportional to change, not to frame count.
func (e *Engine) Compute(snap Snapshot) bool {
	key := e.keyOf(snap)
	if e.haveKey && key == e.lastKey {
		return false
	}
	e.lastKey = key
	e.haveKey = true

	size := e.FontSize(snap.Zoom)
	hidden := e.params.Mode == ModeNone ||
		size < e.params.MinResolvable ||
		(e.params.Mode == ModeHover && !snap.CursorOver) ||
		(e.params.Mode == ModeCursor && !snap.CursorOver)
	if hidden {
		e.pool.setActive(0)
		return true
	}

	cursorMode := e.params.Mode == ModeCursor
	ranked := e.candidates(snap, cursorMode)

	badge := snap.Zoom >= e.params.BadgeMinZoom
	bold := size >= e.params.StrokeMinSize

	n := 0
	for _, mi := range ranked {
		m := &e.markers[mi]
		x, y := snap.ToScreen(m.Pos)
		if x < 0 || y < 0 || x >= snap.Width || y >= snap.Height {
			continue
		}
		l := e.pool.at(n)
		changed := l.MarkerIdx != mi || l.X != x || l.Y != y ||
			l.Text != m.Text || l.Angle != m.Angle ||
			l.Size != size || l.Badge != badge || l.Bold != bold
		l.MarkerIdx = mi
		l.X, l.Y = x, y
		l.Text = m.Text
		l.Angle = m.Angle
		l.Size = size
		l.Bold = bold
		l.Badge = badge
		l.Dimmed = !badge
		// Cursor mode redraws unconditionally: per-pixel movement would
		// otherwise leave residual glyphs behind.
		l.Dirty = changed || cursorMode
		n++
	}
	e.pool.setActive(n)
	return true
}

// candidates returns marker indices to place, capped and (in cursor mode)
// ranked by squared pixel distance so the closest labels always win.
func (e *Engine) candidates(snap Snapshot, cursorMode bool) []int {
	region := snap.Viewport
	limit := e.params.ViewportCap
	if cursorMode {
		region = snap.CursorRegion
		limit = e.params.CursorCap
	}

	var idxs []int
	if e.index != nil {
		idxs = e.index.QueryBounds(region)
	} else {
		idxs = make([]int, len(e.markers))
		for i := range e.markers {
			idxs[i] = i
		}
	}

	if cursorMode {
		type scored struct {
			idx  int
			dist int
		}
		sc := make([]scored, 0, len(idxs))
		for _, i := range idxs {
			x, y := snap.ToScreen(e.markers[i].Pos)
			dx, dy := x-snap.CursorPxX, y-snap.CursorPxY
			sc = append(sc, scored{idx: i, dist: dx*dx + dy*dy})
		}
		sort.Slice(sc, func(a, b int) bool { return sc[a].dist < sc[b].dist })
		if len(sc) > limit {
			sc = sc[:limit]
		}
		out := make([]int, len(sc))
		for i, s := range sc {
			out[i] = s.idx
		}
		return out
	}

	if len(idxs) > limit {
		idxs = idxs[:limit]
	}
	return idxs
}
