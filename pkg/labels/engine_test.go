package labels

import (
	"fmt"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/wesen/fieldmap/pkg/geo"
	"github.com/wesen/fieldmap/pkg/gridindex"
)

func testMarkers(n int) []geo.Marker {
	ms := make([]geo.Marker, n)
	for i := range ms {
		// 0.001° spacing along a row, wrapping every 50 markers.
		ms[i] = geo.Marker{
			ID:   fmt.Sprintf("M-%d", i),
			Pos:  orb.Point{float64(i%50) * 0.001, float64(i/50) * 0.001},
			Text: fmt.Sprintf("M-%d", i),
		}
	}
	return ms
}

func sourceFor(ms []geo.Marker) *gridindex.Index {
	pts := make([]orb.Point, len(ms))
	for i, m := range ms {
		pts[i] = m.Pos
	}
	return gridindex.Build(pts, 0.005)
}

func testSnapshot(vp orb.Bound) Snapshot {
	return Snapshot{
		Zoom:     16,
		Viewport: vp,
		ToScreen: func(p orb.Point) (int, int) {
			return int(p[0] * 10000), int(p[1] * 5000)
		},
		Width:  600,
		Height: 200,
	}
}

func TestFontSizeZoomCurve(t *testing.T) {
	e := NewEngine(DefaultParams())
	if got := e.FontSize(16); got != 12 {
		t.Fatalf("size at ref zoom = %v, want 12", got)
	}
	if got := e.FontSize(17); got != 24 {
		t.Fatalf("size one zoom in = %v, want 24", got)
	}
	// Clamps
	if got := e.FontSize(25); got != 28 {
		t.Fatalf("max clamp = %v, want 28", got)
	}
	if got := e.FontSize(5); got != 4 {
		t.Fatalf("min clamp = %v, want 4", got)
	}
}

func TestComputeCacheKeyShortCircuit(t *testing.T) {
	ms := testMarkers(10)
	e := NewEngine(DefaultParams())
	e.SetSource(ms, sourceFor(ms))

	snap := testSnapshot(orb.Bound{Min: orb.Point{-0.001, -0.001}, Max: orb.Point{0.06, 0.01}})
	if !e.Compute(snap) {
		t.Fatal("first compute should do work")
	}
	if e.Compute(snap) {
		t.Fatal("identical snapshot recomputed")
	}

	// A different viewport invalidates the key.
	snap2 := snap
	snap2.Viewport = orb.Bound{Min: orb.Point{0.01, -0.001}, Max: orb.Point{0.08, 0.01}}
	if !e.Compute(snap2) {
		t.Fatal("changed viewport did not recompute")
	}
}

func TestSetSourceInvalidatesCache(t *testing.T) {
	ms := testMarkers(5)
	e := NewEngine(DefaultParams())
	e.SetSource(ms, sourceFor(ms))

	snap := testSnapshot(orb.Bound{Min: orb.Point{-0.01, -0.01}, Max: orb.Point{0.06, 0.01}})
	e.Compute(snap)

	e.SetSource(ms, sourceFor(ms))
	if e.Pool().ActiveCount() != 0 {
		t.Fatal("SetSource should deactivate the pool")
	}
	if !e.Compute(snap) {
		t.Fatal("same snapshot after SetSource must recompute")
	}
}

func TestPoolSurvivesShrink(t *testing.T) {
	ms := testMarkers(500)
	p := DefaultParams()
	p.ViewportCap = 600
	e := NewEngine(p)
	e.SetSource(ms, sourceFor(ms))

	wide := testSnapshot(orb.Bound{Min: orb.Point{-0.01, -0.01}, Max: orb.Point{0.06, 0.02}})
	e.Compute(wide)
	grown := e.Pool().Size()
	if grown < 500 {
		t.Fatalf("pool grew to %d, want >= 500 active markers placed", grown)
	}

	// Narrow viewport: far fewer active labels, same pool size.
	narrow := testSnapshot(orb.Bound{Min: orb.Point{-0.0005, -0.0005}, Max: orb.Point{0.0015, 0.0005}})
	e.Compute(narrow)
	if e.Pool().Size() != grown {
		t.Fatalf("pool shrank from %d to %d", grown, e.Pool().Size())
	}
	if e.Pool().ActiveCount() >= grown {
		t.Fatal("narrow viewport should deactivate most labels")
	}
	for _, l := range e.Pool().Active() {
		if !l.Active {
			t.Fatal("entry in Active() not marked active")
		}
	}
}

func TestViewportCap(t *testing.T) {
	ms := testMarkers(600)
	p := DefaultParams()
	p.ViewportCap = 100
	e := NewEngine(p)
	e.SetSource(ms, sourceFor(ms))

	snap := testSnapshot(orb.Bound{Min: orb.Point{-0.01, -0.01}, Max: orb.Point{0.06, 0.02}})
	e.Compute(snap)
	if got := e.Pool().ActiveCount(); got > 100 {
		t.Fatalf("active = %d, cap is 100", got)
	}
}

func TestModeNoneHidesEverything(t *testing.T) {
	ms := testMarkers(10)
	p := DefaultParams()
	p.Mode = ModeNone
	e := NewEngine(p)
	e.SetSource(ms, sourceFor(ms))

	snap := testSnapshot(orb.Bound{Min: orb.Point{-0.01, -0.01}, Max: orb.Point{0.06, 0.01}})
	if !e.Compute(snap) {
		t.Fatal("first compute should still run")
	}
	if e.Pool().ActiveCount() != 0 {
		t.Fatal("ModeNone placed labels")
	}
}

func TestModeHoverRequiresCursor(t *testing.T) {
	ms := testMarkers(10)
	p := DefaultParams()
	p.Mode = ModeHover
	e := NewEngine(p)
	e.SetSource(ms, sourceFor(ms))

	snap := testSnapshot(orb.Bound{Min: orb.Point{-0.01, -0.01}, Max: orb.Point{0.06, 0.01}})
	snap.CursorOver = false
	e.Compute(snap)
	if e.Pool().ActiveCount() != 0 {
		t.Fatal("hover mode placed labels without cursor")
	}

	snap.CursorOver = true
	e.Compute(snap)
	if e.Pool().ActiveCount() == 0 {
		t.Fatal("hover mode placed nothing with cursor over canvas")
	}
}

func TestUnresolvableSizeSkipsLayer(t *testing.T) {
	ms := testMarkers(10)
	p := DefaultParams()
	p.MinSize = 0 // let the curve drop below MinResolvable
	e := NewEngine(p)
	e.SetSource(ms, sourceFor(ms))

	snap := testSnapshot(orb.Bound{Min: orb.Point{-0.01, -0.01}, Max: orb.Point{0.06, 0.01}})
	snap.Zoom = 10 // 12 * 2^-6 < 2
	e.Compute(snap)
	if e.Pool().ActiveCount() != 0 {
		t.Fatal("unresolvable size still placed labels")
	}
}

func TestCursorModeRanksByPixelDistance(t *testing.T) {
	ms := testMarkers(50)
	p := DefaultParams()
	p.Mode = ModeCursor
	p.CursorCap = 3
	e := NewEngine(p)
	e.SetSource(ms, sourceFor(ms))

	snap := testSnapshot(orb.Bound{Min: orb.Point{-0.01, -0.01}, Max: orb.Point{0.06, 0.01}})
	snap.CursorOver = true
	// Cursor at marker 10's screen position.
	snap.CursorPxX, snap.CursorPxY = snap.ToScreen(ms[10].Pos)
	snap.CursorRegion = orb.Bound{
		Min: orb.Point{ms[10].Pos[0] - 0.005, ms[10].Pos[1] - 0.005},
		Max: orb.Point{ms[10].Pos[0] + 0.005, ms[10].Pos[1] + 0.005},
	}
	e.Compute(snap)

	active := e.Pool().Active()
	if len(active) != 3 {
		t.Fatalf("active = %d, want cursor cap 3", len(active))
	}
	if active[0].MarkerIdx != 10 {
		t.Fatalf("closest label is marker %d, want 10", active[0].MarkerIdx)
	}
	// Ranked: each label at least as close as the next.
	for i := 1; i < len(active); i++ {
		di := pxDist(active[i-1], snap)
		dj := pxDist(active[i], snap)
		if di > dj {
			t.Fatalf("labels not ranked by distance: %d then %d", di, dj)
		}
	}
	// Cursor mode forces redraw every computation.
	for _, l := range active {
		if !l.Dirty {
			t.Fatal("cursor-mode label not marked dirty")
		}
	}
}

func pxDist(l *Label, snap Snapshot) int {
	dx, dy := l.X-snap.CursorPxX, l.Y-snap.CursorPxY
	return dx*dx + dy*dy
}

func TestDirtyOnlyWhenChanged(t *testing.T) {
	ms := testMarkers(5)
	e := NewEngine(DefaultParams())
	e.SetSource(ms, sourceFor(ms))

	snap := testSnapshot(orb.Bound{Min: orb.Point{-0.01, -0.01}, Max: orb.Point{0.06, 0.01}})
	e.Compute(snap)

	// Nudge the viewport so the key changes but projections stay identical.
	snap2 := snap
	snap2.Viewport.Max[0] += 0.001
	e.Compute(snap2)
	for _, l := range e.Pool().Active() {
		if l.Dirty {
			t.Fatal("unchanged label marked dirty")
		}
	}
}

func TestBadgeAxes(t *testing.T) {
	ms := testMarkers(5)
	e := NewEngine(DefaultParams())
	e.SetSource(ms, sourceFor(ms))

	vp := orb.Bound{Min: orb.Point{-0.01, -0.01}, Max: orb.Point{0.06, 0.01}}

	snap := testSnapshot(vp)
	snap.Zoom = 16 // above BadgeMinZoom 15
	e.Compute(snap)
	for _, l := range e.Pool().Active() {
		if !l.Badge || l.Dimmed {
			t.Fatal("expected badge visible, not dimmed, above badge zoom")
		}
	}

	snap.Zoom = 14 // below badge zoom, size 6 still resolvable but under StrokeMinSize
	e.Compute(snap)
	for _, l := range e.Pool().Active() {
		if l.Badge || !l.Dimmed {
			t.Fatal("expected dimmed substitute below badge zoom")
		}
		if l.Bold {
			t.Fatal("expected outline dropped under StrokeMinSize")
		}
	}
}

func TestParamsValidate(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}

	bad := p
	bad.Mode = "sometimes"
	if err := bad.Validate(); err == nil {
		t.Fatal("unknown mode accepted")
	}

	bad = p
	bad.BaseSize = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("zero base size accepted")
	}

	bad = p
	bad.CursorCap = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("zero cap accepted")
	}
}

func TestFontSizeUnclamped(t *testing.T) {
	p := DefaultParams()
	p.MinSize = 0
	p.MaxSize = 0
	e := NewEngine(p)
	want := 12 * math.Pow(2, 4)
	if got := e.FontSize(20); got != want {
		t.Fatalf("unclamped size = %v, want %v", got, want)
	}
}
