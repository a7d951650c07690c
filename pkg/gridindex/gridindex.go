// Package gridindex implements a uniform-cell spatial index over point
// positions. Cells are keyed by integer division of longitude/latitude by a
// fixed angular cell size, so several independent indices with different cell
// sizes can serve consumers with different distance semantics (screen-space
// label lookups vs. meter-scale graph snapping).
package gridindex

import (
	"math"

	"github.com/paulmach/orb"
)

// DefaultMaxRings caps the expanding nearest-neighbor search.
const DefaultMaxRings = 12

// CellKey identifies one grid cell.
type CellKey struct {
	X, Y int
}

// DistanceFunc scores a candidate against the query point. Lower is closer.
type DistanceFunc func(query, candidate orb.Point) float64

// Index partitions a point slice into uniform cells. It stores indices into
// the slice given to Build, never copies of the points; the slice must stay
// alive and unmutated for the index lifetime.
type Index struct {
	cellSize float64
	cells    map[CellKey][]int
	points   []orb.Point
	maxRings int
}

// Build creates an index over points with the given angular cell size.
// A non-positive cell size yields an empty index that matches nothing.
func Build(points []orb.Point, cellSize float64) *Index {
	ix := &Index{
		cellSize: cellSize,
		cells:    make(map[CellKey][]int),
		points:   points,
		maxRings: DefaultMaxRings,
	}
	if cellSize <= 0 {
		return ix
	}
	for i, p := range points {
		k := ix.keyFor(p)
		ix.cells[k] = append(ix.cells[k], i)
	}
	return ix
}

// SetMaxRings overrides the ring ceiling for QueryNearest.
func (ix *Index) SetMaxRings(n int) {
	if n > 0 {
		ix.maxRings = n
	}
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return len(ix.points) }

// CellSize returns the angular cell size the index was built with.
func (ix *Index) CellSize() float64 { return ix.cellSize }

func (ix *Index) keyFor(p orb.Point) CellKey {
	return CellKey{
		X: int(math.Floor(p[0] / ix.cellSize)),
		Y: int(math.Floor(p[1] / ix.cellSize)),
	}
}

// QueryBounds returns the indices of all points whose cell intersects the
// bound. Every point inside the bound is returned; points just outside may be
// returned too (cell-boundary false positives), the caller applies its own
// containment check.
func (ix *Index) QueryBounds(b orb.Bound) []int {
	if ix.cellSize <= 0 || len(ix.points) == 0 {
		return nil
	}
	minX := int(math.Floor(b.Min[0] / ix.cellSize))
	maxX := int(math.Floor(b.Max[0] / ix.cellSize))
	minY := int(math.Floor(b.Min[1] / ix.cellSize))
	maxY := int(math.Floor(b.Max[1] / ix.cellSize))

	var out []int
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			out = append(out, ix.cells[CellKey{X: cx, Y: cy}]...)
		}
	}
	return out
}

// QueryNearest expands a ring search around p cell by cell. As soon as a ring
// produces a candidate scoring under maxDist, that ring is finished and the
// best candidate seen so far is returned. The search gives up after the ring
// ceiling. dist defaults to squared angular distance when nil.
func (ix *Index) QueryNearest(p orb.Point, maxDist float64, dist DistanceFunc) (int, float64, bool) {
	if ix.cellSize <= 0 || len(ix.points) == 0 {
		return 0, 0, false
	}
	if dist == nil {
		dist = SquaredDegrees
	}
	center := ix.keyFor(p)

	best := -1
	bestDist := math.Inf(1)

	scan := func(k CellKey) {
		for _, i := range ix.cells[k] {
			if d := dist(p, ix.points[i]); d < bestDist {
				best = i
				bestDist = d
			}
		}
	}

	for ring := 0; ring <= ix.maxRings; ring++ {
		if ring == 0 {
			scan(center)
		} else {
			for cx := center.X - ring; cx <= center.X+ring; cx++ {
				scan(CellKey{X: cx, Y: center.Y - ring})
				scan(CellKey{X: cx, Y: center.Y + ring})
			}
			for cy := center.Y - ring + 1; cy <= center.Y+ring-1; cy++ {
				scan(CellKey{X: center.X - ring, Y: cy})
				scan(CellKey{X: center.X + ring, Y: cy})
			}
		}
		if best >= 0 && bestDist <= maxDist {
			return best, bestDist, true
		}
	}
	return 0, 0, false
}

// SquaredDegrees is the default DistanceFunc: squared angular distance, cheap
// and monotonic with true distance at small spans.
func SquaredDegrees(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
