package drawutil

import (
	"image"

	"github.com/wesen/fieldmap/pkg/cellbuf"
)

// pointChar returns the line character for a point based on its local
// direction (looking at the next or previous point).
func pointChar(pts []image.Point, i int) rune {
	var dx, dy int
	if i < len(pts)-1 {
		dx = pts[i+1].X - pts[i].X
		dy = pts[i+1].Y - pts[i].Y
	} else if i > 0 {
		dx = pts[i].X - pts[i-1].X
		dy = pts[i].Y - pts[i-1].Y
	}
	return LineChar(dx, dy)
}

// DrawLine draws a Bresenham line into buf with per-point line characters.
// Coordinates are buffer-local.
func DrawLine(buf *cellbuf.Buffer, x0, y0, x1, y1 int, style cellbuf.StyleKey) {
	pts := Bresenham(x0, y0, x1, y1)
	for i, p := range pts {
		buf.Set(p.X, p.Y, pointChar(pts, i), style)
	}
}

// DrawDashedLine draws a dashed Bresenham line (every 3rd point skipped).
// Used for straight-line fallback connectors when a path could not be routed
// through the trench graph.
func DrawDashedLine(buf *cellbuf.Buffer, x0, y0, x1, y1 int, style cellbuf.StyleKey) {
	pts := Bresenham(x0, y0, x1, y1)
	for i, p := range pts {
		if i%3 != 2 {
			buf.Set(p.X, p.Y, pointChar(pts, i), style)
		}
	}
}

// DrawPolyline draws consecutive line segments through the given screen
// points.
func DrawPolyline(buf *cellbuf.Buffer, pts []image.Point, style cellbuf.StyleKey) {
	for i := 1; i < len(pts); i++ {
		DrawLine(buf, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, style)
	}
}

// DrawRing draws a closed polygon outline: a polyline plus the closing
// segment from the last point back to the first.
func DrawRing(buf *cellbuf.Buffer, pts []image.Point, style cellbuf.StyleKey) {
	if len(pts) < 2 {
		return
	}
	DrawPolyline(buf, pts, style)
	last := pts[len(pts)-1]
	first := pts[0]
	if last != first {
		DrawLine(buf, last.X, last.Y, first.X, first.Y, style)
	}
}

// DrawRect draws an axis-aligned rectangle outline, used for the selection
// drag box.
func DrawRect(buf *cellbuf.Buffer, r image.Rectangle, style cellbuf.StyleKey) {
	if r.Dx() < 1 || r.Dy() < 1 {
		return
	}
	x0, y0 := r.Min.X, r.Min.Y
	x1, y1 := r.Max.X-1, r.Max.Y-1
	for x := x0; x <= x1; x++ {
		buf.Set(x, y0, '─', style)
		buf.Set(x, y1, '─', style)
	}
	for y := y0; y <= y1; y++ {
		buf.Set(x0, y, '│', style)
		buf.Set(x1, y, '│', style)
	}
	buf.Set(x0, y0, '┌', style)
	buf.Set(x1, y0, '┐', style)
	buf.Set(x0, y1, '└', style)
	buf.Set(x1, y1, '┘', style)
}
