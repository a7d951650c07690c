package mapui

import (
	"image"
	"math"

	"charm.land/lipgloss/v2"
	"github.com/paulmach/orb"

	"github.com/wesen/fieldmap/internal/selection"
	"github.com/wesen/fieldmap/pkg/cellbuf"
	"github.com/wesen/fieldmap/pkg/drawutil"
)

// buildCanvasLayer renders the whole map canvas (graticule, trench lines,
// work polygons, highlights, labels, drag box) into a cellbuf and returns it
// as a single background layer.
func buildCanvasLayer(m Model, viewport image.Rectangle) *lipgloss.Layer {
	w := viewport.Dx()
	h := viewport.Dy()
	if w <= 0 || h <= 0 {
		return lipgloss.NewLayer("").X(viewport.Min.X).Y(viewport.Min.Y).Z(0)
	}

	buf := cellbuf.New(w, h, styleBG)
	bounds := m.cam.viewport(w, h)

	// Graticule dots, offset by the camera's world pixel position.
	s := m.cam.scale()
	camX := int(mercX(m.cam.center.Lon())*s) - w/2
	camY := int(mercY(m.cam.center.Lat())*s/cellAspect) - h/2
	drawutil.DrawGrid(buf, camX, camY, 12, 6, styleGrid)

	m.drawTrench(buf, bounds, w, h)
	m.drawPolygons(buf, bounds, w, h)
	m.drawHighlights(buf, w, h)
	m.drawMarkers(buf, bounds, w, h)
	m.drawLabels(buf)
	m.drawDragBox(buf, viewport)

	rendered := buf.Render(bufStyles)
	return lipgloss.NewLayer(rendered).X(viewport.Min.X).Y(viewport.Min.Y).Z(0).ID("map-canvas")
}

func (m Model) projectPath(pts []orb.Point, w, h int) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		x, y := m.cam.toScreen(p, w, h)
		out[i] = image.Pt(x, y)
	}
	return out
}

func (m Model) drawTrench(buf *cellbuf.Buffer, bounds orb.Bound, w, h int) {
	for _, ls := range m.site.TrenchLines {
		if len(ls) < 2 || !boundsIntersect(ls.Bound(), bounds) {
			continue
		}
		drawutil.DrawPolyline(buf, m.projectPath(ls, w, h), styleTrench)
	}
}

func (m Model) drawPolygons(buf *cellbuf.Buffer, bounds orb.Bound, w, h int) {
	for _, f := range m.site.Polygons {
		if f.Bound.IsEmpty() || !boundsIntersect(f.Bound, bounds) {
			continue
		}
		style := stylePolyUnsel
		switch m.sel.State(f.ID) {
		case selection.Selected:
			style = stylePolySel
		case selection.Committed:
			style = stylePolyCommit
		}
		for _, ring := range rings(f.Geom) {
			drawutil.DrawRing(buf, m.projectPath(ring, w, h), style)
		}
	}
}

// rings returns the outer rings of a polygonal geometry.
func rings(g orb.Geometry) []orb.Ring {
	switch poly := g.(type) {
	case orb.Polygon:
		if len(poly) > 0 {
			return poly[:1]
		}
	case orb.MultiPolygon:
		var out []orb.Ring
		for _, p := range poly {
			if len(p) > 0 {
				out = append(out, p[0])
			}
		}
		return out
	}
	return nil
}

func (m Model) drawHighlights(buf *cellbuf.Buffer, w, h int) {
	for _, hl := range m.highlights.All() {
		pts := m.projectPath(hl.Path, w, h)
		if hl.Fallback && len(pts) == 2 {
			drawutil.DrawDashedLine(buf, pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, styleFallback)
			continue
		}
		drawutil.DrawPolyline(buf, pts, styleHighlight)
	}
	if m.routeFrom != nil {
		x, y := m.cam.toScreen(*m.routeFrom, w, h)
		buf.Set(x, y, '◆', styleAnchor)
	}
}

func (m Model) drawMarkers(buf *cellbuf.Buffer, bounds orb.Bound, w, h int) {
	for _, i := range m.labelIndex.QueryBounds(bounds) {
		x, y := m.cam.toScreen(m.site.Markers[i].Pos, w, h)
		buf.Set(x, y, '•', styleMarker)
	}
}

// drawLabels paints the active pool entries: optional badge box, then glyph
// run, vertical for steeply rotated labels.
func (m Model) drawLabels(buf *cellbuf.Buffer) {
	for _, l := range m.engine.Pool().Active() {
		if l.Text == "" {
			continue
		}
		style := styleLabel
		if l.Bold {
			style = styleLabelBold
		} else if l.Dimmed {
			style = styleLabelDim
		}

		vertical := steep(l.Angle)
		tl := len([]rune(l.Text))

		if l.Badge && !vertical {
			pad := m.engine.Params().BadgePadding
			bx := l.X - tl/2 - pad - 1
			bw := tl + 2*(pad+1)
			buf.FillRect(bx+1, l.Y, bw-2, 1, styleBG)
			buf.DrawBox(bx, l.Y-1, bw, 3, m.engine.Params().BadgeRounded, styleBadge)
		}

		if vertical {
			buf.SetVString(l.X, l.Y-tl/2, l.Text, style)
		} else {
			buf.SetString(l.X-tl/2, l.Y, l.Text, style)
		}
	}
}

// steep reports whether a rotation angle reads better vertically.
func steep(angle float64) bool {
	a := math.Mod(math.Abs(angle), 180)
	return a > 45 && a < 135
}

func (m Model) drawDragBox(buf *cellbuf.Buffer, viewport image.Rectangle) {
	if !m.dragging || !m.moved {
		return
	}
	cx := m.MouseX - viewport.Min.X
	cy := m.MouseY - viewport.Min.Y
	r := image.Rect(
		minInt(m.dragStartX, cx), minInt(m.dragStartY, cy),
		maxInt(m.dragStartX, cx)+1, maxInt(m.dragStartY, cy)+1,
	)
	drawutil.DrawRect(buf, r, styleDragBox)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// labelsPoolStats is used by the panel: pool size and active count.
func (m Model) labelsPoolStats() (size, active int) {
	p := m.engine.Pool()
	return p.Size(), p.ActiveCount()
}
