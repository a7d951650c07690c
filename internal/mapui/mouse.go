package mapui

import (
	"fmt"
	"image"

	tea "charm.land/bubbletea/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/wesen/fieldmap/internal/feature"
	"github.com/wesen/fieldmap/internal/sched"
	"github.com/wesen/fieldmap/pkg/geo"
	"github.com/wesen/fieldmap/pkg/trench"
)

// removeGestureM is how close (in meters) a right-click must land to a
// highlighted path vertex to remove that highlight.
const removeGestureM = 25

// handleMouse processes mouse events inside the canvas region.
func handleMouse(m Model, msg tea.MouseMsg, canvasRect image.Rectangle) (Model, tea.Cmd) {
	mouse := msg.Mouse()
	m.MouseX = mouse.X
	m.MouseY = mouse.Y
	m.cursorOver = image.Pt(mouse.X, mouse.Y).In(canvasRect)

	if !m.cursorOver {
		if _, ok := msg.(tea.MouseReleaseMsg); ok {
			m.dragging = false
		}
		// Hover/cursor modes must notice the cursor leaving the canvas.
		return m, m.tasks.Schedule(sched.ClassLabels)
	}

	w, h := canvasRect.Dx(), canvasRect.Dy()
	cx := mouse.X - canvasRect.Min.X
	cy := mouse.Y - canvasRect.Min.Y

	switch msg.(type) {
	case tea.MouseClickMsg:
		switch mouse.Button {
		case tea.MouseLeft:
			m.dragging = true
			m.dragRight = false
			m.dragStartX, m.dragStartY = cx, cy
			m.moved = false
		case tea.MouseRight:
			m.dragging = true
			m.dragRight = true
			m.dragStartX, m.dragStartY = cx, cy
			m.moved = false
		}

	case tea.MouseWheelMsg:
		switch mouse.Button {
		case tea.MouseWheelUp:
			m.cam.zoomBy(zoomStep)
		case tea.MouseWheelDown:
			m.cam.zoomBy(-zoomStep)
		}
		return m, m.tasks.Schedule(sched.ClassLabels)

	case tea.MouseMotionMsg:
		if m.dragging && (abs(cx-m.dragStartX) > 1 || abs(cy-m.dragStartY) > 1) {
			m.moved = true
		}
		return m, m.tasks.Schedule(sched.ClassLabels)

	case tea.MouseReleaseMsg:
		if !m.dragging {
			break
		}
		m.dragging = false

		if m.moved {
			a := m.cam.fromScreen(m.dragStartX, m.dragStartY, w, h)
			b := m.cam.fromScreen(cx, cy, w, h)
			m = applyBox(m, boundOf(a, b), m.dragRight)
			break
		}

		pt := m.cam.fromScreen(cx, cy, w, h)
		if m.tool == ToolRoute {
			m = handleRouteClick(m, pt, m.dragRight)
			break
		}
		m = applyClick(m, pt, m.dragRight)
	}

	return m, nil
}

// applyClick toggles (or force-deselects) the feature under the point.
func applyClick(m Model, pt orb.Point, deselect bool) Model {
	f := hitFeature(m.site.Polygons, pt)
	if f == nil {
		return m
	}
	var changed bool
	if deselect {
		changed = m.sel.Deselect(f.ID)
	} else {
		changed = m.sel.Toggle(f.ID)
	}
	if changed {
		m.recomputeTotals()
	}
	return m
}

// applyBox applies the gesture to every feature intersecting the dragged
// box. A small-feature group is processed once even when several members
// fall inside the box.
func applyBox(m Model, box orb.Bound, deselect bool) Model {
	visited := make(map[string]bool)
	changed := false
	for _, f := range m.site.Polygons {
		if f.Bound.IsEmpty() || !boundsIntersect(f.Bound, box) {
			continue
		}
		key := f.ID
		if f.Small && f.LabelID != "" {
			key = "label:" + f.LabelID
		}
		if visited[key] {
			continue
		}
		visited[key] = true
		if deselect {
			changed = m.sel.Deselect(f.ID) || changed
		} else {
			changed = m.sel.Toggle(f.ID) || changed
		}
	}
	if changed {
		m.recomputeTotals()
	}
	return m
}

// handleRouteClick collects route endpoints on left click and removes the
// nearest highlight on right click.
func handleRouteClick(m Model, pt orb.Point, right bool) Model {
	if right {
		if name, ok := m.highlights.NearestAt(pt, removeGestureM, geo.HaversineMeters); ok {
			m.highlights.Remove(name)
		}
		return m
	}
	if m.routeFrom == nil {
		p := pt
		m.routeFrom = &p
		return m
	}
	path, meters, fallback := m.graph.Route(*m.routeFrom, pt)
	m.routeSeq++
	m.highlights.Add(trench.Highlight{
		Name:     fmt.Sprintf("route-%d", m.routeSeq),
		Path:     path,
		Meters:   meters,
		Fallback: fallback,
	})
	m.routeFrom = nil
	return m
}

// hitFeature returns the feature containing the point, preferring the
// smallest (topmost-drawn) match when several overlap.
func hitFeature(polys []*feature.Feature, pt orb.Point) *feature.Feature {
	var best *feature.Feature
	for _, f := range polys {
		if f.Bound.IsEmpty() || !f.Bound.Contains(pt) {
			continue
		}
		if !geomContains(f.Geom, pt) {
			continue
		}
		if best == nil || f.DiagonalM < best.DiagonalM {
			best = f
		}
	}
	return best
}

func geomContains(g orb.Geometry, pt orb.Point) bool {
	switch poly := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(poly, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(poly, pt)
	}
	return false
}

func boundsIntersect(a, b orb.Bound) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
