package mapui

import (
	"image"

	tea "charm.land/bubbletea/v2"
	"github.com/paulmach/orb"

	"github.com/wesen/fieldmap/internal/resolver"
	"github.com/wesen/fieldmap/internal/sched"
	"github.com/wesen/fieldmap/internal/store"
	"github.com/wesen/fieldmap/pkg/labels"
)

const (
	panStep  = 4
	zoomStep = 0.5
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, m.tasks.Schedule(sched.ClassLabels)

	case tea.KeyMsg:
		if m.searchOpen {
			return m.handleSearchKeys(msg)
		}
		return m.handleKeys(msg)

	case tea.MouseMsg:
		return handleMouse(m, msg, m.canvasRect())

	case sched.FrameMsg:
		return m.handleFrame(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		// Teardown: orphan every pending frame callback.
		m.tasks.Invalidate()
		return m, tea.Quit

	case "up":
		m.cam.panCells(0, -panStep)
		return m, m.tasks.Schedule(sched.ClassLabels)
	case "down":
		m.cam.panCells(0, panStep)
		return m, m.tasks.Schedule(sched.ClassLabels)
	case "left":
		m.cam.panCells(-panStep, 0)
		return m, m.tasks.Schedule(sched.ClassLabels)
	case "right":
		m.cam.panCells(panStep, 0)
		return m, m.tasks.Schedule(sched.ClassLabels)

	case "+", "=":
		m.cam.zoomBy(zoomStep)
		return m, m.tasks.Schedule(sched.ClassLabels)
	case "-":
		m.cam.zoomBy(-zoomStep)
		return m, m.tasks.Schedule(sched.ClassLabels)

	case "s":
		m.tool = ToolSelect
		m.routeFrom = nil
	case "t":
		m.tool = ToolRoute
		m.routeFrom = nil
	case "x":
		m.highlights.Clear()

	case "c":
		m.commit()

	case "/":
		return m.openSearch()

	case "esc", "escape":
		m.routeFrom = nil
		m.tool = ToolSelect
	}

	return m, nil
}

// handleFrame runs scheduled work. Stale generations and already-consumed
// flags are dropped in Begin.
func (m Model) handleFrame(msg sched.FrameMsg) (tea.Model, tea.Cmd) {
	if !m.tasks.Begin(msg) {
		return m, nil
	}

	switch msg.Class {
	case sched.ClassLabels:
		m.engine.Compute(m.snapshot())
		return m, nil

	case sched.ClassMatcher:
		if m.res == nil || !m.matching {
			return m, nil
		}
		if m.res.Step(resolver.BatchSize) {
			m.matching = false
			m.progress = ""
			m.sel.SetGrouping(m.res.Groups())
			m.recomputeTotals()
			return m, nil
		}
		m.progress = m.res.Progress()
		return m, m.tasks.Schedule(sched.ClassMatcher)
	}

	return m, nil
}

// commit moves the pending selection to committed, persists both sets, and
// records the submission.
func (m *Model) commit() {
	moved := m.sel.Commit()
	if len(moved) == 0 {
		return
	}
	if err := m.db.Put(store.KeyCommitted, m.sel.CommittedIDs()); err != nil {
		m.log.Error("persist committed set", "error", err)
	}
	if err := m.db.Put(store.KeyCompletedLabels, m.completedLabels()); err != nil {
		m.log.Error("persist completed labels", "error", err)
	}
	if _, err := m.db.AppendSubmission(moved); err != nil {
		m.log.Error("record submission", "error", err)
	}
	m.recomputeTotals()
}

// canvasRect computes the canvas region; must match the layout in View.
func (m Model) canvasRect() image.Rectangle {
	topH := 1
	bottomH := 1
	rightW := panelWidth
	return image.Rect(0, topH, m.Width-rightW, m.Height-bottomH)
}

// snapshot freezes the view/cursor state for one label computation.
func (m Model) snapshot() labels.Snapshot {
	r := m.canvasRect()
	w, h := r.Dx(), r.Dy()
	cx := m.MouseX - r.Min.X
	cy := m.MouseY - r.Min.Y

	snap := labels.Snapshot{
		Zoom:       m.cam.zoom,
		Viewport:   m.cam.viewport(w, h),
		CursorOver: m.cursorOver,
		CursorPxX:  cx,
		CursorPxY:  cy,
		Width:      w,
		Height:     h,
		ToScreen: func(p orb.Point) (int, int) {
			return m.cam.toScreen(p, w, h)
		},
	}
	if m.engine.Params().Mode == labels.ModeCursor && m.cursorOver {
		rad := int(m.engine.Params().CursorRadiusPx)
		tl := m.cam.fromScreen(cx-rad, cy-rad, w, h)
		br := m.cam.fromScreen(cx+rad, cy+rad, w, h)
		snap.CursorRegion = boundOf(tl, br)
	}
	return snap
}
