// Package mapui is the Bubble Tea application: an interactive map surface
// rendering site features, labels, and trench-path highlights, with
// click/drag work selection.
package mapui

import (
	"sort"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/paulmach/orb"

	"github.com/wesen/fieldmap/internal/config"
	"github.com/wesen/fieldmap/internal/feature"
	"github.com/wesen/fieldmap/internal/loader"
	"github.com/wesen/fieldmap/internal/resolver"
	"github.com/wesen/fieldmap/internal/sched"
	"github.com/wesen/fieldmap/internal/selection"
	"github.com/wesen/fieldmap/internal/store"
	"github.com/wesen/fieldmap/pkg/gridindex"
	"github.com/wesen/fieldmap/pkg/labels"
	"github.com/wesen/fieldmap/pkg/trench"
)

// labelCellDeg is the label index cell size, sized for screen-space lookups.
const labelCellDeg = 0.0005

// Tool is the current interaction mode.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRoute
)

// Model is the main application state.
type Model struct {
	cfg *config.Config
	log hclog.Logger
	db  *store.Store

	site       *loader.Site
	labelIndex *gridindex.Index
	engine     *labels.Engine
	graph      *trench.Graph
	highlights trench.HighlightSet

	res      *resolver.Resolver
	matching bool
	progress string

	sel   *selection.Machine
	tasks *sched.Scheduler

	cam            camera
	Width, Height  int
	MouseX, MouseY int
	cursorOver     bool

	tool      Tool
	routeFrom *orb.Point
	routeSeq  int

	dragging   bool
	dragRight  bool
	dragStartX int
	dragStartY int
	moved      bool

	searchOpen  bool
	searchInput textinput.Model

	selectedM  float64
	completedM float64
}

// NewModel wires the loaded site into a fresh UI model.
func NewModel(cfg *config.Config, log hclog.Logger, db *store.Store, site *loader.Site) Model {
	positions := make([]orb.Point, len(site.Markers))
	for i, mk := range site.Markers {
		positions[i] = mk.Pos
	}
	index := gridindex.Build(positions, labelCellDeg)

	engine := labels.NewEngine(cfg.LabelParams(pointLayerName(site)))
	engine.SetSource(site.Markers, index)

	sel := selection.New()
	sel.LoadCommitted(db.Get(store.KeyCommitted))

	m := Model{
		cfg:        cfg,
		log:        log,
		db:         db,
		site:       site,
		labelIndex: index,
		engine:     engine,
		graph:      trench.BuildGraph(site.TrenchLines),
		sel:        sel,
		tasks:      sched.New(),
		cam: camera{
			center: orb.Point{cfg.Site.CenterLng, cfg.Site.CenterLat},
			zoom:   cfg.Site.Zoom,
		},
	}
	if m.cam.center == (orb.Point{}) && len(site.Markers) > 0 {
		m.cam.center = site.Markers[0].Pos
	}
	// The matcher state must exist before Init runs: Init has a value
	// receiver, so anything it wrote would be lost with the receiver copy.
	if len(site.Polygons) > 0 {
		m.res = resolver.New(site.Polygons, site.Markers, index)
		m.matching = true
		m.progress = m.res.Progress()
	}
	m.recomputeTotals()
	return m
}

func pointLayerName(site *loader.Site) string {
	for _, l := range site.Layers {
		if l.Kind == feature.KindPoint {
			return l.Name
		}
	}
	return "points"
}

// Init implements tea.Model: it schedules the first matcher batch over the
// resolver built in NewModel.
func (m Model) Init() tea.Cmd {
	if !m.matching {
		return nil
	}
	return m.tasks.Schedule(sched.ClassMatcher)
}

// recomputeTotals recalculates the selected/completed matched-length sums.
// Called whenever selection or matching changes, exactly once per change.
func (m *Model) recomputeTotals() {
	m.selectedM, m.completedM = 0, 0
	for _, f := range m.site.Polygons {
		switch m.sel.State(f.ID) {
		case selection.Selected:
			m.selectedM += f.LengthM
		case selection.Committed:
			m.completedM += f.LengthM
		}
	}
}

// completedLabels returns the label identifiers whose every matched feature
// is committed.
func (m *Model) completedLabels() []string {
	byLabel := make(map[string]bool)
	for _, f := range m.site.Polygons {
		if f.LabelID == "" {
			continue
		}
		done := m.sel.State(f.ID) == selection.Committed
		if all, seen := byLabel[f.LabelID]; !seen {
			byLabel[f.LabelID] = done
		} else {
			byLabel[f.LabelID] = all && done
		}
	}
	var out []string
	for id, done := range byLabel {
		if done {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Assignments exposes the resolved feature→label table to collaborators.
func (m Model) Assignments() map[string]string {
	if m.res == nil {
		return nil
	}
	return m.res.Assignments()
}
