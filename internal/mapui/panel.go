package mapui

import (
	"fmt"
	"image"
	"strings"

	"charm.land/lipgloss/v2"
)

const panelWidth = 30

// panelBG is slightly lighter than the canvas for visible separation.
var panelBG = c("#121a23")

var (
	panelTitleStyle = lipgloss.NewStyle().
			Foreground(c("#7fd4ff")).
			Background(panelBG).
			Bold(true)

	panelDimStyle = lipgloss.NewStyle().
			Foreground(c("#3d4b59")).
			Background(panelBG)

	panelTextStyle = lipgloss.NewStyle().
			Foreground(c("#9fb4c7")).
			Background(panelBG)

	panelValStyle = lipgloss.NewStyle().
			Foreground(c("#ffd75f")).
			Background(panelBG)

	panelLineStyle = lipgloss.NewStyle().
			Background(panelBG)
)

// padLine right-pads a styled line to the given visible width so the panel
// background stays solid.
func padLine(s string, width int) string {
	vis := lipgloss.Width(s)
	if pad := width - vis; pad > 0 {
		s += panelLineStyle.Render(strings.Repeat(" ", pad))
	}
	return s
}

func kv(key string, val string) string {
	return panelTextStyle.Render("  "+key+" ") + panelValStyle.Render(val)
}

// buildPanelLayers renders the side panel: separator, site stats, work
// totals, routes, help.
func buildPanelLayers(m Model, region image.Rectangle) []*lipgloss.Layer {
	pw := region.Dx()
	ph := region.Dy()
	if pw <= 0 || ph <= 0 {
		return nil
	}

	var layerList []*lipgloss.Layer
	layerList = append(layerList, buildSeparatorLayer(region.Min.X-1, region.Min.Y, ph))
	layerList = append(layerList, fillLayer(region, panelLineStyle, "panel-bg", 0))

	width := pw - 2
	poolSize, poolActive := m.labelsPoolStats()

	var lines []string
	sect := func(title string) {
		lines = append(lines, panelTitleStyle.Render(title))
		lines = append(lines, panelDimStyle.Render(strings.Repeat("─", width-1)))
	}

	sect("SITE")
	lines = append(lines,
		kv("labels", fmt.Sprintf("%d", len(m.site.Markers))),
		kv("features", fmt.Sprintf("%d", len(m.site.Polygons))),
		kv("graph nodes", fmt.Sprintf("%d", m.graph.NodeCount())),
		kv("label pool", fmt.Sprintf("%d/%d", poolActive, poolSize)),
		"")

	sect("WORK")
	lines = append(lines,
		kv("selected", fmt.Sprintf("%d · %s", m.sel.SelectedCount(), fmtMeters(m.selectedM))),
		kv("committed", fmt.Sprintf("%d · %s", len(m.sel.CommittedIDs()), fmtMeters(m.completedM))),
	)
	if m.matching {
		lines = append(lines, kv("matcher", m.progress))
	}
	lines = append(lines, "")

	sect("ROUTES")
	if hls := m.highlights.All(); len(hls) == 0 {
		lines = append(lines, panelDimStyle.Render("  (none)"))
	} else {
		for _, hl := range hls {
			mark := ""
			if hl.Fallback {
				mark = " ~"
			}
			lines = append(lines, kv(hl.Name, fmtMeters(hl.Meters)+mark))
		}
	}
	lines = append(lines, "")

	sect("HELP")
	lines = append(lines,
		panelTextStyle.Render("  click/drag select work"),
		panelTextStyle.Render("  right-click deselect"),
		panelTextStyle.Render("  [t] route  [x] clear"),
		panelTextStyle.Render("  [c] commit  [/] find"),
		panelTextStyle.Render("  arrows pan  +/- zoom"),
	)

	for len(lines) < ph {
		lines = append(lines, "")
	}
	lines = lines[:ph]
	for i, l := range lines {
		lines[i] = padLine(l, width)
	}

	content := strings.Join(lines, "\n")
	layerList = append(layerList, lipgloss.NewLayer(content).
		X(region.Min.X+1).Y(region.Min.Y).Z(1).ID("panel"))
	return layerList
}

// buildSeparatorLayer creates the vertical separator line.
func buildSeparatorLayer(x, y, height int) *lipgloss.Layer {
	sep := lipgloss.NewStyle().Foreground(c("#21303f")).Background(colorBG)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = sep.Render("│")
	}
	return lipgloss.NewLayer(strings.Join(lines, "\n")).X(x).Y(y).Z(1).ID("separator")
}
