package mapui

import (
	"fmt"
	"image"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// toolNames maps Tool to display name.
var toolNames = map[Tool]string{
	ToolSelect: "SELECT",
	ToolRoute:  "ROUTE",
}

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.Width == 0 || m.Height == 0 {
		return tea.NewView("")
	}

	canvasRegion := m.canvasRect()
	panelRegion := image.Rect(m.Width-panelWidth, 1, m.Width, m.Height-1)

	var layerList []*lipgloss.Layer

	// Backgrounds
	layerList = append(layerList,
		fillLayer(image.Rect(0, 0, m.Width, 1), tbStyle, "toolbar-bg", 0),
		fillLayer(canvasRegion, bgStyle, "canvas-bg", 0),
		fillLayer(image.Rect(0, m.Height-1, m.Width, m.Height), ftStyle, "footer-bg", 0),
	)

	// Toolbar
	toolStr := toolNames[m.tool]
	if m.tool == ToolRoute && m.routeFrom != nil {
		toolStr = "ROUTE · click end point"
	}
	tbContent := fmt.Sprintf(
		" FIELDMAP  │  [s]elect [t]route  │  %s  │  z%.1f  │  [c]ommit [/]find [x]clear [q]uit",
		toolStr, m.cam.zoom,
	)
	layerList = append(layerList, barLayer(tbContent, m.Width, 0, tbStyle, "toolbar"))

	// Footer
	status := fmt.Sprintf(
		" (%d,%d)  %.5f,%.5f  sel %s  done %s",
		m.MouseX, m.MouseY, m.cam.center.Lat(), m.cam.center.Lon(),
		fmtMeters(m.selectedM), fmtMeters(m.completedM),
	)
	if m.progress != "" {
		status += "  │  " + m.progress
	}
	layerList = append(layerList, barLayer(status, m.Width, m.Height-1, ftStyle, "footer"))

	// Map canvas
	layerList = append(layerList, buildCanvasLayer(m, canvasRegion))

	// Side panel
	layerList = append(layerList, buildPanelLayers(m, panelRegion)...)

	// Search modal
	if m.searchOpen {
		layerList = append(layerList, buildSearchModalLayer(m, m.Width, m.Height))
	}

	comp := lipgloss.NewCompositor(layerList...)
	canvas := lipgloss.NewCanvas(m.Width, m.Height)
	canvas.Compose(comp)

	v := tea.NewView(canvas.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

func fmtMeters(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.2fkm", v/1000)
	}
	return fmt.Sprintf("%.0fm", v)
}

// fillLayer creates a layer filled with the style over the rectangle.
func fillLayer(r image.Rectangle, style lipgloss.Style, id string, z int) *lipgloss.Layer {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return lipgloss.NewLayer("").X(r.Min.X).Y(r.Min.Y).Z(z).ID(id)
	}
	line := strings.Repeat(" ", w)
	lines := make([]string, h)
	for i := range lines {
		lines[i] = line
	}
	rendered := style.Render(strings.Join(lines, "\n"))
	return lipgloss.NewLayer(rendered).X(r.Min.X).Y(r.Min.Y).Z(z).ID(id)
}

// barLayer creates a full-width single-row chrome layer.
func barLayer(content string, width, y int, style lipgloss.Style, id string) *lipgloss.Layer {
	rendered := style.Width(width).Render(content)
	return lipgloss.NewLayer(rendered).X(0).Y(y).Z(0).ID(id)
}
