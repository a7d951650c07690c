package mapui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wesen/fieldmap/internal/sched"
	"github.com/wesen/fieldmap/pkg/geo"
)

// openSearch opens the jump-to-label overlay.
func (m Model) openSearch() (tea.Model, tea.Cmd) {
	m.searchOpen = true
	m.searchInput = textinput.New()
	m.searchInput.Prompt = ""
	m.searchInput.CharLimit = 40
	cmd := m.searchInput.Focus()
	return m, cmd
}

// handleSearchKeys processes keys while the overlay is open.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "escape":
		m.searchOpen = false
		return m, nil

	case "enter":
		query := geo.NormalizeID(m.searchInput.Value())
		m.searchOpen = false
		if query == "" {
			return m, nil
		}
		if mk, ok := m.findMarker(query); ok {
			m.cam.center = mk.Pos
			return m, m.tasks.Schedule(sched.ClassLabels)
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
}

// findMarker matches an exact identifier first, then falls back to the
// first identifier or display text containing the query.
func (m Model) findMarker(query string) (geo.Marker, bool) {
	for _, mk := range m.site.Markers {
		if mk.ID == query {
			return mk, true
		}
	}
	for _, mk := range m.site.Markers {
		if strings.Contains(mk.ID, query) ||
			strings.Contains(geo.NormalizeID(mk.Text), query) {
			return mk, true
		}
	}
	return geo.Marker{}, false
}

// buildSearchModalLayer renders the overlay as a centered high-Z layer.
func buildSearchModalLayer(m Model, screenW, screenH int) *lipgloss.Layer {
	modalBG := c("#101821")

	titleStyle := lipgloss.NewStyle().
		Foreground(c("#7fd4ff")).
		Background(modalBG).
		Bold(true)

	hintStyle := lipgloss.NewStyle().
		Foreground(c("#3d4b59")).
		Background(modalBG).
		Italic(true)

	lines := []string{
		titleStyle.Render("  FIND LABEL"),
		"",
		"  " + m.searchInput.View(),
		"",
		hintStyle.Render("  [enter] jump  [esc] cancel"),
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c("#7fd4ff")).
		Background(modalBG).
		Width(44).
		Padding(1, 2)

	rendered := boxStyle.Render(strings.Join(lines, "\n"))
	cx := (screenW - lipgloss.Width(rendered)) / 2
	cy := (screenH - lipgloss.Height(rendered)) / 2
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	return lipgloss.NewLayer(rendered).X(cx).Y(cy).Z(100).ID("search-modal")
}
