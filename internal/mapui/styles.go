package mapui

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/wesen/fieldmap/pkg/cellbuf"
)

// c is shorthand for lipgloss.Color.
func c(hex string) color.Color { return lipgloss.Color(hex) }

// dimHex derives the badge-hidden substitute text color: same hue, lower
// saturation and luminance, so status-coded labels stay legible when zoomed
// out without competing with the basemap.
func dimHex(hex string) string {
	col, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, l := col.Hsl()
	return colorful.Hsl(h, s*0.45, l*0.55).Hex()
}

// Color palette — muted field-survey tones.
var (
	colorBG       = c("#0b0f14")
	colorLabel    = "#ffd75f"
	colorLabelDim = dimHex(colorLabel)

	toolbarColor = c("#7fd4ff")
	footerColor  = c("#5f6b76")
)

// cellbuf style keys for the map canvas.
const (
	styleBG cellbuf.StyleKey = iota
	styleGrid
	styleTrench
	stylePolyUnsel
	stylePolySel
	stylePolyCommit
	styleHighlight
	styleFallback
	styleMarker
	styleLabel
	styleLabelDim
	styleLabelBold
	styleBadge
	styleDragBox
	styleAnchor
)

// bufStyles maps canvas style keys to lipgloss styles.
var bufStyles = map[cellbuf.StyleKey]lipgloss.Style{
	styleBG:         lipgloss.NewStyle().Foreground(c("#1c2833")).Background(colorBG),
	styleGrid:       lipgloss.NewStyle().Foreground(c("#15202b")).Background(colorBG),
	styleTrench:     lipgloss.NewStyle().Foreground(c("#8a6d3b")).Background(colorBG),
	stylePolyUnsel:  lipgloss.NewStyle().Foreground(c("#3f5873")).Background(colorBG),
	stylePolySel:    lipgloss.NewStyle().Foreground(c("#5fd7a7")).Background(colorBG).Bold(true),
	stylePolyCommit: lipgloss.NewStyle().Foreground(c("#3a7d5f")).Background(colorBG),
	styleHighlight:  lipgloss.NewStyle().Foreground(c("#ff8f40")).Background(colorBG).Bold(true),
	styleFallback:   lipgloss.NewStyle().Foreground(c("#a05f3f")).Background(colorBG),
	styleMarker:     lipgloss.NewStyle().Foreground(c("#4f6b85")).Background(colorBG),
	styleLabel:      lipgloss.NewStyle().Foreground(c(colorLabel)).Background(colorBG),
	styleLabelDim:   lipgloss.NewStyle().Foreground(c(colorLabelDim)).Background(colorBG),
	styleLabelBold:  lipgloss.NewStyle().Foreground(c(colorLabel)).Background(colorBG).Bold(true),
	styleBadge:      lipgloss.NewStyle().Foreground(c("#6b5a20")).Background(colorBG),
	styleDragBox:    lipgloss.NewStyle().Foreground(c("#7fd4ff")).Background(colorBG),
	styleAnchor:     lipgloss.NewStyle().Foreground(c("#ff8f40")).Background(colorBG).Bold(true),
}

// Chrome styles.
var (
	tbStyle = lipgloss.NewStyle().
		Background(c("#101821")).
		Foreground(toolbarColor).
		Bold(true)

	ftStyle = lipgloss.NewStyle().
		Foreground(footerColor)

	bgStyle = lipgloss.NewStyle().
		Background(colorBG)
)
