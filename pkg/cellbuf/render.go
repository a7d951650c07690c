package cellbuf

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Render converts the buffer into a styled string. The caller provides the
// StyleKey→lipgloss.Style mapping.
//
// Consecutive cells sharing a StyleKey are merged into runs and rendered with
// one Style.Render call per run, which is far cheaper than per-cell
// rendering. Rows are joined with "\n"; an empty buffer returns "".
func (b *Buffer) Render(styles map[StyleKey]lipgloss.Style) string {
	if b.W == 0 || b.H == 0 {
		return ""
	}

	lines := make([]string, b.H)
	var run []rune

	for y := 0; y < b.H; y++ {
		var sb strings.Builder
		row := b.Cells[y]

		run = run[:0]
		runStyle := row[0].Style
		flush := func() {
			if len(run) == 0 {
				return
			}
			if s, ok := styles[runStyle]; ok {
				sb.WriteString(s.Render(string(run)))
			} else {
				sb.WriteString(string(run))
			}
			run = run[:0]
		}

		for x := 0; x < b.W; x++ {
			if row[x].Style != runStyle {
				flush()
				runStyle = row[x].Style
			}
			run = append(run, row[x].Ch)
		}
		flush()

		lines[y] = sb.String()
	}

	return strings.Join(lines, "\n")
}
