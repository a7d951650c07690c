// Package cellbuf provides a 2D character buffer with per-cell styling and
// run-merged Lipgloss rendering. The map canvas draws feature outlines,
// trench lines, and labels into a Buffer each frame, then renders it as a
// single background layer.
//
// Each cell holds a rune and a StyleKey; the StyleKey→lipgloss.Style mapping
// is supplied at render time so the buffer stays decoupled from the palette.
// All runes are assumed single-width.
package cellbuf

// StyleKey identifies a visual style. The caller defines the mapping from
// StyleKey to lipgloss.Style at render time.
type StyleKey int

// Cell is a single character in the buffer with an associated style.
type Cell struct {
	Ch    rune
	Style StyleKey
}

// Buffer is a 2D grid of styled cells.
type Buffer struct {
	W, H  int
	Cells [][]Cell // [row][col]
}

// New creates a Buffer of the given size, filled with spaces in the given
// default style.
func New(w, h int, defaultStyle StyleKey) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	b := &Buffer{W: w, H: h, Cells: make([][]Cell, h)}
	for y := range b.Cells {
		row := make([]Cell, w)
		for x := range row {
			row[x] = Cell{Ch: ' ', Style: defaultStyle}
		}
		b.Cells[y] = row
	}
	return b
}

// InBounds reports whether (x, y) is inside the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// Set writes a single character at (x, y). Out-of-bounds writes are silently
// ignored.
func (b *Buffer) Set(x, y int, ch rune, style StyleKey) {
	if b.InBounds(x, y) {
		b.Cells[y][x] = Cell{Ch: ch, Style: style}
	}
}

// SetString writes a string starting at (x, y), advancing x per rune.
// Characters outside the buffer are skipped.
func (b *Buffer) SetString(x, y int, s string, style StyleKey) {
	for i, ch := range []rune(s) {
		b.Set(x+i, y, ch, style)
	}
}

// SetVString writes a string downward from (x, y), one rune per row. Used
// for steeply rotated labels.
func (b *Buffer) SetVString(x, y int, s string, style StyleKey) {
	for i, ch := range []rune(s) {
		b.Set(x, y+i, ch, style)
	}
}

// Fill resets every cell to a space with the given style.
func (b *Buffer) Fill(style StyleKey) {
	for y := range b.Cells {
		for x := range b.Cells[y] {
			b.Cells[y][x] = Cell{Ch: ' ', Style: style}
		}
	}
}

// FillRect fills the rectangle [x, x+w) × [y, y+h) with spaces in the given
// style, clipped to the buffer.
func (b *Buffer) FillRect(x, y, w, h int, style StyleKey) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			b.Set(xx, yy, ' ', style)
		}
	}
}

// Box border character sets for DrawBox.
var (
	squareCorners  = [4]rune{'┌', '┐', '└', '┘'}
	roundedCorners = [4]rune{'╭', '╮', '╰', '╯'}
)

// DrawBox draws a box outline around [x, x+w) × [y, y+h) with square or
// rounded corners, clipped to the buffer. Boxes narrower than 2×2 are
// ignored. This is the label badge primitive.
func (b *Buffer) DrawBox(x, y, w, h int, rounded bool, style StyleKey) {
	if w < 2 || h < 2 {
		return
	}
	corners := squareCorners
	if rounded {
		corners = roundedCorners
	}
	b.Set(x, y, corners[0], style)
	b.Set(x+w-1, y, corners[1], style)
	b.Set(x, y+h-1, corners[2], style)
	b.Set(x+w-1, y+h-1, corners[3], style)
	for xx := x + 1; xx < x+w-1; xx++ {
		b.Set(xx, y, '─', style)
		b.Set(xx, y+h-1, '─', style)
	}
	for yy := y + 1; yy < y+h-1; yy++ {
		b.Set(x, yy, '│', style)
		b.Set(x+w-1, yy, '│', style)
	}
}
