// Package labels owns the pooled label instances and the level-of-detail
// engine that decides, per frame snapshot, which markers are visible, where
// they sit on screen, and whether anything actually changed since the last
// computation.
package labels

import "fmt"

// VisibilityMode selects when labels for a layer are shown.
type VisibilityMode string

const (
	ModeAlways VisibilityMode = "always" // viewport-wide, every frame
	ModeHover  VisibilityMode = "hover"  // viewport-wide while the cursor is over the canvas
	ModeCursor VisibilityMode = "cursor" // only near the cursor, ranked by pixel distance
	ModeNone   VisibilityMode = "none"
)

// Valid reports whether the mode is one of the four known values.
func (m VisibilityMode) Valid() bool {
	switch m {
	case ModeAlways, ModeHover, ModeCursor, ModeNone:
		return true
	}
	return false
}

// Params configures one layer's label rendering.
type Params struct {
	Mode VisibilityMode

	// Zoom-relative sizing: size = BaseSize * 2^(zoom-RefZoom), clamped to
	// [MinSize, MaxSize] when those are positive. Below MinResolvable the
	// whole layer is skipped.
	BaseSize      float64
	RefZoom       float64
	MinSize       float64
	MaxSize       float64
	MinResolvable float64

	// StrokeMinSize is the size under which the glyph outline (bold
	// treatment) is dropped.
	StrokeMinSize float64

	// Badge (background box) appears at zoom >= BadgeMinZoom. While hidden,
	// the engine marks labels dimmed so the renderer substitutes a distinct
	// text color.
	BadgeMinZoom float64
	BadgeRounded bool
	BadgePadding int

	// Caps bound the number of active labels per mode.
	ViewportCap int
	CursorCap   int

	// CursorRadiusPx is the pixel radius scanned around the cursor.
	CursorRadiusPx float64
}

// DefaultParams returns the baseline configuration for a point layer.
func DefaultParams() Params {
	return Params{
		Mode:           ModeAlways,
		BaseSize:       12,
		RefZoom:        16,
		MinSize:        4,
		MaxSize:        28,
		MinResolvable:  2,
		StrokeMinSize:  8,
		BadgeMinZoom:   15,
		BadgeRounded:   true,
		BadgePadding:   1,
		ViewportCap:    400,
		CursorCap:      40,
		CursorRadiusPx: 30,
	}
}

// Validate reports the first configuration problem, or nil.
func (p Params) Validate() error {
	if !p.Mode.Valid() {
		return fmt.Errorf("labels: unknown visibility mode %q", p.Mode)
	}
	if p.BaseSize <= 0 {
		return fmt.Errorf("labels: base size must be positive, got %v", p.BaseSize)
	}
	if p.ViewportCap <= 0 || p.CursorCap <= 0 {
		return fmt.Errorf("labels: caps must be positive (viewport %d, cursor %d)", p.ViewportCap, p.CursorCap)
	}
	return nil
}
