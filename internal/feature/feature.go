// Package feature defines the tagged feature model shared by the loader, the
// resolver, the selection machine, and the map UI. A feature's kind is an
// explicit enum; there is no property probing.
package feature

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/wesen/fieldmap/pkg/geo"
)

// SmallDiagonalM classifies work polygons: below this bounding diagonal a
// feature is "small" and participates in grouped selection and the looser
// matching fallbacks.
const SmallDiagonalM = 25

// Kind is the feature geometry kind.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindPolygon
)

// Feature is one loaded map feature. Geometry fields are computed once at
// load; LabelID is written only by the resolver, style state lives in the
// selection machine.
type Feature struct {
	ID    string
	Kind  Kind
	Geom  orb.Geometry
	Text  string  // display text (point features)
	Angle float64 // display rotation in degrees

	// Cached geometry, valid for polygons.
	Bound     orb.Bound
	Centroid  orb.Point
	DiagonalM float64
	Small     bool

	// LengthM is the work length in meters: the length_m property when
	// present, otherwise derived from geometry.
	LengthM float64

	// LabelID is the resolved label identifier, empty until matched.
	LabelID string
}

// Precompute fills the cached bound/centroid/diagonal/small fields from the
// geometry. Features with empty or malformed geometry keep zero values and
// report false; the caller skips them for matching but keeps them loaded.
func (f *Feature) Precompute() bool {
	if f.Geom == nil {
		return false
	}
	b := f.Geom.Bound()
	if b.IsEmpty() && f.Kind == KindPolygon {
		return false
	}
	f.Bound = b
	f.Centroid, _ = planar.CentroidArea(f.Geom)
	f.DiagonalM = geo.DiagonalMeters(b)
	f.Small = f.DiagonalM < SmallDiagonalM
	return true
}

// Layer groups features of one kind under a logical name.
type Layer struct {
	Name     string
	Kind     Kind
	Features []Feature
}
