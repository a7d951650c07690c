// Package geo provides the geographic primitives shared by the grid index,
// the label engine, and the trench graph: markers, haversine distances, and
// bound arithmetic on top of paulmach/orb types.
package geo

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// EarthRadiusM is the mean earth radius in meters.
const EarthRadiusM = 6371008.8

// Marker is a geolocated text anchor. It is immutable once loaded; the grid
// index and the label engine hold it by index into a shared slice.
type Marker struct {
	ID    string
	Pos   orb.Point
	Text  string
	Angle float64 // display rotation in degrees
}

// NormalizeID canonicalizes a marker identifier: trimmed, upper-cased,
// inner whitespace collapsed to single spaces.
func NormalizeID(raw string) string {
	return strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
}

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(a, b orb.Point) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusM * math.Asin(math.Sqrt(h))
}

// DiagonalMeters returns the haversine length of a bound's diagonal.
// Empty or degenerate bounds yield 0.
func DiagonalMeters(b orb.Bound) float64 {
	if b.IsEmpty() {
		return 0
	}
	return HaversineMeters(b.Min, b.Max)
}

// PadBound grows a bound by the given margin in degrees on every side.
func PadBound(b orb.Bound, margin float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] - margin, b.Min[1] - margin},
		Max: orb.Point{b.Max[0] + margin, b.Max[1] + margin},
	}
}

// MetersToDegrees converts a distance in meters to an approximate angular
// span at the given latitude. Used to turn meter thresholds into grid-query
// margins; the approximation is fine for query expansion, the caller still
// filters by true haversine distance.
func MetersToDegrees(meters, atLat float64) float64 {
	perDegree := 2 * math.Pi * EarthRadiusM / 360
	cos := math.Cos(atLat * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01
	}
	return meters / (perDegree * cos)
}

// LineLengthMeters sums the haversine lengths of consecutive segments.
func LineLengthMeters(ls orb.LineString) float64 {
	var total float64
	for i := 1; i < len(ls); i++ {
		total += HaversineMeters(ls[i-1], ls[i])
	}
	return total
}
