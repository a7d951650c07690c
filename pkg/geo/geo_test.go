package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"inv-3", "INV-3"},
		{"  Inv  3  ", "INV 3"},
		{"t\t04", "T 04"},
		{"ALREADY", "ALREADY"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := NormalizeID(tc.in); got != tc.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHaversineZero(t *testing.T) {
	p := orb.Point{-116.5, 34.2}
	if d := HaversineMeters(p, p); d != 0 {
		t.Fatalf("same-point distance = %v, want 0", d)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// One degree of latitude is ~111.2 km everywhere.
	a := orb.Point{0, 0}
	b := orb.Point{0, 1}
	d := HaversineMeters(a, b)
	if math.Abs(d-111195) > 100 {
		t.Fatalf("1° latitude = %.0f m, want ~111195", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := orb.Point{-116.51, 34.21}
	b := orb.Point{-116.49, 34.19}
	if d1, d2 := HaversineMeters(a, b), HaversineMeters(b, a); d1 != d2 {
		t.Fatalf("asymmetric: %v vs %v", d1, d2)
	}
}

func TestDiagonalMeters(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 1}}
	d := DiagonalMeters(b)
	if math.Abs(d-111195) > 100 {
		t.Fatalf("diagonal = %.0f m, want ~111195", d)
	}

	var empty orb.Bound
	empty.Min = orb.Point{1, 1}
	empty.Max = orb.Point{0, 0}
	if d := DiagonalMeters(empty); d != 0 {
		t.Fatalf("empty bound diagonal = %v, want 0", d)
	}
}

func TestPadBound(t *testing.T) {
	b := orb.Bound{Min: orb.Point{1, 2}, Max: orb.Point{3, 4}}
	p := PadBound(b, 0.5)
	if p.Min[0] != 0.5 || p.Min[1] != 1.5 || p.Max[0] != 3.5 || p.Max[1] != 4.5 {
		t.Fatalf("padded bound = %v", p)
	}
}

func TestMetersToDegrees(t *testing.T) {
	// At the equator 111195 m is very close to one degree.
	d := MetersToDegrees(111195, 0)
	if math.Abs(d-1) > 0.01 {
		t.Fatalf("111195 m at equator = %v°, want ~1", d)
	}
	// At 60°N the longitude span doubles.
	d60 := MetersToDegrees(111195, 60)
	if math.Abs(d60-2) > 0.05 {
		t.Fatalf("111195 m at 60° = %v°, want ~2", d60)
	}
	// Near the pole the cosine clamp keeps the result finite.
	dp := MetersToDegrees(1000, 89.9999)
	if math.IsInf(dp, 0) || math.IsNaN(dp) {
		t.Fatalf("polar conversion not finite: %v", dp)
	}
}

func TestLineLengthMeters(t *testing.T) {
	ls := orb.LineString{{0, 0}, {0, 1}, {0, 2}}
	d := LineLengthMeters(ls)
	if math.Abs(d-2*111195) > 200 {
		t.Fatalf("2° polyline = %.0f m, want ~222390", d)
	}
	if d := LineLengthMeters(orb.LineString{{0, 0}}); d != 0 {
		t.Fatalf("single-point line length = %v, want 0", d)
	}
}
