package mapui

import (
	"math"

	"github.com/paulmach/orb"
)

// Web-mercator pixel projection. World coordinates are pixels at the current
// zoom; one terminal cell is one pixel wide and two pixels tall, which keeps
// feature shapes roughly square on typical terminal fonts.
const (
	tileSize   = 256
	cellAspect = 2
)

func mercX(lng float64) float64 { return (lng + 180) / 360 }

func mercY(lat float64) float64 {
	s := math.Sin(lat * math.Pi / 180)
	// Clamp away from the poles where mercator diverges.
	if s > 0.9999 {
		s = 0.9999
	}
	if s < -0.9999 {
		s = -0.9999
	}
	return 0.5 - math.Log((1+s)/(1-s))/(4*math.Pi)
}

func invMercX(x float64) float64 { return x*360 - 180 }

func invMercY(y float64) float64 {
	return math.Atan(math.Sinh((0.5-y)*2*math.Pi)) * 180 / math.Pi
}

// camera is the current view: a geographic center and a zoom level.
type camera struct {
	center orb.Point
	zoom   float64
}

func (c camera) scale() float64 { return tileSize * math.Pow(2, c.zoom) }

// toScreen projects p to canvas cell coordinates for a canvas of w×h cells.
func (c camera) toScreen(p orb.Point, w, h int) (int, int) {
	s := c.scale()
	dx := (mercX(p.Lon()) - mercX(c.center.Lon())) * s
	dy := (mercY(p.Lat()) - mercY(c.center.Lat())) * s
	return w/2 + int(math.Round(dx)), h/2 + int(math.Round(dy/cellAspect))
}

// fromScreen unprojects canvas cell coordinates back to a geographic point.
func (c camera) fromScreen(x, y, w, h int) orb.Point {
	s := c.scale()
	wx := mercX(c.center.Lon()) + float64(x-w/2)/s
	wy := mercY(c.center.Lat()) + float64(y-h/2)*cellAspect/s
	return orb.Point{invMercX(wx), invMercY(wy)}
}

// viewport returns the geographic bound covered by a w×h canvas.
func (c camera) viewport(w, h int) orb.Bound {
	tl := c.fromScreen(0, 0, w, h)
	br := c.fromScreen(w-1, h-1, w, h)
	return orb.Bound{
		Min: orb.Point{math.Min(tl[0], br[0]), math.Min(tl[1], br[1])},
		Max: orb.Point{math.Max(tl[0], br[0]), math.Max(tl[1], br[1])},
	}
}

// panCells moves the camera by a cell delta at the current zoom.
func (c *camera) panCells(dx, dy int) {
	s := c.scale()
	wx := mercX(c.center.Lon()) + float64(dx)/s
	wy := mercY(c.center.Lat()) + float64(dy)*cellAspect/s
	c.center = orb.Point{invMercX(wx), invMercY(wy)}
}

// boundOf builds a bound from two arbitrary corner points.
func boundOf(a, b orb.Point) orb.Bound {
	return orb.Bound{
		Min: orb.Point{math.Min(a[0], b[0]), math.Min(a[1], b[1])},
		Max: orb.Point{math.Max(a[0], b[0]), math.Max(a[1], b[1])},
	}
}

// zoomBy adjusts zoom, clamped to slippy-map practical limits.
func (c *camera) zoomBy(delta float64) {
	c.zoom += delta
	if c.zoom < 1 {
		c.zoom = 1
	}
	if c.zoom > 22 {
		c.zoom = 22
	}
}
