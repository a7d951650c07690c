// Package loader reads the YAML layer manifest and the GeoJSON feature
// files it points at. Loading degrades instead of failing: a malformed
// feature is skipped, a missing or unparsable layer file skips that layer,
// and whatever loaded still renders.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-hclog"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/wesen/fieldmap/internal/feature"
	"github.com/wesen/fieldmap/pkg/geo"
)

// Entry is one manifest line.
type Entry struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // point | line | polygon
	File string `yaml:"file"`
}

// Manifest lists the logical layers of a site.
type Manifest struct {
	Layers []Entry `yaml:"layers"`
}

// Site is everything loaded for one session.
type Site struct {
	Markers     []geo.Marker
	TrenchLines []orb.LineString
	Polygons    []*feature.Feature
	Layers      []feature.Layer
}

// LoadSite reads the manifest and every layer it references. Only a missing
// or unreadable manifest is a hard error; per-layer failures are logged and
// skipped.
func LoadSite(manifestPath string, log hclog.Logger) (*Site, error) {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("loader: read manifest: %w", err)
	}
	var mf Manifest
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("loader: parse manifest: %w", err)
	}

	site := &Site{}
	dir := filepath.Dir(manifestPath)
	for _, e := range mf.Layers {
		if err := site.loadLayer(dir, e); err != nil {
			log.Warn("layer skipped", "layer", e.Name, "file", e.File, "error", err)
			continue
		}
		log.Info("layer loaded", "layer", e.Name, "kind", e.Kind)
	}
	return site, nil
}

func kindOf(s string) (feature.Kind, error) {
	switch s {
	case "point":
		return feature.KindPoint, nil
	case "line":
		return feature.KindLine, nil
	case "polygon":
		return feature.KindPolygon, nil
	}
	return 0, fmt.Errorf("unknown layer kind %q", s)
}

func (s *Site) loadLayer(dir string, e Entry) error {
	kind, err := kindOf(e.Kind)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(filepath.Join(dir, e.File))
	if err != nil {
		return err
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return err
	}

	layer := feature.Layer{Name: e.Name, Kind: kind}
	for i, gf := range fc.Features {
		if gf == nil || gf.Geometry == nil {
			continue
		}
		switch kind {
		case feature.KindPoint:
			s.addMarker(e.Name, i, gf)
		case feature.KindLine:
			s.addLines(gf.Geometry)
		case feature.KindPolygon:
			if f := s.addPolygon(e.Name, i, gf); f != nil {
				layer.Features = append(layer.Features, *f)
			}
		}
	}
	s.Layers = append(s.Layers, layer)
	return nil
}

func (s *Site) addMarker(layer string, i int, gf *geojson.Feature) {
	pt, ok := gf.Geometry.(orb.Point)
	if !ok {
		return
	}
	text := gf.Properties.MustString("label", "")
	if text == "" {
		text = gf.Properties.MustString("name", "")
	}
	id := geo.NormalizeID(gf.Properties.MustString("id", text))
	if id == "" {
		id = geo.NormalizeID(fmt.Sprintf("%s-%d", layer, i))
	}
	s.Markers = append(s.Markers, geo.Marker{
		ID:    id,
		Pos:   pt,
		Text:  text,
		Angle: gf.Properties.MustFloat64("angle", 0),
	})
}

func (s *Site) addLines(g orb.Geometry) {
	switch ls := g.(type) {
	case orb.LineString:
		s.TrenchLines = append(s.TrenchLines, ls)
	case orb.MultiLineString:
		s.TrenchLines = append(s.TrenchLines, ls...)
	}
}

func (s *Site) addPolygon(layer string, i int, gf *geojson.Feature) *feature.Feature {
	switch gf.Geometry.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return nil
	}
	id := geo.NormalizeID(gf.Properties.MustString("id", ""))
	if id == "" {
		id = geo.NormalizeID(fmt.Sprintf("%s-%d", layer, i))
	}
	f := &feature.Feature{
		ID:      id,
		Kind:    feature.KindPolygon,
		Geom:    gf.Geometry,
		LengthM: gf.Properties.MustFloat64("length_m", 0),
	}
	if f.Precompute() && f.LengthM == 0 {
		f.LengthM = f.DiagonalM
	}
	s.Polygons = append(s.Polygons, f)
	return f
}
