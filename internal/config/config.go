// Package config loads the application configuration from TOML and
// validates it. Missing files fall back to defaults; a present but invalid
// file is an error, since silently ignoring an operator's config is worse
// than refusing to start.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/wesen/fieldmap/pkg/labels"
)

// Config is the top-level application configuration.
type Config struct {
	Site   Site                    `toml:"site"`
	Store  Persistence             `toml:"store"`
	Labels map[string]LabelSection `toml:"labels" validate:"dive"` // keyed by layer name
}

// Site configures the initial camera and the layer manifest.
type Site struct {
	Manifest  string  `toml:"manifest" validate:"required"`
	CenterLat float64 `toml:"center_lat" validate:"gte=-90,lte=90"`
	CenterLng float64 `toml:"center_lng" validate:"gte=-180,lte=180"`
	Zoom      float64 `toml:"zoom" validate:"gte=1,lte=22"`
}

// Persistence configures the day store location.
type Persistence struct {
	Dir string `toml:"dir" validate:"required"`
}

// LabelSection is the per-layer label configuration.
type LabelSection struct {
	Mode          string  `toml:"mode" validate:"oneof=always hover cursor none"`
	BaseSize      float64 `toml:"base_size" validate:"gt=0"`
	RefZoom       float64 `toml:"ref_zoom"`
	MinSize       float64 `toml:"min_size"`
	MaxSize       float64 `toml:"max_size"`
	MinResolvable float64 `toml:"min_resolvable"`
	BadgeMinZoom  float64 `toml:"badge_min_zoom"`
	BadgeRounded  bool    `toml:"badge_rounded"`
	ViewportCap   int     `toml:"viewport_cap" validate:"gt=0"`
	CursorCap     int     `toml:"cursor_cap" validate:"gt=0"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Site: Site{
			Manifest: "layers.yaml",
			Zoom:     16,
		},
		Store: Persistence{Dir: "data"},
		Labels: map[string]LabelSection{
			"points": defaultSection(),
		},
	}
}

func defaultSection() LabelSection {
	p := labels.DefaultParams()
	return LabelSection{
		Mode:          string(p.Mode),
		BaseSize:      p.BaseSize,
		RefZoom:       p.RefZoom,
		MinSize:       p.MinSize,
		MaxSize:       p.MaxSize,
		MinResolvable: p.MinResolvable,
		BadgeMinZoom:  p.BadgeMinZoom,
		BadgeRounded:  p.BadgeRounded,
		ViewportCap:   p.ViewportCap,
		CursorCap:     p.CursorCap,
	}
}

// Load reads and validates the config at path. A missing file yields
// Default() and no error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate %s: %w", path, err)
	}
	return cfg, nil
}

// Params converts a label section to engine parameters, filling gaps from
// the defaults.
func (s LabelSection) Params() labels.Params {
	p := labels.DefaultParams()
	p.Mode = labels.VisibilityMode(s.Mode)
	p.BaseSize = s.BaseSize
	if s.RefZoom != 0 {
		p.RefZoom = s.RefZoom
	}
	if s.MinSize != 0 {
		p.MinSize = s.MinSize
	}
	if s.MaxSize != 0 {
		p.MaxSize = s.MaxSize
	}
	if s.MinResolvable != 0 {
		p.MinResolvable = s.MinResolvable
	}
	if s.BadgeMinZoom != 0 {
		p.BadgeMinZoom = s.BadgeMinZoom
	}
	p.BadgeRounded = s.BadgeRounded
	p.ViewportCap = s.ViewportCap
	p.CursorCap = s.CursorCap
	return p
}

// LabelParams returns parameters for the named layer, defaulting when the
// layer has no section.
func (c *Config) LabelParams(layer string) labels.Params {
	if s, ok := c.Labels[layer]; ok {
		return s.Params()
	}
	return labels.DefaultParams()
}
