// fieldmap — terminal map console for field construction tracking.
// Renders site labels, work polygons, and the trench network; selections are
// committed to a day-scoped store.
package main

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/wesen/fieldmap/internal/config"
	"github.com/wesen/fieldmap/internal/loader"
	"github.com/wesen/fieldmap/internal/mapui"
	"github.com/wesen/fieldmap/internal/store"
)

var (
	flagConfig string
	flagDay    string
	flagLog    string
)

var rootCmd = &cobra.Command{
	Use:          "fieldmap",
	Short:        "fieldmap — interactive construction-site map",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		log, closeLog, err := openLogger(flagLog)
		if err != nil {
			return err
		}
		defer closeLog()

		day := flagDay
		if day == "" {
			day = store.DayKey(time.Now())
		}
		db := store.Open(cfg.Store.Dir, day, log)

		site, err := loader.LoadSite(cfg.Site.Manifest, log)
		if err != nil {
			return err
		}
		if len(site.Markers) == 0 && len(site.Polygons) == 0 {
			color.Yellow("fieldmap: no features loaded from %s", cfg.Site.Manifest)
		}

		p := tea.NewProgram(mapui.NewModel(cfg, log, db, site))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	},
}

// openLogger builds a file-backed logger; stdout belongs to the TUI.
func openLogger(path string) (hclog.Logger, func(), error) {
	if path == "" {
		return hclog.NewNullLogger(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log := hclog.New(&hclog.LoggerOptions{
		Name:   "fieldmap",
		Output: f,
		Level:  hclog.Info,
	})
	return log, func() { f.Close() }, nil
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "fieldmap.toml", "config file")
	rootCmd.Flags().StringVar(&flagDay, "day", "", "day key (YYYY-MM-DD), defaults to today")
	rootCmd.Flags().StringVar(&flagLog, "log", "", "log file (disabled when empty)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("fieldmap: %v", err)
		os.Exit(1)
	}
}
