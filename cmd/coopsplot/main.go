// Command coopsplot inspects NOAA CO-OPS CSV exports and charts them as a
// four-panel figure.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/adapter/csvsource"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/config"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/observability"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/pipeline"
)

var (
	flagManifest string
	flagDataDir  string
	flagLenient  bool
)

// app carries what every subcommand needs. It is built once in PersistentPreRunE.
var app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	pipeline *pipeline.Pipeline
}

var rootCmd = &cobra.Command{
	Use:   "coopsplot",
	Short: "Inspect and chart NOAA CO-OPS station exports",
	Long: `coopsplot reads CO-OPS CSV exports for water current, wind, monthly water
level and visibility, and stacks them into one four-panel figure.

Sources are taken from the command arguments, else the manifest, else the
default CO-OPS filenames in the data directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagManifest, "manifest", "", "YAML source manifest (default $COOPS_MANIFEST)")
	pf.StringVar(&flagDataDir, "data-dir", "", "directory holding the default sources (default $COOPS_DATA_DIR)")
	pf.BoolVar(&flagLenient, "lenient", false, "classify sources by substring when the suffix is unknown")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("manifest") {
		cfg.Manifest = flagManifest
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if cmd.Flags().Changed("lenient") {
		cfg.LenientKinds = flagLenient
	}

	app.cfg = cfg
	app.logger = observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	app.metrics = observability.NewMetrics()
	app.clock = clockwork.NewRealClock()
	app.pipeline = pipeline.New(csvsource.NewLoader(), pipeline.NewTransformer(), app.logger, app.metrics, app.clock)
	return nil
}

func sources(args []string) ([]domain.SourceDescriptor, error) {
	return config.ResolveSources(args, app.cfg.Manifest, app.cfg.DataDir, app.cfg.LenientKinds)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
