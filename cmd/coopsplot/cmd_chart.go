package main

import (
	"github.com/spf13/cobra"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/figure"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/render"
)

var (
	flagOut         string
	flagWidth       int
	flagPanelHeight int
)

var chartCmd = &cobra.Command{
	Use:   "chart [files...]",
	Short: "Compose the four-panel figure and write it as PNG",
	Long: `Load all four series kinds, compose the stacked figure and write it as PNG.
The first ingestion error aborts the run. Use --out - to write to stdout.`,
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&flagOut, "out", "o", "figure.png", "output PNG path, or - for stdout")
	chartCmd.Flags().IntVar(&flagWidth, "width", 0, "figure width in pixels (default $COOPS_FIGURE_WIDTH)")
	chartCmd.Flags().IntVar(&flagPanelHeight, "panel-height", 0, "height of each panel in pixels (default $COOPS_PANEL_HEIGHT)")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	opts, err := renderOptions(cmd)
	if err != nil {
		return err
	}
	_, fig, err := composeFigure(cmd, args)
	if err != nil {
		return err
	}

	sink := render.NewFileSink(flagOut, render.NewRenderer(app.metrics), opts)
	if err := sink.Show(cmd.Context(), fig); err != nil {
		app.logger.Error("write figure failed", "path", sink.Path(), "error", err)
		return err
	}
	app.logger.Info("figure written", "path", sink.Path(), "width", opts.Width, "height", opts.Height(fig.Len()))
	return nil
}

// composeFigure runs the charting pass: fail-fast ingestion, then composition.
func composeFigure(cmd *cobra.Command, args []string) (*domain.Dataset, *figure.Figure, error) {
	srcs, err := sources(args)
	if err != nil {
		return nil, nil, err
	}
	ds, err := app.pipeline.IngestAll(cmd.Context(), srcs)
	if err != nil {
		return nil, nil, err
	}
	fig, err := figure.NewComposer(app.clock, app.metrics).Compose(ds)
	if err != nil {
		app.logger.Error("compose figure failed", "error", err)
		return nil, nil, err
	}
	return ds, fig, nil
}
