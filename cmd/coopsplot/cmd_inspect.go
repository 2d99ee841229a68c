package main

import (
	"github.com/spf13/cobra"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/config"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/inspect"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/pipeline"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Load every source and print its shape, columns and first rows",
	Long: `Load every source independently and print a report per source, followed by
a PASS/FAIL summary. A failing source does not stop the others, and the
command exits zero even when sources fail.`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	resolved, err := config.ResolveEach(args, app.cfg.Manifest, app.cfg.DataDir, app.cfg.LenientKinds)
	if err != nil {
		return err
	}
	pending := make([]pipeline.Result, len(resolved))
	for i, r := range resolved {
		pending[i] = pipeline.Result{Source: r.Source, Err: r.Err}
	}

	results := app.pipeline.InspectEach(cmd.Context(), pending)
	summary, err := inspect.WriteReport(cmd.OutOrStdout(), results)
	if err != nil {
		return err
	}
	app.logger.Info("inspection complete", "succeeded", summary.Succeeded, "failed", summary.Failed)
	return nil
}
