package main

import (
	"github.com/spf13/cobra"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/config"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/render"
)

// renderOptions applies the --width and --panel-height flags, when the command
// has them and they are set, over the configured size.
func renderOptions(cmd *cobra.Command) (render.Options, error) {
	opts := render.Options{Width: app.cfg.FigureWidth, PanelHeight: app.cfg.PanelHeight}
	if f := cmd.Flags().Lookup("width"); f != nil && f.Changed {
		if err := config.CheckDimension("--width", flagWidth); err != nil {
			return opts, err
		}
		opts.Width = flagWidth
	}
	if f := cmd.Flags().Lookup("panel-height"); f != nil && f.Changed {
		if err := config.CheckDimension("--panel-height", flagPanelHeight); err != nil {
			return opts, err
		}
		opts.PanelHeight = flagPanelHeight
	}
	return opts, nil
}
