package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/vshenoy-coding/plotting-oceanographic-data/internal/adapter/http"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/render"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [files...]",
	Short: "Compose the figure once and serve it over HTTP",
	Long: `Run the charting pass once at startup, then serve the figure at /figure.png
together with /sources, /healthz, /readyz and /metrics until SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default $COOPS_HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := app.cfg.HTTPAddr
	if cmd.Flags().Changed("addr") {
		addr = flagAddr
	}
	opts, err := renderOptions(cmd)
	if err != nil {
		return err
	}

	ds, fig, err := composeFigure(cmd, args)
	if err != nil {
		return err
	}

	viewer := httpadapter.NewViewer(app.metrics)
	viewer.Set(fig, httpadapter.SourcesOf(ds))

	renderer := render.NewCachedRenderer(render.NewRenderer(app.metrics), app.cfg.RenderCacheSize, app.metrics)
	srv := httpadapter.NewServer(addr, viewer, renderer, opts, app.logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		app.logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			app.logger.Error("http server error", "error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("http server shutdown error", "error", err)
		return err
	}
	app.logger.Info("shutdown complete")
	return nil
}
