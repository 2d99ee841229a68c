package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/config"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/figure"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/observability"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/render"
)

var errNoFigure = errors.New("no figure loaded")

// SourceInfo describes one ingested source in the /sources listing.
type SourceInfo struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	StationID string   `json:"station_id"`
	Rows      int      `json:"rows"`
	Columns   []string `json:"columns"`
}

// SourcesOf lists the tables of a dataset in panel order.
func SourcesOf(ds *domain.Dataset) []SourceInfo {
	if ds == nil {
		return nil
	}
	tables := ds.Tables()
	out := make([]SourceInfo, 0, len(tables))
	for _, t := range tables {
		src := t.Descriptor()
		out = append(out, SourceInfo{
			ID:        src.ID,
			Kind:      src.Kind.String(),
			StationID: src.StationID,
			Rows:      t.Len(),
			Columns:   t.ColumnNames(),
		})
	}
	return out
}

// Viewer holds the figure currently served. It is safe for concurrent use
// and implements Sink so a charting pass can publish into it.
type Viewer struct {
	mu      sync.RWMutex
	fig     *figure.Figure
	sources []SourceInfo
	metrics *observability.Metrics
}

// NewViewer creates an empty viewer. It reports not ready until a figure is set.
func NewViewer(metrics *observability.Metrics) *Viewer {
	return &Viewer{metrics: metrics}
}

// Set publishes a figure and the sources it was built from.
func (v *Viewer) Set(fig *figure.Figure, sources []SourceInfo) {
	v.mu.Lock()
	v.fig = fig
	v.sources = sources
	v.mu.Unlock()
	v.markReady(fig)
}

// Show publishes fig without changing the source listing.
func (v *Viewer) Show(ctx context.Context, fig *figure.Figure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.mu.Lock()
	v.fig = fig
	v.mu.Unlock()
	v.markReady(fig)
	return nil
}

func (v *Viewer) markReady(fig *figure.Figure) {
	if fig != nil {
		v.metrics.FigureReady.Set(1)
	} else {
		v.metrics.FigureReady.Set(0)
	}
}

// Figure returns the current figure, or nil.
func (v *Viewer) Figure() *figure.Figure {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fig
}

// Sources returns the current source listing.
func (v *Viewer) Sources() []SourceInfo {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sources
}

// CheckReadiness fails until a figure has been set.
func (v *Viewer) CheckReadiness(_ context.Context) error {
	if v.Figure() == nil {
		return errNoFigure
	}
	return nil
}

// Server exposes the figure viewer alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	viewer     *Viewer
	renderer   render.FigureRenderer
	defaults   render.Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /figure.png, /sources, /healthz, /readyz, and /metrics routes.
// defaults sizes /figure.png when the request does not.
func NewServer(addr string, viewer *Viewer, renderer render.FigureRenderer, defaults render.Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		viewer:   viewer,
		renderer: renderer,
		defaults: defaults,
		logger:   logger,
	}

	mux.HandleFunc("GET /figure.png", s.handleFigure)
	mux.HandleFunc("GET /sources", s.handleSources)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(viewer))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	opts, err := s.sizeFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	fig := s.viewer.Figure()
	if fig == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": errNoFigure.Error()})
		return
	}

	img, err := s.renderer.Render(fig, opts)
	if err != nil {
		s.logger.Error("render figure", "width", opts.Width, "panel_height", opts.PanelHeight, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	w.Write(img) //nolint:errcheck // client may have gone away
}

func (s *Server) sizeFrom(r *http.Request) (render.Options, error) {
	opts := s.defaults
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"width", &opts.Width},
		{"panel_height", &opts.PanelHeight},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, fmt.Errorf("%s must be an integer, got %q", p.name, raw)
		}
		if err := config.CheckDimension(p.name, v); err != nil {
			return opts, err
		}
		*p.dst = v
	}
	return opts, nil
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	sources := s.viewer.Sources()
	if sources == nil {
		sources = []SourceInfo{}
	}
	writeJSON(w, http.StatusOK, sources)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(v *Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := v.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
