package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coops"

// Metrics holds the Prometheus counters, histograms, and gauges for ingestion and rendering.
type Metrics struct {
	// Ingestion metrics.
	SourcesIngested *prometheus.CounterVec // labels: kind, outcome={success,not_found,schema,parse}
	RowsIngested    *prometheus.CounterVec // labels: kind
	IngestDuration  prometheus.Histogram

	// Figure metrics.
	FiguresComposed prometheus.Counter
	RenderDuration  prometheus.Histogram
	RenderCache     *prometheus.CounterVec // labels: result={hit,miss}
	FigureReady     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SourcesIngested,
		m.RowsIngested,
		m.IngestDuration,
		m.FiguresComposed,
		m.RenderDuration,
		m.RenderCache,
		m.FigureReady,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SourcesIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_ingested_total",
			Help:      "CSV sources ingested by series kind and outcome.",
		}, []string{"kind", "outcome"}),
		RowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_ingested_total",
			Help:      "Normalized rows ingested by series kind.",
		}, []string{"kind"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Duration of loading and normalizing one source.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		FiguresComposed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figures_composed_total",
			Help:      "Total four-panel figures composed.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of rendering a figure to PNG.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_total",
			Help:      "Rendered figure cache lookups by result.",
		}, []string{"result"}),
		FigureReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "figure_ready",
			Help:      "1 when a composed figure is available to serve, 0 otherwise.",
		}),
	}
}
