package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/observability"
)

// Loader reads the raw content of one source.
type Loader interface {
	Load(ctx context.Context, src domain.SourceDescriptor) (domain.RawTable, error)
}

// Transformer converts a raw table into the normalized table for its kind.
type Transformer interface {
	Transform(ctx context.Context, src domain.SourceDescriptor, raw domain.RawTable) (domain.Table, error)
}

// Result is the outcome of ingesting one source during an inspection pass.
// Exactly one of Table and Err is set.
type Result struct {
	Source domain.SourceDescriptor
	Table  domain.Table
	Err    error
}

// OK reports whether the source was ingested.
func (r Result) OK() bool { return r.Err == nil }

// Pipeline loads and normalizes CO-OPS sources sequentially.
type Pipeline struct {
	loader      Loader
	transformer Transformer
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
}

// New creates a Pipeline with the given stages and observability.
func New(l Loader, t Transformer, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	return &Pipeline{
		loader:      l,
		transformer: t,
		logger:      logger,
		metrics:     metrics,
		clock:       clock,
	}
}

// Ingest loads and normalizes a single source.
func (p *Pipeline) Ingest(ctx context.Context, src domain.SourceDescriptor) (domain.Table, error) {
	return p.ingest(ctx, p.logger, src)
}

// Inspect ingests every source in order and reports each outcome. A failing
// source is logged and does not stop the remaining ones.
func (p *Pipeline) Inspect(ctx context.Context, srcs []domain.SourceDescriptor) []Result {
	pending := make([]Result, len(srcs))
	for i, src := range srcs {
		pending[i] = Result{Source: src}
	}
	return p.InspectEach(ctx, pending)
}

// InspectEach is Inspect for sources that may have already failed upstream,
// such as identifiers that could not be classified. Entries with Err set are
// reported as failed without being loaded.
func (p *Pipeline) InspectEach(ctx context.Context, pending []Result) []Result {
	logger := p.runLogger("inspect")
	logger.Info("inspection started", "sources", len(pending))

	results := make([]Result, 0, len(pending))
	failed := 0
	for _, r := range pending {
		src := r.Source
		switch {
		case r.Err != nil:
			logger.Warn("source unresolved, continuing", "source", src.ID, "error", r.Err)
			results = append(results, Result{Source: src, Err: r.Err})
			failed++
			continue
		case ctx.Err() != nil:
			results = append(results, Result{Source: src, Err: ctx.Err()})
			failed++
			continue
		}
		table, err := p.ingest(ctx, logger, src)
		if err != nil {
			logger.Warn("source failed, continuing", "source", src.ID, "kind", src.Kind.String(), "error", err)
			failed++
		}
		results = append(results, Result{Source: src, Table: table, Err: err})
	}

	logger.Info("inspection finished", "succeeded", len(pending)-failed, "failed", failed)
	return results
}

// IngestAll ingests every source for charting. The first failure aborts the
// run. A second source of an already ingested kind is a SchemaError.
func (p *Pipeline) IngestAll(ctx context.Context, srcs []domain.SourceDescriptor) (*domain.Dataset, error) {
	logger := p.runLogger("chart")
	logger.Info("ingestion started", "sources", len(srcs))

	ds := &domain.Dataset{}
	for _, src := range srcs {
		table, err := p.ingest(ctx, logger, src)
		if err != nil {
			logger.Error("ingestion failed", "source", src.ID, "kind", src.Kind.String(), "error", err)
			return nil, err
		}
		if err := ds.Add(table); err != nil {
			logger.Error("ingestion failed", "source", src.ID, "kind", src.Kind.String(), "error", err)
			return nil, err
		}
	}

	logger.Info("ingestion finished", "tables", len(ds.Tables()))
	return ds, nil
}

func (p *Pipeline) runLogger(mode string) *slog.Logger {
	return p.logger.With("run_id", uuid.NewString(), "mode", mode)
}

func (p *Pipeline) ingest(ctx context.Context, logger *slog.Logger, src domain.SourceDescriptor) (domain.Table, error) {
	start := p.clock.Now()
	kind := src.Kind.String()

	raw, err := p.loader.Load(ctx, src)
	if err != nil {
		p.metrics.SourcesIngested.WithLabelValues(kind, outcome(err)).Inc()
		return nil, err
	}

	table, err := p.transformer.Transform(ctx, src, raw)
	if err != nil {
		p.metrics.SourcesIngested.WithLabelValues(kind, outcome(err)).Inc()
		return nil, err
	}

	elapsed := p.clock.Since(start)
	p.metrics.SourcesIngested.WithLabelValues(kind, "success").Inc()
	p.metrics.RowsIngested.WithLabelValues(kind).Add(float64(table.Len()))
	p.metrics.IngestDuration.Observe(elapsed.Seconds())

	logger.Debug("source ingested",
		"source", src.ID,
		"kind", kind,
		"station_id", src.StationID,
		"rows", table.Len(),
		"duration", elapsed,
	)
	return table, nil
}

// outcome maps an ingestion error to its metrics label.
func outcome(err error) string {
	var (
		notFound *domain.SourceNotFoundError
		schema   *domain.SchemaError
		parse    *domain.ParseError
	)
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &schema):
		return "schema"
	case errors.As(err, &parse):
		return "parse"
	default:
		return "error"
	}
}
