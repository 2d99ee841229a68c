package pipeline

import (
	"context"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
)

// SeriesTransformer implements Transformer using the domain normalization
// functions for each series kind.
type SeriesTransformer struct{}

// NewTransformer creates a SeriesTransformer.
func NewTransformer() *SeriesTransformer {
	return &SeriesTransformer{}
}

func (t *SeriesTransformer) Transform(ctx context.Context, src domain.SourceDescriptor, raw domain.RawTable) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return domain.Normalize(src, raw)
}
