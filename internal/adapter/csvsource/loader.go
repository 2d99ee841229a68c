// Package csvsource reads CO-OPS CSV exports from the local filesystem.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
)

const utf8BOM = "\ufeff"

// Loader reads a source file into a raw table with a trimmed header.
type Loader struct{}

// NewLoader creates a filesystem loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load opens src.Path and reads every record. Rows may be wider or narrower
// than the header.
func (l *Loader) Load(ctx context.Context, src domain.SourceDescriptor) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}
	f, err := os.Open(src.Path)
	if err != nil {
		return domain.RawTable{}, &domain.SourceNotFoundError{Source: src.ID, Err: err}
	}
	defer f.Close()

	return Read(ctx, src.ID, f)
}

// Read parses CSV from r. id names the source in errors.
func Read(ctx context.Context, id string, r io.Reader) (domain.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.RawTable{}, &domain.SchemaError{Source: id, Reason: "empty file, no header row"}
	}
	if err != nil {
		return domain.RawTable{}, readError(id, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	raw := domain.RawTable{Source: id, Header: domain.TrimHeader(header)}
	for i := 0; ; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return domain.RawTable{}, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.RawTable{}, readError(id, err)
		}
		line, _ := cr.FieldPos(0)
		raw.Records = append(raw.Records, domain.RawRecord{Line: line, Fields: rec})
	}
	return raw, nil
}

func readError(id string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &domain.ParseError{Source: id, Line: pe.Line, Err: pe.Err}
	}
	return &domain.SourceNotFoundError{Source: id, Err: fmt.Errorf("read: %w", err)}
}
