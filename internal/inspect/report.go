package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/pipeline"
)

// Summary counts the outcome of an inspection pass.
type Summary struct {
	Succeeded int
	Failed    int
}

// WriteReport prints one block per result, in order, followed by a summary of
// every failed source. Preview failures are reported in place of the preview.
func WriteReport(w io.Writer, results []pipeline.Result) (Summary, error) {
	rw := &reportWriter{w: w}
	var sum Summary

	for _, r := range results {
		rw.printf("--- %s ---\n", r.Source.ID)
		if !r.OK() {
			sum.Failed++
			rw.printf("error: %v\n\n", r.Err)
			continue
		}
		sum.Succeeded++
		writeTable(rw, r)
		rw.printf("\n")
	}

	rw.printf("=== Inspection summary ===\n")
	for _, r := range results {
		status := "PASS"
		if !r.OK() {
			status = "FAIL"
		}
		rw.printf("  %-42s %s\n", r.Source.ID, status)
	}
	rw.printf("\n%d of %d sources ingested\n", sum.Succeeded, len(results))

	if sum.Failed > 0 {
		rw.printf("\nFailed sources:\n")
		i := 0
		for _, r := range results {
			if r.OK() {
				continue
			}
			i++
			rw.printf("  [%d] %s: %v\n", i, r.Source.ID, r.Err)
		}
	}
	return sum, rw.err
}

func writeTable(rw *reportWriter, r pipeline.Result) {
	rw.printf("kind: %s\n", r.Source.Kind)
	rw.printf("station: %s\n", r.Source.StationID)

	p, err := NewPreview(r.Table)
	if err != nil {
		rw.printf("rows: %d\npreview unavailable: %v\n", r.Table.Len(), err)
		return
	}
	rw.printf("rows: %d, columns: %d\n", p.Rows, len(p.Header))
	rw.printf("header: %s\n", strings.Join(p.Header, ", "))
	rw.printf("columns:\n")
	for _, c := range p.Columns {
		rw.printf("  %-12s %s\n", c.Name, c.Type)
	}
	if p.Head == "" {
		rw.printf("(no rows)\n")
		return
	}
	rw.printf("%s\n", strings.TrimRight(p.Head, "\n"))
}

// reportWriter keeps the first write error so callers check once.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}
