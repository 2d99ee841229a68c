package domain

import (
	"fmt"
	"strings"
)

// SourceNotFoundError reports a source that could not be opened or read.
type SourceNotFoundError struct {
	Source string
	Err    error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source %s: not found: %v", e.Source, e.Err)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// SchemaError reports a source whose shape does not match its series kind:
// a missing column after header trimming, an empty file, or an identifier that
// cannot be classified.
type SchemaError struct {
	Source string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("source %s: missing required column %q", e.Source, e.Column)
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Reason)
}

// ParseError reports a cell that could not be coerced to its column type.
// Line is the 1-based line number in the source file, header included.
type ParseError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("source %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("source %s: line %d: column %q: cannot parse %q: %v", e.Source, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CompositionError reports a figure that cannot be built from the tables given.
type CompositionError struct {
	Missing []SeriesKind
	Reason  string
}

func (e *CompositionError) Error() string {
	if len(e.Missing) == 0 {
		return "compose figure: " + e.Reason
	}
	names := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		names[i] = k.String()
	}
	return fmt.Sprintf("compose figure: missing tables for %s", strings.Join(names, ", "))
}
