package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/figure"
)

// Stdout is the FileSink path that writes to standard output.
const Stdout = "-"

// Sink displays or exports a composed figure.
type Sink interface {
	Show(ctx context.Context, fig *figure.Figure) error
}

// FileSink writes the rendered PNG to a file, or to stdout for path "-".
type FileSink struct {
	path     string
	renderer FigureRenderer
	opts     Options
	stdout   io.Writer
}

// NewFileSink creates a sink writing to path.
func NewFileSink(path string, renderer FigureRenderer, opts Options) *FileSink {
	return &FileSink{path: path, renderer: renderer, opts: opts, stdout: os.Stdout}
}

// Path returns the output path.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Show(ctx context.Context, fig *figure.Figure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := s.renderer.Render(fig, s.opts)
	if err != nil {
		return err
	}

	if s.path == Stdout {
		if _, err := s.stdout.Write(img); err != nil {
			return fmt.Errorf("write figure to stdout: %w", err)
		}
		return nil
	}

	// path is replaced atomically and never holds a partial image.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".figure-*.png")
	if err != nil {
		return fmt.Errorf("create figure file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod figure file: %w", err)
	}
	if _, err := tmp.Write(img); err != nil {
		tmp.Close()
		return fmt.Errorf("write figure file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close figure file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("move figure file into place: %w", err)
	}
	return nil
}
