// Package figure builds the four-panel CO-OPS figure from normalized tables.
//
// A Figure is a description of what to draw: panel titles, axis labels and the
// plotted series. Turning it into pixels is the job of package render.
package figure

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
)

// AxisKind selects how a panel's x values are interpreted.
type AxisKind int

const (
	// AxisTime plots Series.Times on a continuous time axis.
	AxisTime AxisKind = iota
	// AxisCategory plots one point per Panel.Categories entry, in order.
	AxisCategory
)

// Series is one plotted line. For time panels Times and Values have equal
// length; for category panels Values aligns with the panel's Categories.
// NaN values are gaps.
type Series struct {
	Name      string
	Color     string  // hex, e.g. "#0000FF"
	Alpha     float64 // 0..1
	LineWidth float64
	Markers   bool
	Times     []time.Time
	Values    []float64
}

// Panel is one chart of the figure.
type Panel struct {
	Kind       domain.SeriesKind
	StationID  string
	Title      string
	XLabel     string
	YLabel     string
	Axis       AxisKind
	Categories []string
	Series     []Series
}

// ShowLegend reports whether the panel overlays more than one series.
func (p Panel) ShowLegend() bool { return len(p.Series) > 1 }

// seq numbers figures process-wide. Zero is never assigned.
var seq atomic.Uint64

// Figure is an immutable, ordered set of panels. It is built by Composer.
type Figure struct {
	id          uint64
	panels      []Panel
	generatedAt time.Time
}

// ID is unique among figures composed by this process, including figures
// composed at the same instant.
func (f *Figure) ID() uint64 { return f.id }

// Panels returns a copy of the panels in display order.
func (f *Figure) Panels() []Panel {
	out := make([]Panel, len(f.panels))
	for i, p := range f.panels {
		p.Categories = slices.Clone(p.Categories)
		series := make([]Series, len(p.Series))
		for j, s := range p.Series {
			s.Times = slices.Clone(s.Times)
			s.Values = slices.Clone(s.Values)
			series[j] = s
		}
		p.Series = series
		out[i] = p
	}
	return out
}

// Len returns the number of panels.
func (f *Figure) Len() int { return len(f.panels) }

// GeneratedAt is when the figure was composed.
func (f *Figure) GeneratedAt() time.Time { return f.generatedAt }

// Stations lists the station id of every panel in display order.
func (f *Figure) Stations() []string {
	out := make([]string, len(f.panels))
	for i, p := range f.panels {
		out[i] = p.StationID
	}
	return out
}
