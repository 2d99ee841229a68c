package figure

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/observability"
)

// Named colors, matching the usual plotting palette names.
const (
	ColorBlue    = "#0000FF"
	ColorGreen   = "#008000"
	ColorOrange  = "#FFA500"
	ColorSkyBlue = "#87CEEB"
	ColorRed     = "#FF0000"
	ColorPurple  = "#800080"
)

const (
	defaultLineWidth = 1.5
	thinLineWidth    = 0.5
)

// Composer turns a complete Dataset into a Figure.
type Composer struct {
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewComposer creates a Composer. The clock stamps each figure's generation time.
func NewComposer(clock clockwork.Clock, metrics *observability.Metrics) *Composer {
	return &Composer{clock: clock, metrics: metrics}
}

// Compose builds the four panels in fixed order: current, wind, monthly level,
// visibility. Every row of every table is plotted as-is. A missing or empty
// table is a CompositionError.
func (c *Composer) Compose(ds *domain.Dataset) (*Figure, error) {
	if ds == nil {
		return nil, &domain.CompositionError{Missing: domain.PanelOrder}
	}
	if missing := ds.Missing(); len(missing) > 0 {
		return nil, &domain.CompositionError{Missing: missing}
	}
	for _, t := range ds.Tables() {
		if t.Len() == 0 {
			return nil, &domain.CompositionError{Reason: fmt.Sprintf("source %s has no rows to plot", t.Descriptor().ID)}
		}
	}

	fig := &Figure{
		id: seq.Add(1),
		panels: []Panel{
			currentPanel(ds.Current),
			windPanel(ds.Wind),
			monthlyLevelPanel(ds.MonthlyLevel),
			visibilityPanel(ds.Visibility),
		},
		generatedAt: c.clock.Now().UTC(),
	}
	c.metrics.FiguresComposed.Inc()
	return fig, nil
}

func currentPanel(t *domain.CurrentTable) Panel {
	times := make([]time.Time, len(t.Rows))
	speed := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		times[i] = r.Time
		speed[i] = r.Speed
	}
	return Panel{
		Kind:      domain.KindCurrent,
		StationID: t.Source.StationID,
		Title:     "Water Current Speed - Station " + t.Source.StationID,
		XLabel:    domain.ColDateTime,
		YLabel:    "Speed (knots)",
		Axis:      AxisTime,
		Series: []Series{
			{Name: "Current Speed", Color: ColorBlue, Alpha: 1, LineWidth: thinLineWidth, Times: times, Values: speed},
		},
	}
}

func windPanel(t *domain.WindTable) Panel {
	times := make([]time.Time, len(t.Rows))
	speed := make([]float64, len(t.Rows))
	gust := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		times[i] = r.Time
		speed[i] = r.Speed
		gust[i] = r.Gust
	}
	return Panel{
		Kind:      domain.KindWind,
		StationID: t.Source.StationID,
		Title:     "Wind Speed and Gusts - Station " + t.Source.StationID,
		XLabel:    domain.ColDateTime,
		YLabel:    "Speed (m/s)",
		Axis:      AxisTime,
		Series: []Series{
			{Name: "Wind Speed", Color: ColorGreen, Alpha: 1, LineWidth: defaultLineWidth, Times: times, Values: speed},
			{Name: "Wind Gust", Color: ColorOrange, Alpha: 0.5, LineWidth: defaultLineWidth, Times: times, Values: gust},
		},
	}
}

func monthlyLevelPanel(t *domain.MonthlyLevelTable) Panel {
	labels := make([]string, len(t.Rows))
	highest := make([]float64, len(t.Rows))
	msl := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		labels[i] = r.Label
		highest[i] = r.Highest
		msl[i] = r.MSL
	}
	return Panel{
		Kind:       domain.KindMonthlyLevel,
		StationID:  t.Source.StationID,
		Title:      "Monthly Water Levels - Station " + t.Source.StationID,
		XLabel:     "Month/Year",
		YLabel:     "Level",
		Axis:       AxisCategory,
		Categories: labels,
		Series: []Series{
			{Name: "Highest Level", Color: ColorSkyBlue, Alpha: 1, LineWidth: defaultLineWidth, Values: highest},
			{Name: "Mean Sea Level (MSL)", Color: ColorRed, Alpha: 1, LineWidth: defaultLineWidth, Markers: true, Values: msl},
		},
	}
}

func visibilityPanel(t *domain.VisibilityTable) Panel {
	times := make([]time.Time, len(t.Rows))
	vis := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		times[i] = r.Time
		vis[i] = r.Visibility
	}
	return Panel{
		Kind:      domain.KindVisibility,
		StationID: t.Source.StationID,
		Title:     "Visibility Over Time - Station " + t.Source.StationID,
		XLabel:    domain.ColDateTime,
		YLabel:    "Visibility",
		Axis:      AxisTime,
		Series: []Series{
			{Name: "Visibility", Color: ColorPurple, Alpha: 1, LineWidth: defaultLineWidth, Times: times, Values: vis},
		},
	}
}
