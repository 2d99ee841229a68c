package render

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/figure"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/observability"
)

var generatedAt = time.Date(2024, time.May, 2, 12, 0, 0, 0, time.UTC)

type datasetOption func(*domain.Dataset)

func testFigure(t *testing.T, opts ...datasetOption) *figure.Figure {
	t.Helper()
	base := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	at := func(i int) time.Time { return base.Add(time.Duration(i) * 6 * time.Minute) }
	desc := func(id string, kind domain.SeriesKind, station string) domain.SourceDescriptor {
		return domain.SourceDescriptor{ID: id, Kind: kind, StationID: station}
	}

	ds := &domain.Dataset{
		Current: &domain.CurrentTable{
			Source: desc("CO-OPS__CFR1624__cu.csv", domain.KindCurrent, "CFR1624"),
			Rows:   []domain.CurrentRow{{Time: at(0), Speed: 1.2}, {Time: at(1), Speed: math.NaN()}, {Time: at(2), Speed: 1.4}},
		},
		Wind: &domain.WindTable{
			Source: desc("CO-OPS__8724580__ws.csv", domain.KindWind, "8724580"),
			Rows:   []domain.WindRow{{Time: at(0), Speed: 3.1, Gust: 4.8}, {Time: at(1), Speed: 2.9, Gust: 4.1}, {Time: at(2), Speed: 3.4, Gust: 5.2}},
		},
		MonthlyLevel: &domain.MonthlyLevelTable{
			Source: desc("CO-OPS__8540433__ml.csv", domain.KindMonthlyLevel, "8540433"),
			Rows: []domain.MonthlyLevelRow{
				{Month: 1, Year: 2022, Highest: 2.4, MSL: 0.95, Label: "1/2022"},
				{Month: 2, Year: 2022, Highest: 2.5, MSL: 0.94, Label: "2/2022"},
				{Month: 3, Year: 2022, Highest: 2.3, MSL: 0.91, Label: "3/2022"},
			},
		},
		Visibility: &domain.VisibilityTable{
			Source: desc("CO-OPS__8453662__vs.csv", domain.KindVisibility, "8453662"),
			Rows:   []domain.VisibilityRow{{Time: at(0), Visibility: 10.5}, {Time: at(1), Visibility: 10.4}, {Time: at(2), Visibility: 9.8}},
		},
	}
	for _, o := range opts {
		o(ds)
	}

	fig, err := figure.NewComposer(clockwork.NewFakeClockAt(generatedAt), observability.NewMetricsForTesting()).Compose(ds)
	require.NoError(t, err)
	return fig
}

func TestRenderer_Render_StacksPanels(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	opts := Options{Width: 600, PanelHeight: 250}

	out, err := NewRenderer(metrics).Render(testFigure(t), opts)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, captionHeight+4*250, img.Bounds().Dy())
}

func TestRenderer_Render_EdgeCaseSeries(t *testing.T) {
	constant := func(ds *domain.Dataset) {
		for i := range ds.Visibility.Rows {
			ds.Visibility.Rows[i].Visibility = 10
		}
	}
	singlePoint := func(ds *domain.Dataset) {
		ds.Current.Rows = ds.Current.Rows[:1]
	}
	allMissing := func(ds *domain.Dataset) {
		for i := range ds.MonthlyLevel.Rows {
			ds.MonthlyLevel.Rows[i].Highest = math.NaN()
			ds.MonthlyLevel.Rows[i].MSL = math.NaN()
		}
		for i := range ds.Wind.Rows {
			ds.Wind.Rows[i].Gust = math.NaN()
		}
	}

	for name, opt := range map[string]datasetOption{"constant": constant, "single point": singlePoint, "all missing": allMissing} {
		t.Run(name, func(t *testing.T) {
			out, err := NewRenderer(observability.NewMetricsForTesting()).Render(testFigure(t, opt), Options{Width: 400, PanelHeight: 200})
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}
}

func TestRenderer_Render_InvalidInput(t *testing.T) {
	r := NewRenderer(observability.NewMetricsForTesting())

	_, err := r.Render(nil, Options{Width: 400, PanelHeight: 200})
	require.Error(t, err)

	_, err = r.Render(testFigure(t), Options{Width: 0, PanelHeight: 200})
	require.Error(t, err)
}

func TestValueRange(t *testing.T) {
	r := valueRange([]figure.Series{{Values: []float64{1, math.NaN(), 3}}, {Values: []float64{2}}})
	assert.InDelta(t, 0.9, r.Min, 1e-9)
	assert.InDelta(t, 3.1, r.Max, 1e-9)

	flat := valueRange([]figure.Series{{Values: []float64{5, 5}}})
	assert.InDelta(t, 4, flat.Min, 0)
	assert.InDelta(t, 6, flat.Max, 0)

	empty := valueRange([]figure.Series{{Values: []float64{math.NaN()}}})
	assert.InDelta(t, 0, empty.Min, 0)
	assert.InDelta(t, 1, empty.Max, 0)
}

func TestCategorySeries_OneTickPerLabel(t *testing.T) {
	panel := testFigure(t).Panels()[2]
	series, axis := categorySeries(panel)

	require.Len(t, series, 2)
	require.Len(t, axis.Ticks, 3)
	assert.Equal(t, "1/2022", axis.Ticks[0].Label)
	assert.Equal(t, "3/2022", axis.Ticks[2].Label)
	assert.InDelta(t, 2, axis.Ticks[2].Value, 0)
}

func TestTimeSeries_DropsGaps(t *testing.T) {
	panel := testFigure(t).Panels()[0]
	series, axis := timeSeries(panel)

	require.Len(t, series, 1)
	ts, ok := series[0].(gochart.TimeSeries)
	require.True(t, ok)
	assert.Equal(t, 2, ts.Len(), "the NaN reading is not drawn")
	assert.Positive(t, axis.Range.GetDelta())
}

func TestSeriesStyle(t *testing.T) {
	st := seriesStyle(figure.Series{Color: figure.ColorOrange, Alpha: 0.5, LineWidth: 1.5}, 3)
	assert.Equal(t, uint8(128), st.StrokeColor.A)
	assert.Equal(t, uint8(0xFF), st.StrokeColor.R)
	assert.Zero(t, st.DotWidth)

	marked := seriesStyle(figure.Series{Color: figure.ColorRed, Markers: true}, 3)
	assert.Equal(t, uint8(255), marked.StrokeColor.A)
	assert.InDelta(t, markerWidth, marked.DotWidth, 0)
}

func TestCaption(t *testing.T) {
	assert.Equal(t,
		"NOAA CO-OPS stations CFR1624, 8724580, 8540433, 8453662, generated 2024-05-02 12:00 UTC",
		caption(testFigure(t)),
	)
}

func TestFileSink_Show(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figure.png")
	sink := NewFileSink(path, NewRenderer(observability.NewMetricsForTesting()), Options{Width: 400, PanelHeight: 200})

	require.NoError(t, sink.Show(context.Background(), testFigure(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, captionHeight+800, cfg.Height)
}

func TestFileSink_Stdout(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFileSink(Stdout, &countingRenderer{out: []byte("png")}, Options{Width: 400, PanelHeight: 200})
	sink.stdout = &buf

	require.NoError(t, sink.Show(context.Background(), testFigure(t)))
	assert.Equal(t, "png", buf.String())
}

func TestFileSink_CancelledContext(t *testing.T) {
	inner := &countingRenderer{out: []byte("png")}
	sink := NewFileSink(filepath.Join(t.TempDir(), "f.png"), inner, Options{Width: 400, PanelHeight: 200})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sink.Show(ctx, testFigure(t)), context.Canceled)
	assert.Zero(t, inner.calls)
}
