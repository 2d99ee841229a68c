package figure_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/figure"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/observability"
)

var composedAt = time.Date(2024, time.May, 2, 12, 0, 0, 0, time.UTC)

func src(id string, kind domain.SeriesKind, station string) domain.SourceDescriptor {
	return domain.SourceDescriptor{ID: id, Path: id, Kind: kind, StationID: station}
}

func testDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	base := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	at := func(i int) time.Time { return base.Add(time.Duration(i) * 6 * time.Minute) }

	ds := &domain.Dataset{}
	// Added out of panel order on purpose.
	require.NoError(t, ds.Add(&domain.VisibilityTable{
		Source: src("CO-OPS__8453662__vs.csv", domain.KindVisibility, "8453662"),
		Rows:   []domain.VisibilityRow{{Time: at(0), Visibility: 10.5}, {Time: at(1), Visibility: 10.4}, {Time: at(2), Visibility: 9.8}},
	}))
	require.NoError(t, ds.Add(&domain.MonthlyLevelTable{
		Source: src("CO-OPS__8540433__ml.csv", domain.KindMonthlyLevel, "8540433"),
		Rows: []domain.MonthlyLevelRow{
			{Month: 12, Year: 2021, Highest: 2.6, MSL: 0.97, Label: "12/2021"},
			{Month: 1, Year: 2022, Highest: 2.4, MSL: 0.95, Label: "1/2022"},
			{Month: 2, Year: 2022, Highest: 2.5, MSL: math.NaN(), Label: "2/2022"},
		},
	}))
	require.NoError(t, ds.Add(&domain.WindTable{
		Source: src("CO-OPS__8724580__ws.csv", domain.KindWind, "8724580"),
		Rows:   []domain.WindRow{{Time: at(0), Speed: 3.1, Gust: 4.8}, {Time: at(1), Speed: 2.9, Gust: 4.1}, {Time: at(2), Speed: 3.4, Gust: 5.2}},
	}))
	require.NoError(t, ds.Add(&domain.CurrentTable{
		Source: src("CO-OPS__CFR1624__cu.csv", domain.KindCurrent, "CFR1624"),
		Rows:   []domain.CurrentRow{{Time: at(0), Speed: 1.2}, {Time: at(1), Speed: 1.3}, {Time: at(2), Speed: 1.4}},
	}))
	return ds
}

func newComposer(metrics *observability.Metrics) *figure.Composer {
	return figure.NewComposer(clockwork.NewFakeClockAt(composedAt), metrics)
}

func TestCompose_PanelOrderAndTitles(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	fig, err := newComposer(metrics).Compose(testDataset(t))
	require.NoError(t, err)

	panels := fig.Panels()
	require.Len(t, panels, 4)
	assert.Equal(t, 4, fig.Len())

	kinds := make([]domain.SeriesKind, len(panels))
	titles := make([]string, len(panels))
	for i, p := range panels {
		kinds[i] = p.Kind
		titles[i] = p.Title
	}
	assert.Equal(t, domain.PanelOrder, kinds)
	assert.Equal(t, []string{
		"Water Current Speed - Station CFR1624",
		"Wind Speed and Gusts - Station 8724580",
		"Monthly Water Levels - Station 8540433",
		"Visibility Over Time - Station 8453662",
	}, titles)
	assert.Equal(t, []string{"CFR1624", "8724580", "8540433", "8453662"}, fig.Stations())
	assert.Equal(t, composedAt, fig.GeneratedAt())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FiguresComposed), 0)
}

func TestCompose_AxisLabels(t *testing.T) {
	fig, err := newComposer(observability.NewMetricsForTesting()).Compose(testDataset(t))
	require.NoError(t, err)

	type axes struct {
		X, Y   string
		Axis   figure.AxisKind
		Legend bool
	}
	var got []axes
	for _, p := range fig.Panels() {
		got = append(got, axes{X: p.XLabel, Y: p.YLabel, Axis: p.Axis, Legend: p.ShowLegend()})
	}
	want := []axes{
		{X: "Date Time", Y: "Speed (knots)", Axis: figure.AxisTime},
		{X: "Date Time", Y: "Speed (m/s)", Axis: figure.AxisTime, Legend: true},
		{X: "Month/Year", Y: "Level", Axis: figure.AxisCategory, Legend: true},
		{X: "Date Time", Y: "Visibility", Axis: figure.AxisTime},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("panel axes mismatch (-want +got):\n%s", diff)
	}
}

func TestCompose_SeriesFollowRows(t *testing.T) {
	fig, err := newComposer(observability.NewMetricsForTesting()).Compose(testDataset(t))
	require.NoError(t, err)
	panels := fig.Panels()

	wind := panels[1]
	require.Len(t, wind.Series, 2)
	assert.Equal(t, "Wind Speed", wind.Series[0].Name)
	assert.Equal(t, figure.ColorGreen, wind.Series[0].Color)
	assert.Equal(t, "Wind Gust", wind.Series[1].Name)
	assert.Equal(t, figure.ColorOrange, wind.Series[1].Color)
	assert.InDelta(t, 0.5, wind.Series[1].Alpha, 0)
	assert.Equal(t, []float64{4.8, 4.1, 5.2}, wind.Series[1].Values)

	monthly := panels[2]
	assert.Equal(t, []string{"12/2021", "1/2022", "2/2022"}, monthly.Categories, "labels stay in file order")
	require.Len(t, monthly.Series, 2)
	assert.Equal(t, "Highest Level", monthly.Series[0].Name)
	assert.False(t, monthly.Series[0].Markers)
	assert.Equal(t, "Mean Sea Level (MSL)", monthly.Series[1].Name)
	assert.True(t, monthly.Series[1].Markers)
	assert.True(t, math.IsNaN(monthly.Series[1].Values[2]), "missing readings are kept as gaps")

	for _, p := range panels {
		for _, s := range p.Series {
			assert.Len(t, s.Values, 3, "%s/%s plots every row", p.Kind, s.Name)
		}
	}

	current := panels[0].Series[0]
	assert.Equal(t, figure.ColorBlue, current.Color)
	assert.InDelta(t, 0.5, current.LineWidth, 0)
	assert.Equal(t, figure.ColorPurple, panels[3].Series[0].Color)
}

func TestCompose_PanelsAreCopies(t *testing.T) {
	fig, err := newComposer(observability.NewMetricsForTesting()).Compose(testDataset(t))
	require.NoError(t, err)

	first := fig.Panels()
	first[0].Title = "changed"
	first[0].Series[0].Values[0] = -1
	first[2].Categories[0] = "changed"

	second := fig.Panels()
	assert.Equal(t, "Water Current Speed - Station CFR1624", second[0].Title)
	assert.InDelta(t, 1.2, second[0].Series[0].Values[0], 1e-9)
	assert.Equal(t, "12/2021", second[2].Categories[0])
}

func TestCompose_MissingTables(t *testing.T) {
	ds := testDataset(t)
	ds.Wind = nil
	ds.Visibility = nil

	metrics := observability.NewMetricsForTesting()
	_, err := newComposer(metrics).Compose(ds)

	var compErr *domain.CompositionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, []domain.SeriesKind{domain.KindWind, domain.KindVisibility}, compErr.Missing)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.FiguresComposed), 0)

	_, err = newComposer(metrics).Compose(nil)
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, domain.PanelOrder, compErr.Missing)
}

func TestCompose_EmptyTable(t *testing.T) {
	ds := testDataset(t)
	ds.Current.Rows = nil

	_, err := newComposer(observability.NewMetricsForTesting()).Compose(ds)
	var compErr *domain.CompositionError
	require.ErrorAs(t, err, &compErr)
	assert.Contains(t, err.Error(), "CO-OPS__CFR1624__cu.csv")
}

func TestCompose_FiguresHaveDistinctIDs(t *testing.T) {
	c := newComposer(observability.NewMetricsForTesting())

	first, err := c.Compose(testDataset(t))
	require.NoError(t, err)
	second, err := c.Compose(testDataset(t))
	require.NoError(t, err)

	assert.Equal(t, first.GeneratedAt(), second.GeneratedAt())
	assert.NotZero(t, first.ID())
	assert.NotEqual(t, first.ID(), second.ID())
}
