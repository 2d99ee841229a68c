// Package render draws a composed figure as a single stacked PNG.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/figure"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/observability"
)

// TimeAxisFormat labels the x ticks of time panels.
const TimeAxisFormat = "01/02 15:04"

const (
	captionHeight = 24
	markerWidth   = 4
)

// Options sizes the output. Width applies to every panel; the final image is
// Width by captionHeight + 4*PanelHeight pixels.
type Options struct {
	Width       int
	PanelHeight int
}

// Height returns the total image height for a figure with n panels.
func (o Options) Height(n int) int { return captionHeight + n*o.PanelHeight }

// FigureRenderer turns a figure into encoded image bytes.
type FigureRenderer interface {
	Render(fig *figure.Figure, opts Options) ([]byte, error)
}

// Renderer draws each panel with go-chart and stacks them vertically.
type Renderer struct {
	metrics *observability.Metrics
}

// NewRenderer creates a Renderer.
func NewRenderer(metrics *observability.Metrics) *Renderer {
	return &Renderer{metrics: metrics}
}

// Render returns the figure as PNG bytes.
func (r *Renderer) Render(fig *figure.Figure, opts Options) ([]byte, error) {
	if fig == nil || fig.Len() == 0 {
		return nil, errors.New("render: empty figure")
	}
	if opts.Width <= 0 || opts.PanelHeight <= 0 {
		return nil, fmt.Errorf("render: invalid size %dx%d", opts.Width, opts.PanelHeight)
	}
	start := time.Now()

	panels := fig.Panels()
	canvas := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height(len(panels))))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	drawCaption(canvas, caption(fig))

	for i, p := range panels {
		img, err := renderPanel(p, opts.Width, opts.PanelHeight)
		if err != nil {
			return nil, fmt.Errorf("render panel %q: %w", p.Title, err)
		}
		top := captionHeight + i*opts.PanelHeight
		dst := image.Rect(0, top, opts.Width, top+opts.PanelHeight)
		draw.Draw(canvas, dst, img, img.Bounds().Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	r.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	return buf.Bytes(), nil
}

func caption(fig *figure.Figure) string {
	return fmt.Sprintf("NOAA CO-OPS stations %s, generated %s",
		strings.Join(fig.Stations(), ", "),
		fig.GeneratedAt().Format("2006-01-02 15:04 MST"),
	)
}

func drawCaption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	y := (captionHeight + face.Metrics().Ascent.Ceil()) / 2
	d.Dot = fixed.Point26_6{X: fixed.I(8), Y: fixed.I(y)}
	d.DrawString(text)
}

func renderPanel(p figure.Panel, width, height int) (image.Image, error) {
	var (
		series []gochart.Series
		xAxis  gochart.XAxis
	)
	switch p.Axis {
	case figure.AxisCategory:
		series, xAxis = categorySeries(p)
	default:
		series, xAxis = timeSeries(p)
	}
	xAxis.Name = p.XLabel

	ch := gochart.Chart{
		Title:      p.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      gochart.YAxis{Name: p.YLabel, Range: valueRange(p.Series)},
		Series:     series,
	}
	if p.ShowLegend() {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// timeSeries drops NaN points; a line is drawn across the gap they leave.
func timeSeries(p figure.Panel) ([]gochart.Series, gochart.XAxis) {
	var (
		out        []gochart.Series
		minT, maxT time.Time
	)
	for _, s := range p.Series {
		var xs []time.Time
		var ys []float64
		for i, v := range s.Values {
			if i >= len(s.Times) || isGap(v) {
				continue
			}
			t := s.Times[i]
			xs = append(xs, t)
			ys = append(ys, v)
			if minT.IsZero() || t.Before(minT) {
				minT = t
			}
			if maxT.IsZero() || t.After(maxT) {
				maxT = t
			}
		}
		if len(xs) == 0 {
			continue
		}
		out = append(out, gochart.TimeSeries{Name: s.Name, Style: seriesStyle(s, len(xs)), XValues: xs, YValues: ys})
	}

	if minT.IsZero() {
		minT = time.Unix(0, 0).UTC()
		maxT = minT
	}
	if !maxT.After(minT) {
		minT = minT.Add(-30 * time.Minute)
		maxT = maxT.Add(30 * time.Minute)
	}
	if len(out) == 0 {
		out = append(out, placeholder(gochart.TimeToFloat64(minT), gochart.TimeToFloat64(maxT)))
	}

	axis := gochart.XAxis{
		ValueFormatter: gochart.TimeValueFormatterWithFormat(TimeAxisFormat),
		Range:          &gochart.ContinuousRange{Min: gochart.TimeToFloat64(minT), Max: gochart.TimeToFloat64(maxT)},
	}
	return out, axis
}

// categorySeries places point i of every series at x = i, one tick per category.
func categorySeries(p figure.Panel) ([]gochart.Series, gochart.XAxis) {
	var out []gochart.Series
	for _, s := range p.Series {
		var xs, ys []float64
		for i, v := range s.Values {
			if i >= len(p.Categories) || isGap(v) {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
		if len(xs) == 0 {
			continue
		}
		out = append(out, gochart.ContinuousSeries{Name: s.Name, Style: seriesStyle(s, len(xs)), XValues: xs, YValues: ys})
	}

	n := len(p.Categories)
	ticks := make([]gochart.Tick, n)
	for i, label := range p.Categories {
		ticks[i] = gochart.Tick{Value: float64(i), Label: label}
	}
	rng := &gochart.ContinuousRange{Min: -0.5, Max: math.Max(float64(n)-0.5, 0.5)}
	if len(out) == 0 {
		out = append(out, placeholder(rng.Min, rng.Max))
	}
	return out, gochart.XAxis{Ticks: ticks, Range: rng}
}

// placeholder keeps go-chart's at-least-one-series requirement for a panel
// with no finite values. It is never drawn.
func placeholder(minX, maxX float64) gochart.Series {
	return gochart.ContinuousSeries{
		Style:   gochart.Style{Hidden: true},
		XValues: []float64{minX, maxX},
		YValues: []float64{0, 0},
	}
}

func seriesStyle(s figure.Series, points int) gochart.Style {
	c := drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#")).WithAlpha(alpha(s.Alpha))
	st := gochart.Style{
		StrokeColor: c,
		StrokeWidth: s.LineWidth,
		DotColor:    c,
	}
	if s.Markers || points == 1 {
		st.DotWidth = markerWidth
	}
	return st
}

// alpha treats an unset (zero) alpha as opaque.
func alpha(a float64) uint8 {
	if a <= 0 || a > 1 {
		return 255
	}
	return uint8(math.Round(a * 255))
}

// valueRange spans every finite value of every series with 5% headroom. A
// constant or empty series gets a unit-wide range.
func valueRange(series []figure.Series) *gochart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			if isGap(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	switch {
	case math.IsInf(lo, 1):
		return &gochart.ContinuousRange{Min: 0, Max: 1}
	case hi-lo == 0:
		return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	default:
		pad := (hi - lo) * 0.05
		return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
}

func isGap(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
