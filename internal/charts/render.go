// Package charts draws dashboard chart data as SVG.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"dashboard/internal/engine"
	"dashboard/internal/errors"
	"dashboard/internal/models"
)

const (
	Width  = 640
	Height = 360
)

var (
	barColor drawing.Color = chart.ColorBlue
	boxColor drawing.Color = chart.ColorAlternateGray
)

// Unavailable reports that a panel has no data to draw. The message is the
// note shown instead of the chart.
func Unavailable(ch models.Charts, key string) (string, bool) {
	note := ch.Notes[key]
	switch key {
	case engine.ChartOdometer:
		return note, ch.OdometerHist == nil
	case engine.ChartPrice:
		return note, ch.PriceHist == nil
	case engine.ChartScatter:
		return note, ch.Scatter == nil
	case engine.ChartBox:
		return note, ch.Box == nil
	}
	return fmt.Sprintf("unknown chart %q", key), true
}

// Render draws the panel named key as SVG.
func Render(w io.Writer, ch models.Charts, key string) error {
	if note, missing := Unavailable(ch, key); missing {
		return errors.New(errors.CodeNotFound, note)
	}
	switch key {
	case engine.ChartOdometer:
		return RenderHistogram(w, ch.OdometerHist)
	case engine.ChartPrice:
		return RenderHistogram(w, ch.PriceHist)
	case engine.ChartScatter:
		return RenderScatter(w, ch.Scatter)
	default:
		return RenderBoxPlot(w, ch.Box)
	}
}

// SVG is Render into a byte slice.
func SVG(ch models.Charts, key string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, ch, key); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderHistogram draws the bins as a filled step line.
func RenderHistogram(w io.Writer, h *models.Histogram) error {
	n := len(h.Bins)
	xs := make([]float64, 0, 4*n)
	ys := make([]float64, 0, 4*n)
	peak := 0.0
	for _, b := range h.Bins {
		c := float64(b.Count)
		xs = append(xs, b.Lo, b.Lo, b.Hi, b.Hi)
		ys = append(ys, 0, c, c, 0)
		peak = math.Max(peak, c)
	}

	graph := chart.Chart{
		Title:  h.Title,
		Width:  Width,
		Height: Height,
		XAxis: chart.XAxis{
			Name:           h.Column,
			Range:          paddedRange(h.Bins[0].Lo, h.Bins[n-1].Hi, 0),
			ValueFormatter: numberFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "count",
			Range:          &chart.ContinuousRange{Min: 0, Max: math.Max(peak*1.05, 1)},
			ValueFormatter: numberFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    h.Column,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: barColor,
					StrokeWidth: 1,
					FillColor:   barColor.WithAlpha(160),
				},
			},
		},
	}
	return render(w, graph, h.Title)
}

// RenderScatter draws points only, with the panel's opacity applied to the dots.
func RenderScatter(w io.Writer, s *models.Scatter) error {
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i], ys[i] = p[0], p[1]
	}
	xlo, xhi := extent(xs)
	ylo, yhi := extent(ys)

	graph := chart.Chart{
		Title:  s.Title,
		Width:  Width,
		Height: Height,
		XAxis: chart.XAxis{
			Name:           s.X,
			Range:          paddedRange(xlo, xhi, 0.02),
			ValueFormatter: numberFormatter,
		},
		YAxis: chart.YAxis{
			Name:           s.Y,
			Range:          paddedRange(ylo, yhi, 0.02),
			ValueFormatter: numberFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    s.Title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    barColor.WithAlpha(alpha(s.Opacity)),
				},
			},
		},
	}
	return render(w, graph, s.Title)
}

// RenderBoxPlot draws one box per group from line segments, groups placed at
// x = 0, 1, 2, ... and labelled with ticks.
func RenderBoxPlot(w io.Writer, b *models.BoxPlot) error {
	var series []chart.Series
	ticks := make([]chart.Tick, 0, len(b.Groups))
	lo, hi := math.Inf(1), math.Inf(-1)

	line := func(xs, ys []float64) {
		series = append(series, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: boxColor, StrokeWidth: 1.5},
		})
	}

	for i, g := range b.Groups {
		x := float64(i)
		l, r := x-0.3, x+0.3
		line([]float64{l, r, r, l, l}, []float64{g.Q1, g.Q1, g.Q3, g.Q3, g.Q1})
		line([]float64{l, r}, []float64{g.Median, g.Median})
		line([]float64{x, x}, []float64{g.LowerFence, g.Q1})
		line([]float64{x, x}, []float64{g.Q3, g.UpperFence})
		line([]float64{x - 0.15, x + 0.15}, []float64{g.LowerFence, g.LowerFence})
		line([]float64{x - 0.15, x + 0.15}, []float64{g.UpperFence, g.UpperFence})

		lo, hi = math.Min(lo, g.LowerFence), math.Max(hi, g.UpperFence)
		if len(g.Outliers) > 0 {
			xs := make([]float64, len(g.Outliers))
			for k := range xs {
				xs[k] = x
			}
			series = append(series, chart.ContinuousSeries{
				XValues: xs,
				YValues: g.Outliers,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    2,
					DotColor:    boxColor.WithAlpha(alpha(engine.ScatterOpacity * 2)),
				},
			})
			olo, ohi := extent(g.Outliers)
			lo, hi = math.Min(lo, olo), math.Max(hi, ohi)
		}
		ticks = append(ticks, chart.Tick{Value: x, Label: g.Label})
	}

	graph := chart.Chart{
		Title:  b.Title,
		Width:  Width,
		Height: Height,
		XAxis: chart.XAxis{
			Name:  b.X,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(b.Groups)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           b.Y,
			Range:          paddedRange(lo, hi, 0.05),
			ValueFormatter: numberFormatter,
		},
		Series: series,
	}
	return render(w, graph, b.Title)
}

func render(w io.Writer, graph chart.Chart, title string) error {
	if err := graph.Render(chart.SVG, w); err != nil {
		return errors.Wrapf(err, "rendering chart %q", title)
	}
	return nil
}

// paddedRange widens [lo, hi] by frac on each side. A degenerate range is
// widened by one unit so the axis can still be drawn. A span too wide to
// represent is not padded.
func paddedRange(lo, hi, frac float64) *chart.ContinuousRange {
	if hi <= lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: lo + 1}
	}
	if frac == 0 || math.IsInf(hi-lo, 0) {
		return &chart.ContinuousRange{Min: lo, Max: hi}
	}
	pad := (hi - lo) * frac
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func extent(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}

func alpha(opacity float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
}

func numberFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	switch abs := math.Abs(f); {
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", f/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.0fk", f/1e3)
	default:
		return fmt.Sprintf("%.0f", f)
	}
}
