package engine

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dashboard/internal/models"
)

// Chart panel keys, shared with the renderer and the HTTP routes.
const (
	ChartOdometer = "odometer"
	ChartPrice    = "price"
	ChartScatter  = "scatter"
	ChartBox      = "boxplot"
)

const noValuesNote = "No values to plot for the current filters."

// ScatterOpacity keeps dense regions of the scatter plot readable.
const ScatterOpacity = 0.25

type ChartOptions struct {
	HistogramBins int
	ScatterLimit  int
}

// BuildCharts computes the data behind every chart panel. Panels whose
// columns are absent are left nil with an explanatory note.
func BuildCharts(v View, opts ChartOptions) models.Charts {
	ch := models.Charts{Notes: make(map[string]string)}

	ch.OdometerHist = buildHistogram(v, ColOdometer, "Odometer distribution", opts.HistogramBins, ch.Notes, ChartOdometer)
	ch.PriceHist = buildHistogram(v, ColPrice, "Price distribution", opts.HistogramBins, ch.Notes, ChartPrice)

	if v.Store.HasColumn(ColPrice) && v.Store.HasColumn(ColOdometer) {
		ch.Scatter = buildScatter(v, opts.ScatterLimit)
	} else {
		ch.Notes[ChartScatter] = "Columns 'price' and 'odometer' are required for the scatter plot."
	}

	if v.Store.HasColumn(ColType) && v.Store.HasColumn(ColPrice) {
		ch.Box = buildBoxPlot(v)
	} else {
		ch.Notes[ChartBox] = "Columns 'type' and 'price' are required for the boxplot."
	}

	if ch.Scatter != nil && len(ch.Scatter.Points) == 0 {
		ch.Scatter = nil
		ch.Notes[ChartScatter] = noValuesNote
	}
	if ch.Box != nil && len(ch.Box.Groups) == 0 {
		ch.Box = nil
		ch.Notes[ChartBox] = noValuesNote
	}

	if len(ch.Notes) == 0 {
		ch.Notes = nil
	}
	return ch
}

func buildHistogram(v View, col, title string, bins int, notes map[string]string, key string) *models.Histogram {
	vals, ok := v.Values(col)
	if !ok {
		notes[key] = fmt.Sprintf("Column '%s' is not available.", col)
		return nil
	}
	if len(vals) == 0 {
		notes[key] = noValuesNote
		return nil
	}
	return &models.Histogram{Column: col, Title: title, Bins: histogramBins(vals, bins)}
}

// histogramBins splits [min, max] into equal-width bins. The last divider is
// nudged past max so the largest value lands in the last bin.
func histogramBins(vals []float64, bins int) []models.Bin {
	x := append([]float64(nil), vals...)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]
	if lo == hi || bins < 1 {
		bins = 1
	}

	dividers := make([]float64, bins+1)
	if math.IsInf(hi-lo, 0) {
		// hi-lo overflows; weight the ends separately so every edge stays finite.
		for i := range dividers {
			t := float64(i) / float64(bins)
			dividers[i] = lo*(1-t) + hi*t
		}
	} else {
		floats.Span(dividers, lo, hi)
	}
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)
	out := make([]models.Bin, bins)
	for i, c := range counts {
		out[i] = models.Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(c)}
	}
	out[bins-1].Hi = hi
	return out
}

// buildScatter pairs odometer (x) with price (y). Above limit points the
// rows are thinned with a fixed stride so renders stay deterministic.
func buildScatter(v View, limit int) *models.Scatter {
	xs := v.Store.Numeric[ColOdometer]
	ys := v.Store.Numeric[ColPrice]

	var pts [][2]float64
	for _, i := range v.Rows {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, [2]float64{xs[i], ys[i]})
	}

	total := len(pts)
	if limit > 0 && total > limit {
		stride := (total + limit - 1) / limit
		thinned := make([][2]float64, 0, limit)
		for i := 0; i < total; i += stride {
			thinned = append(thinned, pts[i])
		}
		pts = thinned
	}

	return &models.Scatter{
		Title:   "Price vs odometer",
		X:       ColOdometer,
		Y:       ColPrice,
		Opacity: ScatterOpacity,
		Points:  pts,
		Total:   total,
	}
}

func buildBoxPlot(v View) *models.BoxPlot {
	tc := v.Store.Text[ColType]
	prices := v.Store.Numeric[ColPrice]
	if tc == nil || prices == nil {
		return nil
	}

	groups := make(map[int32][]float64)
	for _, i := range v.Rows {
		id := tc.IDs[i]
		if id < 0 || math.IsNaN(prices[i]) {
			continue
		}
		groups[id] = append(groups[id], prices[i])
	}

	box := &models.BoxPlot{Title: "Price by vehicle type", X: ColType, Y: ColPrice}
	for id, vals := range groups {
		box.Groups = append(box.Groups, boxGroup(tc.Dict[id], vals))
	}
	sort.Slice(box.Groups, func(i, j int) bool { return box.Groups[i].Label < box.Groups[j].Label })
	return box
}

// boxGroup computes linearly interpolated quartiles and Tukey whiskers.
func boxGroup(label string, vals []float64) models.BoxGroup {
	x := append([]float64(nil), vals...)
	sort.Float64s(x)

	g := models.BoxGroup{
		Label:  label,
		N:      len(x),
		Q1:     stat.Quantile(0.25, stat.LinInterp, x, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, x, nil),
		Q3:     stat.Quantile(0.75, stat.LinInterp, x, nil),
	}
	iqr := g.Q3 - g.Q1
	loFence, hiFence := g.Q1-1.5*iqr, g.Q3+1.5*iqr

	g.LowerFence, g.UpperFence = g.Q1, g.Q3
	for _, val := range x {
		if val >= loFence {
			g.LowerFence = math.Min(g.LowerFence, val)
			break
		}
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] <= hiFence {
			g.UpperFence = math.Max(g.UpperFence, x[i])
			break
		}
	}
	for _, val := range x {
		if val < loFence || val > hiFence {
			g.Outliers = append(g.Outliers, val)
		}
	}
	return g
}
