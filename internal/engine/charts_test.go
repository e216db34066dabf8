package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramBins(t *testing.T) {
	bins := histogramBins([]float64{4, 1, 3, 2}, 3)
	require.Len(t, bins, 3)

	assert.Equal(t, 1.0, bins[0].Lo)
	assert.Equal(t, 4.0, bins[2].Hi)
	assert.Equal(t, []int{1, 1, 2}, []int{bins[0].Count, bins[1].Count, bins[2].Count}, "max lands in the last bin")
}

func TestHistogramBinsSingleValue(t *testing.T) {
	bins := histogramBins([]float64{7, 7, 7}, 10)
	require.Len(t, bins, 1)
	assert.Equal(t, 3, bins[0].Count)
}

func TestHistogramBinsExtremeSpan(t *testing.T) {
	bins := histogramBins([]float64{1.7e308, -1.7e308, 0}, 4)
	require.Len(t, bins, 4)

	assert.Equal(t, -1.7e308, bins[0].Lo)
	assert.Equal(t, 1.7e308, bins[3].Hi)
	total := 0
	for i, b := range bins {
		assert.False(t, math.IsNaN(b.Lo) || math.IsInf(b.Lo, 0), "bin %d lower edge is finite", i)
		assert.LessOrEqual(t, b.Lo, b.Hi)
		total += b.Count
	}
	assert.Equal(t, 3, total)
}

func TestBuildCharts(t *testing.T) {
	store := loadCSV(t, vehiclesCSV)
	ch := BuildCharts(Apply(store, Selection{}), ChartOptions{HistogramBins: 5, ScatterLimit: 100})

	require.NotNil(t, ch.OdometerHist)
	require.NotNil(t, ch.PriceHist)
	total := 0
	for _, b := range ch.PriceHist.Bins {
		total += b.Count
	}
	assert.Equal(t, 7, total, "missing prices are not binned")

	require.NotNil(t, ch.Scatter)
	assert.Equal(t, 6, ch.Scatter.Total)
	assert.Len(t, ch.Scatter.Points, 6)
	assert.Equal(t, ScatterOpacity, ch.Scatter.Opacity)
	assert.Equal(t, [2]float64{145000, 9400}, ch.Scatter.Points[0])

	require.NotNil(t, ch.Box)
	labels := make([]string, 0, len(ch.Box.Groups))
	for _, g := range ch.Box.Groups {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"SUV", "pickup", "sedan", "truck"}, labels)
	assert.Nil(t, ch.Notes)
}

func TestBuildChartsThinsScatter(t *testing.T) {
	store := loadCSV(t, vehiclesCSV)
	ch := BuildCharts(Apply(store, Selection{}), ChartOptions{HistogramBins: 5, ScatterLimit: 2})

	require.NotNil(t, ch.Scatter)
	assert.Equal(t, 6, ch.Scatter.Total)
	assert.Len(t, ch.Scatter.Points, 2)
}

func TestBuildChartsAbsentColumns(t *testing.T) {
	store := loadCSV(t, "price,model_year\n1000,2010\n2000,2011\n")
	ch := BuildCharts(Apply(store, Selection{}), ChartOptions{HistogramBins: 5, ScatterLimit: 10})

	assert.NotNil(t, ch.PriceHist)
	assert.Nil(t, ch.OdometerHist)
	assert.Nil(t, ch.Scatter)
	assert.Nil(t, ch.Box)
	assert.Contains(t, ch.Notes[ChartOdometer], "odometer")
	assert.Contains(t, ch.Notes[ChartScatter], "required")
	assert.Contains(t, ch.Notes[ChartBox], "required")
	assert.NotContains(t, ch.Notes, ChartPrice)
}

func TestBoxGroup(t *testing.T) {
	g := boxGroup("sedan", []float64{5, 1, 4, 2, 3, 100})

	assert.Equal(t, "sedan", g.Label)
	assert.Equal(t, 6, g.N)
	assert.LessOrEqual(t, g.Q1, g.Median)
	assert.LessOrEqual(t, g.Median, g.Q3)
	assert.Equal(t, 1.0, g.LowerFence)
	assert.Less(t, g.UpperFence, 100.0)
	assert.Equal(t, []float64{100}, g.Outliers)
}
