package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/models"
)

func TestSummarize(t *testing.T) {
	store := loadCSV(t, vehiclesCSV)

	m := Summarize(Apply(store, Selection{}))
	assert.Equal(t, 8, m.TotalRows)
	assert.Equal(t, 8, m.FilteredRows)
	require.NotNil(t, m.MedianPrice)
	assert.Equal(t, 9400.0, *m.MedianPrice)
	require.NotNil(t, m.MedianOdometer)
	assert.Equal(t, 88705.0, *m.MedianOdometer)

	// Even counts average the two middle values.
	m = Summarize(Apply(store, Selection{RemoveOutliers: true}))
	assert.Equal(t, 8, m.TotalRows)
	assert.Equal(t, 4, m.FilteredRows)
	assert.Equal(t, 12150.0, *m.MedianPrice)
	assert.Equal(t, 99352.5, *m.MedianOdometer)
}

func TestSummarizeNotAvailable(t *testing.T) {
	store := loadCSV(t, "price,type\n,sedan\nabc,SUV\n")

	m := Summarize(Apply(store, Selection{}))
	assert.Equal(t, 2, m.FilteredRows)
	assert.Nil(t, m.MedianPrice, "all-missing price has no median")
	assert.Nil(t, m.MedianOdometer, "absent odometer has no median")

	m = Summarize(Apply(store, Selection{Types: []string{"nothing"}}))
	assert.Equal(t, 0, m.FilteredRows)
	assert.Nil(t, m.MedianPrice)
}

func TestSummarizeMedianDoesNotOverflow(t *testing.T) {
	store := loadCSV(t, "price\n1.7e308\n1.7e308\n")

	m := Summarize(Apply(store, Selection{}))
	require.NotNil(t, m.MedianPrice)
	assert.Equal(t, 1.7e308, *m.MedianPrice)
}

func TestMissingCounts(t *testing.T) {
	store := loadCSV(t, vehiclesCSV)

	counts := MissingCounts(Apply(store, Selection{}))
	require.Len(t, counts, len(store.Headers))
	assert.Equal(t, []models.MissingCount{
		{Column: "is_4wd", Count: 5},
		{Column: "paint_color", Count: 3},
		{Column: ColPrice, Count: 1},
		{Column: ColModelYear, Count: 1},
		{Column: ColCondition, Count: 1},
		{Column: ColOdometer, Count: 1},
		{Column: "model", Count: 0},
	}, counts[:7])
}

func TestOptions(t *testing.T) {
	store := loadCSV(t, vehiclesCSV)

	opts := Options(store)
	assert.Equal(t, []string{"SUV", "pickup", "sedan", "truck"}, opts.Types)
	assert.Equal(t, []string{"excellent", "fair", "good", "like new", "new"}, opts.Conditions)
	assert.Equal(t, &models.Bounds{Min: 2003, Max: 2017}, opts.Year)
	assert.Equal(t, &models.Bounds{Min: 50, Max: 300000}, opts.Price)
}

func TestPage(t *testing.T) {
	store := loadCSV(t, vehiclesCSV)
	v := Apply(store, Selection{Types: []string{"pickup"}})

	p := Preview(v, 50)
	assert.Equal(t, store.Headers, p.Columns)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, models.Cell{Value: "25500"}, p.Rows[0][0])
	assert.Equal(t, models.Cell{Missing: true}, p.Rows[0][1])

	p = Page(v, 1, 10)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "1500", p.Rows[0][0].Value)

	assert.Empty(t, Page(v, 5, 10).Rows)
}
