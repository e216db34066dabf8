package engine

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"dashboard/internal/models"
)

// Summarize computes the headline metrics for a view.
func Summarize(v View) models.Metrics {
	return models.Metrics{
		TotalRows:      v.Store.Rows,
		FilteredRows:   v.Len(),
		MedianPrice:    median(v, ColPrice),
		MedianOdometer: median(v, ColOdometer),
	}
}

// median is nil when the column is absent or has no values in the view.
func median(v View, col string) *float64 {
	vals, ok := v.Values(col)
	if !ok || len(vals) == 0 {
		return nil
	}
	m, err := stats.Median(vals)
	if err != nil {
		return nil
	}
	if math.IsInf(m, 0) {
		// Averaging the two middle values overflowed.
		x := append([]float64(nil), vals...)
		sort.Float64s(x)
		n := len(x)
		m = x[n/2-1]/2 + x[n/2]/2
	}
	return &m
}

// MissingCounts counts missing cells per column over the view, largest first.
func MissingCounts(v View) []models.MissingCount {
	out := make([]models.MissingCount, 0, len(v.Store.Headers))
	for _, col := range v.Store.Headers {
		n := 0
		for _, i := range v.Rows {
			if v.Store.IsMissing(col, i) {
				n++
			}
		}
		out = append(out, models.MissingCount{Column: col, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Options describes the controls the dataset supports.
func Options(store *ColumnStore) models.FilterOptions {
	opts := models.FilterOptions{
		Types:      store.Categories(ColType),
		Conditions: store.Categories(ColCondition),
	}
	if lo, hi, ok := store.Bounds(ColModelYear); ok {
		opts.Year = &models.Bounds{Min: lo, Max: hi}
	}
	if lo, hi, ok := store.Bounds(ColPrice); ok {
		opts.Price = &models.Bounds{Min: lo, Max: hi}
	}
	return opts
}

// Preview renders the first limit rows of the view.
func Preview(v View, limit int) models.Preview {
	return Page(v, 0, limit)
}

// Page renders rows [offset, offset+limit) of the view.
func Page(v View, offset, limit int) models.Preview {
	p := models.Preview{Columns: v.Store.Headers, Rows: make([][]models.Cell, 0)}
	if offset >= v.Len() {
		return p
	}
	end := min(offset+limit, v.Len())
	for _, i := range v.Rows[offset:end] {
		row := make([]models.Cell, len(v.Store.Headers))
		for c, col := range v.Store.Headers {
			row[c].Value, row[c].Missing = v.Store.Cell(col, i)
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}
