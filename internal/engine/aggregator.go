package engine

import (
	"math"

	"dashboard/internal/models"
)

// EmptyWarning is shown in place of the table and the charts when no row
// survives the filters.
const EmptyWarning = "No data matches the current filters. Adjust the filters in the sidebar."

type AggregateOptions struct {
	PreviewRows int
	Charts      ChartOptions
}

// Aggregate builds everything one dashboard render needs from the filtered
// view. It is total: absent columns and empty views produce notes and
// warnings, never errors.
func (v View) Aggregate(sel Selection, opts AggregateOptions) *models.DashboardData {
	data := &models.DashboardData{
		Options:   Options(v.Store),
		Metrics:   Summarize(v),
		Preview:   Preview(v, opts.PreviewRows),
		Selection: EffectiveSelection(v.Store, sel),
	}

	if v.Len() == 0 {
		data.Empty = true
		data.Warning = EmptyWarning
		data.Missing = make([]models.MissingCount, 0)
		return data
	}

	data.Missing = MissingCounts(v)
	data.Charts = BuildCharts(v, opts.Charts)
	return data
}

// EffectiveSelection resolves the defaults a control falls back to: an empty
// category set shows every option selected, an unset range the full bounds.
func EffectiveSelection(store *ColumnStore, sel Selection) models.SelectionEcho {
	eff := models.SelectionEcho{
		Types:          sel.Types,
		Conditions:     sel.Conditions,
		RemoveOutliers: sel.RemoveOutliers,
	}
	if len(eff.Types) == 0 {
		eff.Types = store.Categories(ColType)
	}
	if len(eff.Conditions) == 0 {
		eff.Conditions = store.Categories(ColCondition)
	}
	eff.Year = effectiveRange(store, ColModelYear, sel.Year)
	eff.Price = effectiveRange(store, ColPrice, sel.Price)
	return eff
}

func effectiveRange(store *ColumnStore, col string, r *Range) *models.Bounds {
	lo, hi, ok := store.Bounds(col)
	if !ok {
		return nil
	}
	if r == nil {
		return &models.Bounds{Min: lo, Max: hi}
	}
	b := &models.Bounds{Min: r.Min, Max: r.Max}
	if math.IsInf(b.Min, -1) {
		b.Min = lo
	}
	if math.IsInf(b.Max, 1) {
		b.Max = hi
	}
	return b
}
