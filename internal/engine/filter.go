package engine

import (
	"math"
)

// Fixed outlier bounds, inclusive.
const (
	PriceOutlierMin    = 100
	PriceOutlierMax    = 200000
	OdometerOutlierMin = 0
	OdometerOutlierMax = 500000
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

func (r Range) contains(v float64) bool {
	// NaN compares false on both sides, so missing values never pass.
	return v >= r.Min && v <= r.Max
}

// Selection is the set of user constraints for one render.
type Selection struct {
	Types          []string
	Conditions     []string
	Year           *Range
	Price          *Range
	RemoveOutliers bool
}

// View is a filtered, read-only subset of a store: ascending row indices.
type View struct {
	Store *ColumnStore
	Rows  []int
}

func (v View) Len() int {
	return len(v.Rows)
}

// Values returns the non-missing values of a numeric column over the view.
// ok is false when the column is absent.
func (v View) Values(col string) (vals []float64, ok bool) {
	src, ok := v.Store.Numeric[col]
	if !ok {
		return nil, false
	}
	vals = make([]float64, 0, len(v.Rows))
	for _, i := range v.Rows {
		if !math.IsNaN(src[i]) {
			vals = append(vals, src[i])
		}
	}
	return vals, true
}

type predicate func(i int) bool

// Apply filters the store. Predicates run in order: categories, numeric
// ranges, outlier removal; a row must satisfy all of them.
func Apply(store *ColumnStore, sel Selection) View {
	var preds []predicate

	if p := categoryPredicate(store, ColType, sel.Types); p != nil {
		preds = append(preds, p)
	}
	if p := categoryPredicate(store, ColCondition, sel.Conditions); p != nil {
		preds = append(preds, p)
	}
	if p := rangePredicate(store, ColModelYear, sel.Year); p != nil {
		preds = append(preds, p)
	}
	if p := rangePredicate(store, ColPrice, sel.Price); p != nil {
		preds = append(preds, p)
	}
	if sel.RemoveOutliers {
		if p := boundPredicate(store, ColPrice, Range{PriceOutlierMin, PriceOutlierMax}); p != nil {
			preds = append(preds, p)
		}
		if p := boundPredicate(store, ColOdometer, Range{OdometerOutlierMin, OdometerOutlierMax}); p != nil {
			preds = append(preds, p)
		}
	}

	rows := make([]int, 0, store.Rows)
	for i := 0; i < store.Rows; i++ {
		pass := true
		for _, p := range preds {
			if !p(i) {
				pass = false
				break
			}
		}
		if pass {
			rows = append(rows, i)
		}
	}
	return View{Store: store, Rows: rows}
}

// categoryPredicate returns nil when the filter cannot exclude anything:
// column absent, nothing selected, or every observed value selected.
func categoryPredicate(store *ColumnStore, col string, selected []string) predicate {
	tc, ok := store.Text[col]
	if !ok || len(selected) == 0 {
		return nil
	}
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}

	allowed := make([]bool, len(tc.Dict))
	all := true
	for id, s := range tc.Dict {
		allowed[id] = want[s]
		all = all && allowed[id]
	}
	if all {
		return nil
	}

	ids := tc.IDs
	return func(i int) bool {
		id := ids[i]
		return id >= 0 && allowed[id]
	}
}

// rangePredicate returns nil when the column is absent or all-missing, the
// range is unset, or it covers the column's full bounds.
func rangePredicate(store *ColumnStore, col string, r *Range) predicate {
	if r == nil {
		return nil
	}
	lo, hi, ok := store.Bounds(col)
	if !ok {
		return nil
	}
	if r.Min <= lo && r.Max >= hi {
		return nil
	}
	return boundPredicate(store, col, *r)
}

func boundPredicate(store *ColumnStore, col string, r Range) predicate {
	vals, ok := store.Numeric[col]
	if !ok {
		return nil
	}
	return func(i int) bool {
		return r.contains(vals[i])
	}
}
