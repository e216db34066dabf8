package engine

import (
	"math"
	"sort"
	"strconv"
)

// Well-known columns. Any of them may be absent from a given file.
const (
	ColType      = "type"
	ColCondition = "condition"
	ColModelYear = "model_year"
	ColPrice     = "price"
	ColOdometer  = "odometer"
)

// numericColumns are coerced to float64 on load; every other column stays text.
var numericColumns = map[string]bool{
	ColModelYear: true,
	ColPrice:     true,
	ColOdometer:  true,
}

// ColumnStore holds data in Struct-of-Arrays format. It is immutable once
// LoadColumnar returns it.
type ColumnStore struct {
	Headers []string
	Rows    int

	// Numeric columns, NaN marks a missing or unparseable value.
	Numeric map[string][]float64

	// Dictionary encoded text columns.
	Text map[string]*TextColumn
}

// TextColumn is a dictionary encoded column: IDs index into Dict, -1 is missing.
type TextColumn struct {
	IDs  []int32
	Dict []string
}

// HasColumn reports whether the file carried a column named col.
func (cs *ColumnStore) HasColumn(col string) bool {
	if _, ok := cs.Numeric[col]; ok {
		return true
	}
	_, ok := cs.Text[col]
	return ok
}

// Categories returns the sorted distinct non-missing values of a text column,
// or nil when the column is absent.
func (cs *ColumnStore) Categories(col string) []string {
	tc, ok := cs.Text[col]
	if !ok || len(tc.Dict) == 0 {
		return nil
	}
	out := append([]string(nil), tc.Dict...)
	sort.Strings(out)
	return out
}

// Bounds returns [floor(min), ceil(max)] over the non-missing values of a
// numeric column. ok is false when the column is absent or all-missing.
func (cs *ColumnStore) Bounds(col string) (lo, hi float64, ok bool) {
	vals, exists := cs.Numeric[col]
	if !exists {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return math.Floor(lo), math.Ceil(hi), true
}

// IsMissing reports whether row i has no value in col.
func (cs *ColumnStore) IsMissing(col string, i int) bool {
	if vals, ok := cs.Numeric[col]; ok {
		return math.IsNaN(vals[i])
	}
	if tc, ok := cs.Text[col]; ok {
		return tc.IDs[i] < 0
	}
	return true
}

// Cell renders row i of col for display. missing is true for absent values.
func (cs *ColumnStore) Cell(col string, i int) (value string, missing bool) {
	if vals, ok := cs.Numeric[col]; ok {
		if math.IsNaN(vals[i]) {
			return "", true
		}
		return strconv.FormatFloat(vals[i], 'f', -1, 64), false
	}
	if tc, ok := cs.Text[col]; ok {
		if id := tc.IDs[i]; id >= 0 {
			return tc.Dict[id], false
		}
	}
	return "", true
}
