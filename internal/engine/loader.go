package engine

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"

	"dashboard/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// naTokens are the cell spellings treated as a missing value.
var naTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true,
	"None": true, "n/a": true, "nan": true, "null": true,
}

func isNA(s string) bool {
	return naTokens[strings.TrimSpace(s)]
}

// parseNumeric is best-effort: values that do not parse, and infinities,
// come back as NaN.
func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	if isNA(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// dedupeHeaders suffixes repeated names with ".1", ".2", ... so every column
// stays addressable.
func dedupeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	taken := make(map[string]bool, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		name := h
		for n := 1; taken[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// LoadColumnar reads a CSV file into a ColumnStore. Columns are built
// concurrently; the three numeric columns are coerced, the rest are
// dictionary encoded.
func LoadColumnar(path string) (*ColumnStore, error) {
	start := time.Now()
	log.Infof("Loading data from %s...", path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.NotFound(path), "reading dataset")
		}
		return nil, errors.Wrapf(err, "reading dataset %s", path)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeInvalidInput, err), "parsing dataset")
	}
	if len(records) == 0 {
		return nil, errors.Wrap(errors.InvalidInput("missing header row"), "parsing dataset")
	}

	headers := dedupeHeaders(records[0])
	rows := records[1:]

	store := &ColumnStore{
		Headers: headers,
		Rows:    len(rows),
		Numeric: make(map[string][]float64),
		Text:    make(map[string]*TextColumn),
	}

	numeric := make([][]float64, len(headers))
	text := make([]*TextColumn, len(headers))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for c, name := range headers {
		g.Go(func() error {
			if numericColumns[name] {
				numeric[c] = buildNumeric(rows, c)
			} else {
				text[c] = buildText(rows, c)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "building columns")
	}

	for c, name := range headers {
		if numeric[c] != nil {
			store.Numeric[name] = numeric[c]
		} else {
			store.Text[name] = text[c]
		}
	}

	log.Infof("Load Complete. Rows: %d. Columns: %d. Time: %v", store.Rows, len(headers), time.Since(start))
	return store, nil
}

func field(row []string, c int) string {
	if c < len(row) {
		return row[c]
	}
	return ""
}

func buildNumeric(rows [][]string, c int) []float64 {
	vals := make([]float64, len(rows))
	for i, row := range rows {
		vals[i] = parseNumeric(field(row, c))
	}
	return vals
}

func buildText(rows [][]string, c int) *TextColumn {
	tc := &TextColumn{IDs: make([]int32, len(rows))}
	ids := make(map[string]int32)
	for i, row := range rows {
		s := strings.TrimSpace(field(row, c))
		if isNA(s) {
			tc.IDs[i] = -1
			continue
		}
		id, ok := ids[s]
		if !ok {
			id = int32(len(tc.Dict))
			tc.Dict = append(tc.Dict, s)
			ids[s] = id
		}
		tc.IDs[i] = id
	}
	return tc
}
