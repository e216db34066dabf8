package api

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"dashboard/internal/engine"
)

// Selection query parameters.
const (
	paramType           = "type"
	paramCondition      = "condition"
	paramYearMin        = "year_min"
	paramYearMax        = "year_max"
	paramPriceMin       = "price_min"
	paramPriceMax       = "price_max"
	paramRemoveOutliers = "remove_outliers"

	// paramApplied marks a submitted sidebar form, where an unchecked
	// checkbox is simply absent.
	paramApplied = "applied"
)

// parseSelection builds a Selection from the query string. Outlier removal
// defaults to on unless the sidebar form was submitted without it.
func parseSelection(c echo.Context) (engine.Selection, error) {
	q := c.QueryParams()
	sel := engine.Selection{
		Types:      values(q, paramType),
		Conditions: values(q, paramCondition),
	}

	var err error
	if sel.Year, err = parseRange(q, paramYearMin, paramYearMax); err != nil {
		return sel, err
	}
	if sel.Price, err = parseRange(q, paramPriceMin, paramPriceMax); err != nil {
		return sel, err
	}

	switch raw := q.Get(paramRemoveOutliers); {
	case raw != "":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return sel, badParam(paramRemoveOutliers, raw)
		}
		sel.RemoveOutliers = b
	case q.Has(paramApplied):
		sel.RemoveOutliers = false
	default:
		sel.RemoveOutliers = true
	}
	return sel, nil
}

// values returns the non-blank values of a repeatable parameter.
func values(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseRange reads an inclusive range. Both ends unset means no range; a
// single unset end is open.
func parseRange(q url.Values, minKey, maxKey string) (*engine.Range, error) {
	rawMin, rawMax := strings.TrimSpace(q.Get(minKey)), strings.TrimSpace(q.Get(maxKey))
	if rawMin == "" && rawMax == "" {
		return nil, nil
	}

	r := &engine.Range{Min: math.Inf(-1), Max: math.Inf(1)}
	if rawMin != "" {
		v, err := strconv.ParseFloat(rawMin, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, badParam(minKey, rawMin)
		}
		r.Min = v
	}
	if rawMax != "" {
		v, err := strconv.ParseFloat(rawMax, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, badParam(maxKey, rawMax)
		}
		r.Max = v
	}
	if r.Min > r.Max {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("%s must not exceed %s", minKey, maxKey))
	}
	return r, nil
}

func badParam(key, raw string) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", key, raw))
}

// getPaginationParams reads limit/offset, falling back to defaultLimit and 0.
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
