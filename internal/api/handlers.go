package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"dashboard/internal/charts"
	"dashboard/internal/engine"
	"dashboard/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	source *engine.Source
	opts   engine.AggregateOptions
}

func NewHandler(source *engine.Source, opts engine.AggregateOptions) *Handler {
	return &Handler{source: source, opts: opts}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Renderer = NewTemplateRenderer()
	e.JSONSerializer = JSONSerializer{}

	e.GET("/", h.GetDashboard)
	e.GET("/healthz", h.GetHealth)
	e.GET("/charts/:name", h.GetChart)

	api := e.Group("/api")
	api.GET("/options", h.GetOptions)
	api.GET("/summary", h.GetSummary)
	api.GET("/data", h.GetData)
	api.GET("/missing", h.GetMissing)
	api.GET("/charts", h.GetCharts)
	api.GET("/export.xlsx", h.GetExport)
}

// --- PIPELINE ---

// store returns the memoized dataset, or 503 if it never loaded.
func (h *Handler) store() (*engine.ColumnStore, error) {
	store, err := h.source.Store()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset unavailable").SetInternal(err)
	}
	return store, nil
}

// view re-runs load (memo hit) and filter for the request's selection.
func (h *Handler) view(c echo.Context) (engine.View, engine.Selection, error) {
	store, err := h.store()
	if err != nil {
		return engine.View{}, engine.Selection{}, err
	}
	sel, err := parseSelection(c)
	if err != nil {
		return engine.View{}, sel, err
	}
	return engine.Apply(store, sel), sel, nil
}

// --- HTML ---

type chartPanel struct {
	Key     string
	Heading string
	Src     string
	Note    string
}

type dashboardPage struct {
	*models.DashboardData
	ExportHref string
	Panels     []chartPanel
}

var panelHeadings = []struct{ key, heading string }{
	{engine.ChartOdometer, "Histogram: odometer"},
	{engine.ChartPrice, "Histogram: price"},
	{engine.ChartScatter, "Relationship: price vs odometer"},
	{engine.ChartBox, "Price by type (boxplot)"},
}

func (h *Handler) GetDashboard(c echo.Context) error {
	v, sel, err := h.view(c)
	if err != nil {
		return err
	}
	data := v.Aggregate(sel, h.opts)

	query := c.QueryString()
	page := dashboardPage{DashboardData: data, ExportHref: "/api/export.xlsx?" + query}
	if !data.Empty {
		for _, p := range panelHeadings {
			panel := chartPanel{Key: p.key, Heading: p.heading}
			if note, missing := charts.Unavailable(data.Charts, p.key); missing {
				panel.Note = note
			} else {
				panel.Src = "/charts/" + p.key + ".svg?" + query
			}
			page.Panels = append(page.Panels, panel)
		}
	}
	return c.Render(http.StatusOK, "dashboard.html", page)
}

// GetChart serves one chart panel as SVG, e.g. /charts/scatter.svg.
func (h *Handler) GetChart(c echo.Context) error {
	key := strings.TrimSuffix(c.Param("name"), ".svg")

	v, _, err := h.view(c)
	if err != nil {
		return err
	}
	if v.Len() == 0 {
		return echo.NewHTTPError(http.StatusNotFound, engine.EmptyWarning)
	}

	ch := engine.BuildCharts(v, h.opts.Charts)
	if note, missing := charts.Unavailable(ch, key); missing {
		return echo.NewHTTPError(http.StatusNotFound, note)
	}
	svg, err := charts.SVG(ch, key)
	if err != nil {
		log.Errorf("chart %s: %v", key, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "chart rendering failed").SetInternal(err)
	}

	// Chart labels come from the dataset; never let the document run script.
	c.Response().Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	return c.Blob(http.StatusOK, "image/svg+xml", svg)
}

// --- JSON ---

func (h *Handler) GetHealth(c echo.Context) error {
	store, err := h.store()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"rows":   store.Rows,
	})
}

func (h *Handler) GetOptions(c echo.Context) error {
	store, err := h.store()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.Options(store))
}

func (h *Handler) GetSummary(c echo.Context) error {
	v, _, err := h.view(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.Summarize(v))
}

// GetData pages through the filtered rows.
func (h *Handler) GetData(c echo.Context) error {
	v, _, err := h.view(c)
	if err != nil {
		return err
	}
	total := v.Len()
	limit, offset := getPaginationParams(c, h.opts.PreviewRows)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   engine.Page(v, offset, limit),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetMissing(c echo.Context) error {
	v, _, err := h.view(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.MissingCounts(v))
}

func (h *Handler) GetCharts(c echo.Context) error {
	v, _, err := h.view(c)
	if err != nil {
		return err
	}
	if v.Len() == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"empty":   true,
			"warning": engine.EmptyWarning,
		})
	}
	return c.JSON(http.StatusOK, engine.BuildCharts(v, h.opts.Charts))
}

// GetExport downloads the whole filtered view as a workbook.
func (h *Handler) GetExport(c echo.Context) error {
	v, _, err := h.view(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := engine.WriteXLSX(&buf, v); err != nil {
		log.Errorf("export: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed").SetInternal(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="vehicles_filtered.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
