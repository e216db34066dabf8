package api

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

// sprintf formats numbers with English digit grouping, e.g. 51,525.
func sprintf(format string, a ...interface{}) string {
	return message.NewPrinter(language.English).Sprintf(format, a...)
}

var templateFuncs = template.FuncMap{
	"count": func(n int) string {
		return sprintf("%d", n)
	},
	"money": func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return sprintf("$%.0f", *v)
	},
	"number": func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return sprintf("%.0f", *v)
	},
	"bound": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"contains": func(list []string, s string) bool {
		for _, item := range list {
			if item == s {
				return true
			}
		}
		return false
	},
}

var templates = template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))

// TemplateRenderer renders the embedded HTML templates for echo.
type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{templates: templates}
}

// Render executes into a buffer first so a failing template never sends a
// half-written page.
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	var buf bytes.Buffer
	if err := t.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Errorf("Template error for %s: %v", name, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "template rendering failed").SetInternal(err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// JSONSerializer swaps echo's encoding/json serializer for goccy/go-json.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}
	return nil
}
