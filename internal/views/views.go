// Package views renders the dashboard page, its fragments and a plain-text
// report from embedded templates.
package views

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/k3a/html2text"

	"github.com/tphakala/skydash/internal/dashboard"
	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/notice"
	"github.com/tphakala/skydash/internal/scene"
	"github.com/tphakala/skydash/internal/weather"
)

// Template names.
const (
	PageIndex         = "index"
	FragmentDashboard = "dashboard"
	FragmentReport    = "report"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is passed to every template.
type PageData struct {
	Title      string
	Snapshot   dashboard.Snapshot
	Notices    []notice.Notice // rendered once, then gone from the center
	AutoLocate bool // ask the browser for a position on load
}

// Renderer executes the embedded templates.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.New(err).
			Component("views").
			Category(errors.CategoryFileParsing).
			Build()
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes template name into w. Output is buffered so a failed
// execution writes nothing.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return errors.New(err).
			Component("views").
			Category(errors.CategoryGeneric).
			Context("template", name).
			Build()
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderText renders the report fragment and converts it to plain text.
func (r *Renderer) RenderText(snap dashboard.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, FragmentReport, PageData{Snapshot: snap}); err != nil {
		return "", err
	}
	text := html2text.HTML2TextWithOptions(buf.String(), html2text.WithUnixLineBreaks())
	return strings.TrimSpace(text) + "\n", nil
}

// Static returns the stylesheet and script served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return sub
}

type widgetsData struct {
	Map   any `json:"map"`
	Chart any `json:"chart"`
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		// particleStyle marks generated numeric CSS as safe.
		"particleStyle": func(p scene.Particle) template.CSS {
			return template.CSS(p.Style())
		},
		"widgetsJSON": func(s dashboard.Snapshot) (string, error) {
			b, err := json.Marshal(widgetsData{Map: s.Map, Chart: s.Chart.Chart})
			return string(b), err
		},
		"unitsToggle": func(u weather.Units) weather.Units {
			if u == weather.UnitsImperial {
				return weather.UnitsMetric
			}
			return weather.UnitsImperial
		},
		"isDark": func(s dashboard.Snapshot) bool {
			return s.Theme == "dark"
		},
	}
}
