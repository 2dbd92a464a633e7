package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/sebastien-chopin-dev/rne-dashboard/charts"
	"github.com/sebastien-chopin-dev/rne-dashboard/config"
	"github.com/sebastien-chopin-dev/rne-dashboard/data"
	"github.com/sebastien-chopin-dev/rne-dashboard/middleware"
	"github.com/sebastien-chopin-dev/rne-dashboard/models"
	"github.com/sebastien-chopin-dev/rne-dashboard/utils"
)

const AppTitle = "Élus municipaux RNE"

//go:embed templates/dashboard.html templates/intro.md
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

var (
	introOnce sync.Once
	introHTML template.HTML
)

// intro renders the markdown preamble once. Raw HTML in the source is
// escaped since goldmark.WithUnsafe is not set.
func intro() template.HTML {
	introOnce.Do(func() {
		src, err := templateFS.ReadFile("templates/intro.md")
		if err != nil {
			config.Log.Error("intro markdown missing", zap.Error(err))
			return
		}
		var buf bytes.Buffer
		if err := goldmark.Convert(src, &buf); err != nil {
			config.Log.Error("intro markdown rendering failed", zap.Error(err))
			return
		}
		introHTML = template.HTML(buf.String())
	})
	return introHTML
}

type pageData struct {
	Title            string
	Intro            template.HTML
	Options          models.Options
	SelectedLabel    string
	AllFunctions     bool
	SelectedFunction string
	Header           string
	Male             string
	Female           string
	Panels           map[string]template.HTML
	Query            template.URL
	Error            string
}

// GetPage renders the whole dashboard. Charts are inlined as SVG so a page
// view costs a single pass over the aggregates.
func (d *Dashboard) GetPage(w http.ResponseWriter, r *http.Request) {
	opts, err := data.LoadOptions(r.Context(), d.Service.Source())
	if err != nil {
		d.renderPage(w, r, http.StatusInternalServerError, pageData{Error: loadErrorText(err)})
		return
	}

	page := pageData{
		Options:          opts,
		SelectedLabel:    models.AllDepartmentsLabel,
		AllFunctions:     true,
		SelectedFunction: string(models.FunctionMayor),
		Query:            template.URL(r.URL.RawQuery),
	}

	req, err := d.parseRequest(r)
	if err != nil {
		page.Error = err.Error()
		d.renderPage(w, r, http.StatusBadRequest, page)
		return
	}
	if req.DepartmentLabel != "" {
		page.SelectedLabel = req.DepartmentLabel
	}
	if req.Function != models.FunctionAll {
		page.AllFunctions = false
		page.SelectedFunction = string(req.Function)
	}

	snap, err := d.Service.Snapshot(r.Context(), req)
	if err != nil {
		page.Error = loadErrorText(err)
		d.renderPage(w, r, http.StatusInternalServerError, page)
		return
	}

	page.Header = HeaderText(req)
	page.Male = utils.FormatCount(snap.Count.Male)
	page.Female = utils.FormatCount(snap.Count.Female)
	page.Panels = make(map[string]template.HTML, len(charts.PanelNames))
	for name, chart := range charts.Panels(snap, d.Palette) {
		var buf bytes.Buffer
		if err := charts.RenderSVG(chart, &buf); err != nil {
			config.Log.Error("chart rendering failed",
				zap.String("request_id", middleware.RequestID(r.Context())),
				zap.String("chart", name), zap.Error(err))
			continue
		}
		page.Panels[name] = template.HTML(inlineSVG(buf.String()))
	}

	d.renderPage(w, r, http.StatusOK, page)
}

func (d *Dashboard) renderPage(w http.ResponseWriter, r *http.Request, status int, page pageData) {
	page.Title = AppTitle
	page.Intro = intro()

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		config.Log.Error("page rendering failed",
			zap.String("request_id", middleware.RequestID(r.Context())), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// inlineSVG drops the XML prolog so the document can sit inside HTML.
func inlineSVG(doc string) string {
	if i := strings.Index(doc, "<svg"); i > 0 {
		return doc[i:]
	}
	return doc
}

func loadErrorText(err error) string {
	if errors.Is(err, data.ErrSourceMissing) || errors.Is(err, data.ErrSchema) {
		return "Impossible de charger les données: " + err.Error()
	}
	return "Impossible de charger les données."
}
