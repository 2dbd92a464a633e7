package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sebastien-chopin-dev/rne-dashboard/charts"
	"github.com/sebastien-chopin-dev/rne-dashboard/config"
	"github.com/sebastien-chopin-dev/rne-dashboard/data"
	"github.com/sebastien-chopin-dev/rne-dashboard/middleware"
	"github.com/sebastien-chopin-dev/rne-dashboard/models"
	"github.com/sebastien-chopin-dev/rne-dashboard/utils"
)

var (
	ErrBadRequest   = errors.New("bad request")
	errUnknownPanel = errors.New("unknown chart")
)

// Dashboard serves the page, the JSON API, the chart renderings and the
// export. Every request re-reads the source; only selector options are
// cached.
type Dashboard struct {
	Service *data.Service
	Palette charts.Palette

	// PublicURL prefixes sitemap entries; empty means the request host.
	PublicURL string
}

func NewDashboard(svc *data.Service, palette charts.Palette) *Dashboard {
	return &Dashboard{Service: svc, Palette: palette}
}

type Summary struct {
	models.GenderCount
	Text string `json:"text"`
}

type DashboardResponse struct {
	Request models.DashboardRequest `json:"request"`
	Header  string                  `json:"header"`
	Summary Summary                 `json:"summary"`
	Charts  map[string]charts.Chart `json:"charts"`
}

func (d *Dashboard) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := data.LoadOptions(r.Context(), d.Service.Source())
	if err != nil {
		d.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, opts)
}

func (d *Dashboard) GetDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := d.parseRequest(r)
	if err != nil {
		d.fail(w, r, err)
		return
	}

	snap, err := d.Service.Snapshot(r.Context(), req)
	if err != nil {
		d.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		Request: req,
		Header:  HeaderText(req),
		Summary: Summary{GenderCount: snap.Count, Text: SummaryText(snap.Count)},
		Charts:  charts.Panels(snap, d.Palette),
	})
}

func (d *Dashboard) GetChartSVG(w http.ResponseWriter, r *http.Request) {
	req, err := d.parseRequest(r)
	if err != nil {
		d.fail(w, r, err)
		return
	}

	chart, err := d.panel(r.Context(), req, mux.Vars(r)["name"])
	if err != nil {
		d.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderSVG(chart, &buf); err != nil {
		d.fail(w, r, fmt.Errorf("rendering %q: %w", chart.Title, err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// panel computes only the aggregates behind one chart.
func (d *Dashboard) panel(ctx context.Context, req models.DashboardRequest, name string) (charts.Chart, error) {
	svc := d.Service
	switch name {
	case charts.NameGender:
		shares, err := svc.Proportion(ctx, req)
		if err != nil {
			return charts.Chart{}, err
		}
		return charts.GenderPie(shares, d.Palette), nil

	case charts.NameFunctions:
		male, err := svc.Functions(ctx, req, models.Male)
		if err != nil {
			return charts.Chart{}, err
		}
		female, err := svc.Functions(ctx, req, models.Female)
		if err != nil {
			return charts.Chart{}, err
		}
		return charts.FunctionBars(male, female, d.Palette), nil

	case charts.NameAges:
		male, err := svc.Ages(ctx, req, models.Male)
		if err != nil {
			return charts.Chart{}, err
		}
		female, err := svc.Ages(ctx, req, models.Female)
		if err != nil {
			return charts.Chart{}, err
		}
		return charts.AgeBars(male, female, d.Palette), nil

	case charts.NameCategoryMale, charts.NameCategoryFemale:
		g := models.Male
		if name == charts.NameCategoryFemale {
			g = models.Female
		}
		ranking, err := svc.Categories(ctx, req, g)
		if err != nil {
			return charts.Chart{}, err
		}
		return charts.CategoryBars(ranking, g, d.Palette), nil
	}
	return charts.Chart{}, fmt.Errorf("%w: %q", errUnknownPanel, name)
}

// parseRequest maps the selector values to a DashboardRequest:
// departement is a department label ("Tous" or empty for all), tous
// defaults to true, and fonction is only read when tous is false.
func (d *Dashboard) parseRequest(r *http.Request) (models.DashboardRequest, error) {
	q := r.URL.Query()
	req := models.AllRecords()

	label := strings.TrimSpace(q.Get("departement"))
	if label != "" && label != models.AllDepartmentsLabel {
		opts, err := data.LoadOptions(r.Context(), d.Service.Source())
		if err != nil {
			return req, err
		}
		code, ok := opts.Departments.Codes[label]
		if !ok {
			return req, fmt.Errorf("%w: unknown departement %q", ErrBadRequest, label)
		}
		req.Department = code
		req.DepartmentLabel = label
	}

	all := true
	if v := q.Get("tous"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: invalid tous value %q", ErrBadRequest, v)
		}
		all = b
	}
	if !all {
		// A disabled role selector submits nothing; the first role is its default.
		v := q.Get("fonction")
		if v == "" {
			v = string(models.SelectableFunctions[0])
		}
		f, ok := models.ParseFunctionBucket(v)
		if !ok {
			return req, fmt.Errorf("%w: unknown fonction %q", ErrBadRequest, v)
		}
		req.Function = f
	}
	return req, nil
}

// HeaderText is the subtitle describing the active filters.
func HeaderText(req models.DashboardRequest) string {
	text := "Tous les départements"
	if req.Department != models.Wildcard && req.Department != "" {
		text = fmt.Sprintf("Pour le département %s - %s", req.Department, req.DepartmentLabel)
	}
	if req.Function != models.FunctionAll && req.Function != "" {
		text += fmt.Sprintf(" et pour la fonction de \"%s\" uniquement", req.Function)
	} else {
		text += " et pour toutes les fonctions"
	}
	return text
}

func SummaryText(c models.GenderCount) string {
	return fmt.Sprintf("Nombre total d'enregistrements: %s Hommes et %s Femmes",
		utils.FormatCount(c.Male), utils.FormatCount(c.Female))
}

func (d *Dashboard) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	config.Log.Warn("request failed",
		zap.String("request_id", middleware.RequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	writeJSON(w, status, map[string]interface{}{"error": msg, "code": status})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errUnknownPanel):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, data.ErrSourceMissing), errors.Is(err, data.ErrSchema):
		return http.StatusInternalServerError, "Impossible de charger les données: " + err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		config.Log.Error("error encoding response", zap.Error(err))
	}
}
