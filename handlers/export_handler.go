package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sebastien-chopin-dev/rne-dashboard/config"
	"github.com/sebastien-chopin-dev/rne-dashboard/data"
	"github.com/sebastien-chopin-dev/rne-dashboard/middleware"
	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetExport streams the aggregates behind the dashboard as a workbook.
func (d *Dashboard) GetExport(w http.ResponseWriter, r *http.Request) {
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

	f, err := BuildWorkbook(snap)
	if err != nil {
		d.fail(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(req)))
	// The status line is already out once writing starts.
	if err := f.Write(w); err != nil {
		config.Log.Error("error writing workbook",
			zap.String("request_id", middleware.RequestID(r.Context())), zap.Error(err))
	}
}

const (
	sheetSummary          = "Synthese"
	sheetFunctions        = "Fonctions"
	sheetAges             = "Ages"
	sheetCategoriesMale   = "CSP hommes"
	sheetCategoriesFemale = "CSP femmes"
)

// BuildWorkbook lays out one sheet per dashboard panel. The caller closes
// the returned file; on error it is already closed.
func BuildWorkbook(snap models.Snapshot) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fillWorkbook(f, snap); err != nil {
		if cerr := f.Close(); cerr != nil {
			config.Log.Warn("error closing workbook", zap.Error(cerr))
		}
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, snap models.Snapshot) error {
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Filtre", HeaderText(snap.Request)},
		{"Hommes", snap.Count.Male},
		{"Femmes", snap.Count.Female},
	}
	for _, s := range snap.Shares {
		summary = append(summary, []interface{}{"% " + s.Label, s.Percentage})
	}
	if err := writeRows(f, sheetSummary, nil, summary); err != nil {
		return err
	}

	var functions [][]interface{}
	female := make(map[models.FunctionBucket]int, len(snap.FunctionsFemale))
	for _, v := range snap.FunctionsFemale {
		female[v.Function] = v.Volume
	}
	for _, v := range snap.FunctionsMale {
		functions = append(functions, []interface{}{string(v.Function), v.Volume, female[v.Function]})
	}
	if err := writeRows(f, sheetFunctions, []string{"Fonction", "Hommes", "Femmes"}, functions); err != nil {
		return err
	}

	var ages [][]interface{}
	for _, row := range data.AlignAges(snap.AgesMale, snap.AgesFemale) {
		ages = append(ages, []interface{}{row.Age, row.Male, row.Female})
	}
	if err := writeRows(f, sheetAges, []string{"Âge", "Hommes", "Femmes"}, ages); err != nil {
		return err
	}

	for _, part := range []struct {
		sheet   string
		ranking []models.CategoryVolume
	}{
		{sheetCategoriesMale, snap.CategoriesMale},
		{sheetCategoriesFemale, snap.CategoriesFemale},
	} {
		var rows [][]interface{}
		for _, c := range part.ranking {
			rows = append(rows, []interface{}{c.Code, c.Label, c.Volume})
		}
		if err := writeRows(f, part.sheet, []string{"Code", "Libellé", "Volume"}, rows); err != nil {
			return err
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	}

	row := 1
	if len(headers) > 0 {
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		last, _ := excelize.ColumnNumberToName(len(headers))
		if err := f.SetColWidth(sheet, "A", last, 20); err != nil {
			return err
		}
		row++
	}
	for _, values := range rows {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

// exportFilename builds an ASCII-only name so it can sit in a header value.
func exportFilename(req models.DashboardRequest) string {
	parts := []string{"rne"}
	if req.Department != models.Wildcard && req.Department != "" {
		parts = append(parts, req.Department)
	}
	if req.Function != models.FunctionAll && req.Function != "" {
		// Chained transformers carry state, so each call builds its own.
		fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		name, _, err := transform.String(fold, string(req.Function))
		if err != nil {
			name = string(req.Function)
		}
		parts = append(parts, strings.ReplaceAll(strings.ToLower(name), " ", "-"))
	}
	return strings.Join(parts, "-") + ".xlsx"
}
