package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

func TestGetExport(t *testing.T) {
	router := newTestRouter(newTestDashboard(t, fixture))

	rec := get(t, router, "/api/v1/export.xlsx?departement=Ain")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="rne-01.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Synthese", "Fonctions", "Ages", "CSP hommes", "CSP femmes"}, f.GetSheetList())

	males, err := f.GetCellValue("Synthese", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", males)

	rows, err := f.GetRows("Ages")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Âge", "Hommes", "Femmes"},
		{"35", "1", "0"},
		{"44", "0", "1"},
		{"50", "0", "1"},
		{"73", "1", "0"},
	}, rows)
}

func TestBuildWorkbookEmptySnapshot(t *testing.T) {
	f, err := BuildWorkbook(models.Snapshot{Request: models.AllRecords()})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Fonctions")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Fonction", "Hommes", "Femmes"}}, rows)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "rne.xlsx", exportFilename(models.AllRecords()))
	assert.Equal(t, "rne-2A-maire-delegue.xlsx", exportFilename(models.DashboardRequest{
		Department: "2A", Function: models.FunctionDelegate,
	}))
}

func TestGetExportFilenameIsASCII(t *testing.T) {
	router := newTestRouter(newTestDashboard(t, fixture))

	rec := get(t, router, "/api/v1/export.xlsx?tous=false&fonction=Maire+d%C3%A9l%C3%A9gu%C3%A9")
	require.Equal(t, http.StatusOK, rec.Code)

	disposition := rec.Header().Get("Content-Disposition")
	assert.Equal(t, `attachment; filename="rne-maire-delegue.xlsx"`, disposition)
	for _, r := range disposition {
		assert.Less(t, r, rune(0x80), "non-ASCII byte in %q", disposition)
	}
}

// brokenWriter fails every body write and counts status lines.
type brokenWriter struct {
	header       http.Header
	writeHeaders int
}

func (b *brokenWriter) Header() http.Header { return b.header }

func (b *brokenWriter) WriteHeader(int) { b.writeHeaders++ }

func (b *brokenWriter) Write([]byte) (int, error) {
	if b.writeHeaders == 0 {
		b.writeHeaders++
	}
	return 0, errors.New("connection reset")
}

func TestGetExportWriteFailureSendsOneStatus(t *testing.T) {
	d := newTestDashboard(t, fixture)
	w := &brokenWriter{header: http.Header{}}

	d.GetExport(w, httptest.NewRequest(http.MethodGet, "/api/v1/export.xlsx", nil))

	assert.Equal(t, 1, w.writeHeaders)
	assert.Equal(t, xlsxContentType, w.header.Get("Content-Type"))
}
