package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastien-chopin-dev/rne-dashboard/data"
)

func TestGetHealth(t *testing.T) {
	rec := get(t, newTestRouter(newTestDashboard(t, fixture)), "/api/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGetDetailedHealth(t *testing.T) {
	rec := get(t, newTestRouter(newTestDashboard(t, fixture)), "/api/v1/health/detailed")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "readable", resp.SourceStatus)
	assert.Equal(t, 7, resp.Rows)
}

func TestGetDetailedHealthUnreadableSource(t *testing.T) {
	d := NewDashboard(data.NewService(data.NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))), testPalette)

	rec := get(t, newTestRouter(d), "/api/v1/health/detailed")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "load_error", resp.SourceStatus)
	assert.NotEmpty(t, resp.Error)
}
