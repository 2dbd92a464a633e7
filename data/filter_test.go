package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

func TestFilterRecords(t *testing.T) {
	records := []models.ElectedOfficial{
		{DepartmentCode: "01", Function: "Maire"},
		{DepartmentCode: "01", Function: "Maire délégué"},
		{DepartmentCode: "01", Function: "1er adjoint au maire"},
		{DepartmentCode: "02", Function: "Adjoint au maire"},
		{DepartmentCode: "02", Function: "Conseiller municipal"},
		{DepartmentCode: "2A", Function: ""},
	}

	tests := []struct {
		name     string
		req      models.DashboardRequest
		expected int
	}{
		{"no filter", models.AllRecords(), 6},
		{"department only", models.DashboardRequest{Department: "01", Function: models.FunctionAll}, 3},
		{"unknown department", models.DashboardRequest{Department: "99", Function: models.FunctionAll}, 0},
		{"maire is exact", models.DashboardRequest{Department: models.Wildcard, Function: models.FunctionMayor}, 1},
		{"maire délégué is exact", models.DashboardRequest{Department: models.Wildcard, Function: models.FunctionDelegate}, 1},
		{"adjoint is case-sensitive", models.DashboardRequest{Department: models.Wildcard, Function: models.FunctionDeputy}, 1},
		{"capitalised adjoint is not a deputy", models.DashboardRequest{Department: "02", Function: models.FunctionDeputy}, 0},
		{"both filters", models.DashboardRequest{Department: "01", Function: models.FunctionDeputy}, 1},
		{"empty function means all", models.DashboardRequest{Department: "2A"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FilterRecords(records, tt.req), tt.expected)
		})
	}
}

func TestLoadFilteredAddsFilterColumns(t *testing.T) {
	src := NewCSVSource(writeCSV(t, sampleRows...))
	req := models.DashboardRequest{Department: "01", Function: models.FunctionDeputy}

	records, err := LoadFiltered(context.Background(), src, req, models.ColGender)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.Female, records[0].Gender)
	assert.Equal(t, "01", records[0].DepartmentCode)
	assert.Equal(t, "1er adjoint au maire", records[0].Function)
}

func TestLoadFilteredEmptyResultIsNotAnError(t *testing.T) {
	src := NewCSVSource(writeCSV(t, sampleRows...))
	req := models.DashboardRequest{Department: "975", Function: models.FunctionAll}

	records, err := LoadFiltered(context.Background(), src, req, models.ColGender)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, models.GenderCount{}, CountByGender(records))
}
