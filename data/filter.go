package data

import (
	"context"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

// LoadFiltered reads cols from src and keeps the rows matching req. The
// department code is always read, and so is the function label whenever a
// function filter is active.
func LoadFiltered(ctx context.Context, src Source, req models.DashboardRequest, cols ...models.Column) ([]models.ElectedOfficial, error) {
	needed := append([]models.Column{}, cols...)
	needed = append(needed, models.ColDepartmentCode)
	if req.Function != models.FunctionAll && req.Function != "" {
		needed = append(needed, models.ColFunction)
	}

	records, err := src.Load(ctx, needed)
	if err != nil {
		return nil, err
	}
	return FilterRecords(records, req), nil
}

// FilterRecords keeps the records matching both the department and the
// function filter. The input slice is not modified.
func FilterRecords(records []models.ElectedOfficial, req models.DashboardRequest) []models.ElectedOfficial {
	department := req.Department
	function := req.Function
	if function == "" {
		function = models.FunctionAll
	}

	out := make([]models.ElectedOfficial, 0, len(records))
	for _, r := range records {
		if department != "" && department != models.Wildcard && r.DepartmentCode != department {
			continue
		}
		if !function.Matches(r.Function) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func byGender(records []models.ElectedOfficial, g models.Gender) []models.ElectedOfficial {
	out := make([]models.ElectedOfficial, 0, len(records)/2)
	for _, r := range records {
		if r.Gender == g {
			out = append(out, r)
		}
	}
	return out
}
