package data

import (
	"context"
	"sort"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/sebastien-chopin-dev/rne-dashboard/config"
	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

// LoadOptions returns the selector options for src, building them on first
// use and serving them from config.OptionCache afterwards.
func LoadOptions(ctx context.Context, src Source) (models.Options, error) {
	key := config.GetCacheKey("options", src.Name())
	if cached, found := config.OptionCache.Get(key); found {
		return cached.(models.Options), nil
	}

	departments, err := loadDepartments(ctx, src)
	if err != nil {
		return models.Options{}, err
	}
	opts := models.Options{
		Departments: departments,
		Functions:   append([]models.FunctionBucket(nil), models.SelectableFunctions...),
	}

	config.OptionCache.Set(key, opts, cache.NoExpiration)
	config.Log.Info("selector options loaded",
		zap.String("source", src.Name()), zap.Int("departments", len(departments.Codes)))
	return opts, nil
}

func loadDepartments(ctx context.Context, src Source) (models.DepartmentOptions, error) {
	records, err := src.Load(ctx, []models.Column{models.ColDepartmentCode, models.ColDepartmentLabel})
	if err != nil {
		return models.DepartmentOptions{}, err
	}

	type pair struct{ code, label string }
	seen := make(map[pair]bool)
	var pairs []pair
	for _, r := range records {
		if r.DepartmentCode == "" || r.DepartmentLabel == "" {
			continue
		}
		p := pair{r.DepartmentCode, r.DepartmentLabel}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].code != pairs[j].code {
			return pairs[i].code < pairs[j].code
		}
		return pairs[i].label < pairs[j].label
	})

	opts := models.DepartmentOptions{
		Labels: make([]string, 0, len(pairs)+1),
		Codes:  make(map[string]string, len(pairs)),
	}
	opts.Labels = append(opts.Labels, models.AllDepartmentsLabel)
	for _, p := range pairs {
		opts.Labels = append(opts.Labels, p.label)
		opts.Codes[p.label] = p.code
	}
	return opts, nil
}
