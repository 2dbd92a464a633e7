package data

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

var testToday = time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

func loadSample(t *testing.T) []models.ElectedOfficial {
	t.Helper()
	records, err := NewCSVSource(writeCSV(t, sampleRows...)).Load(context.Background(), models.AllColumns)
	require.NoError(t, err)
	return records
}

func TestCountByGender(t *testing.T) {
	t.Run("three men two women", func(t *testing.T) {
		records := []models.ElectedOfficial{
			{Gender: models.Male}, {Gender: models.Male}, {Gender: models.Male},
			{Gender: models.Female}, {Gender: models.Female},
		}
		count := CountByGender(records)
		assert.Equal(t, models.GenderCount{Male: 3, Female: 2}, count)

		shares := ShareByGender(count)
		assert.Equal(t, []models.GenderShare{
			{Label: "Homme", Percentage: 60.00},
			{Label: "Femme", Percentage: 40.00},
		}, shares)
	})

	t.Run("absent gender reported as zero", func(t *testing.T) {
		count := CountByGender([]models.ElectedOfficial{{Gender: models.Female}})
		assert.Equal(t, models.GenderCount{Male: 0, Female: 1}, count)
	})

	t.Run("unknown codes ignored", func(t *testing.T) {
		count := CountByGender([]models.ElectedOfficial{{Gender: "X"}, {Gender: ""}, {Gender: models.Male}})
		assert.Equal(t, models.GenderCount{Male: 1}, count)
	})
}

func TestShareByGenderSumsToHundred(t *testing.T) {
	for male := 0; male <= 12; male++ {
		for female := 0; female <= 12; female++ {
			if male+female == 0 {
				continue
			}
			shares := ShareByGender(models.GenderCount{Male: male, Female: female})
			sum := shares[0].Percentage + shares[1].Percentage
			assert.InDelta(t, 100.0, sum, 0.01, "male=%d female=%d", male, female)
		}
	}
}

func TestShareByGenderEmpty(t *testing.T) {
	shares := ShareByGender(models.GenderCount{})
	require.Len(t, shares, 2)
	assert.Zero(t, shares[0].Percentage)
	assert.Zero(t, shares[1].Percentage)
}

func TestTotalMatchesFilteredRowCount(t *testing.T) {
	records := loadSample(t)
	requests := []models.DashboardRequest{models.AllRecords()}
	for _, dep := range []string{models.Wildcard, "01", "02", "99"} {
		for _, f := range append([]models.FunctionBucket{models.FunctionAll}, models.SelectableFunctions...) {
			requests = append(requests, models.DashboardRequest{Department: dep, Function: f})
		}
	}

	for _, req := range requests {
		t.Run(fmt.Sprintf("%s/%s", req.Department, req.Function), func(t *testing.T) {
			filtered := FilterRecords(records, req)
			assert.Equal(t, len(filtered), CountByGender(filtered).Total())
		})
	}
}

func TestAgeDistribution(t *testing.T) {
	records := loadSample(t)

	male := AgeDistribution(records, models.Male, testToday)
	if diff := cmp.Diff([]models.AgeBucket{{Age: 35, Volume: 1}, {Age: 64, Volume: 1}, {Age: 73, Volume: 1}}, male); diff != "" {
		t.Errorf("male ages mismatch (-want +got):\n%s", diff)
	}

	female := AgeDistribution(records, models.Female, testToday)
	if diff := cmp.Diff([]models.AgeBucket{{Age: 44, Volume: 1}, {Age: 50, Volume: 1}, {Age: 85, Volume: 1}}, female); diff != "" {
		t.Errorf("female ages mismatch (-want +got):\n%s", diff)
	}
}

func TestAgeDistributionBounds(t *testing.T) {
	records := []models.ElectedOfficial{
		{Gender: models.Male, BirthDate: "12/06/2007"}, // 18 today
		{Gender: models.Male, BirthDate: "13/06/2007"}, // 17
		{Gender: models.Male, BirthDate: "12/06/1925"}, // 100
		{Gender: models.Male, BirthDate: "11/06/1924"}, // 101
		{Gender: models.Male, BirthDate: "12/06/2007"},
		{Gender: models.Male, BirthDate: ""},
		{Gender: models.Female, BirthDate: "12/06/1980"},
	}

	got := AgeDistribution(records, models.Male, testToday)
	assert.Equal(t, []models.AgeBucket{{Age: 18, Volume: 2}, {Age: 100, Volume: 1}}, got)
	for _, b := range got {
		assert.GreaterOrEqual(t, b.Age, MinAge)
		assert.LessOrEqual(t, b.Age, MaxAge)
	}
}

func TestFunctionVolumes(t *testing.T) {
	records := loadSample(t)

	t.Run("no filter includes residual", func(t *testing.T) {
		male := FunctionVolumes(records, models.Male, models.FunctionAll)
		assert.Equal(t, []models.FunctionVolume{
			{Function: models.FunctionMayor, Volume: 1},
			{Function: models.FunctionDelegate, Volume: 0},
			{Function: models.FunctionDeputy, Volume: 0},
			{Function: models.FunctionOther, Volume: 3},
		}, male)

		female := FunctionVolumes(records, models.Female, models.FunctionAll)
		assert.Equal(t, []models.FunctionVolume{
			{Function: models.FunctionMayor, Volume: 1},
			{Function: models.FunctionDelegate, Volume: 1},
			{Function: models.FunctionDeputy, Volume: 1},
			{Function: models.FunctionOther, Volume: 0},
		}, female)
	})

	t.Run("buckets sum to total with residual", func(t *testing.T) {
		for _, g := range []models.Gender{models.Male, models.Female} {
			sum := 0
			for _, v := range FunctionVolumes(records, g, models.FunctionAll) {
				sum += v.Volume
			}
			assert.Equal(t, len(byGender(records, g)), sum)
		}
	})

	t.Run("single function filter has no residual", func(t *testing.T) {
		req := models.DashboardRequest{Department: models.Wildcard, Function: models.FunctionDelegate}
		filtered := FilterRecords(records, req)

		got := FunctionVolumes(filtered, models.Female, req.Function)
		assert.Equal(t, []models.FunctionVolume{{Function: models.FunctionDelegate, Volume: 1}}, got)

		got = FunctionVolumes(filtered, models.Male, req.Function)
		assert.Equal(t, []models.FunctionVolume{{Function: models.FunctionDelegate, Volume: 0}}, got)
	})

	t.Run("single function filter sums below unfiltered total", func(t *testing.T) {
		req := models.DashboardRequest{Department: models.Wildcard, Function: models.FunctionMayor}
		got := FunctionVolumes(FilterRecords(records, req), models.Male, req.Function)
		require.Len(t, got, 1)
		assert.Less(t, got[0].Volume, len(byGender(records, models.Male)))
	})
}

func TestFunctionVolumesDeputyIsCaseSensitive(t *testing.T) {
	records := []models.ElectedOfficial{
		{Gender: models.Male, Function: "Adjoint au maire"},
		{Gender: models.Male, Function: "1er adjoint au maire"},
	}

	got := FunctionVolumes(records, models.Male, models.FunctionAll)
	assert.Equal(t, []models.FunctionVolume{
		{Function: models.FunctionMayor, Volume: 0},
		{Function: models.FunctionDelegate, Volume: 0},
		{Function: models.FunctionDeputy, Volume: 1},
		{Function: models.FunctionOther, Volume: 1},
	}, got)
}

func TestCategoryRanking(t *testing.T) {
	records := loadSample(t)

	male := CategoryRanking(records, models.Male, models.CategoryRankingLimit)
	assert.Equal(t, []models.CategoryVolume{
		{Code: "23", Label: "Agriculteurs sur moyenne exploitation", Volume: 2},
		{Code: "37", Label: "Cadres de la fonction publique", Volume: 1},
		{Code: "54", Label: "Employés administratifs d'entreprise", Volume: 1},
	}, male)

	female := CategoryRanking(records, models.Female, models.CategoryRankingLimit)
	require.Len(t, female, 2, "null category codes are dropped")
	assert.Equal(t, "37", female[0].Code)
}

func TestCategoryRankingLimitAndOrder(t *testing.T) {
	var records []models.ElectedOfficial
	for code := 1; code <= 40; code++ {
		for i := 0; i < code; i++ {
			records = append(records, models.ElectedOfficial{
				Gender:        models.Male,
				CategoryCode:  fmt.Sprintf("%02d", code),
				CategoryLabel: fmt.Sprintf("Catégorie %d", code),
			})
		}
	}

	got := CategoryRanking(records, models.Male, models.CategoryRankingLimit)
	require.Len(t, got, models.CategoryRankingLimit)
	assert.Equal(t, "40", got[0].Code)
	assert.Equal(t, 40, got[0].Volume)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Volume, got[i].Volume)
	}
}

func TestCategoryRankingFirstLabelWins(t *testing.T) {
	records := []models.ElectedOfficial{
		{Gender: models.Female, CategoryCode: "10", CategoryLabel: ""},
		{Gender: models.Female, CategoryCode: "10", CategoryLabel: "Agriculteurs"},
		{Gender: models.Female, CategoryCode: "10", CategoryLabel: "Autre libellé"},
	}
	got := CategoryRanking(records, models.Female, 25)
	assert.Equal(t, []models.CategoryVolume{{Code: "10", Label: "Agriculteurs", Volume: 3}}, got)
}

func TestAlignAges(t *testing.T) {
	got := AlignAges(
		[]models.AgeBucket{{Age: 30, Volume: 2}, {Age: 50, Volume: 1}},
		[]models.AgeBucket{{Age: 20, Volume: 4}, {Age: 50, Volume: 3}},
	)
	assert.Equal(t, []AgeRow{
		{Age: 20, Male: 0, Female: 4},
		{Age: 30, Male: 2, Female: 0},
		{Age: 50, Male: 1, Female: 3},
	}, got)
}
