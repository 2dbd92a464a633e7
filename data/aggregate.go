package data

import (
	"math"
	"sort"
	"time"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

// CountByGender counts records per gender code. Both genders are always
// reported, absent ones as zero; other codes are ignored.
func CountByGender(records []models.ElectedOfficial) models.GenderCount {
	var c models.GenderCount
	for _, r := range records {
		switch r.Gender {
		case models.Male:
			c.Male++
		case models.Female:
			c.Female++
		}
	}
	return c
}

// ShareByGender turns counts into percentages rounded to two decimals,
// male first. An empty count yields two zero shares.
func ShareByGender(c models.GenderCount) []models.GenderShare {
	male, female := 0.0, 0.0
	if total := c.Total(); total > 0 {
		male = RoundTo2(float64(c.Male) * 100.0 / float64(total))
		female = RoundTo2(float64(c.Female) * 100.0 / float64(total))
	}
	return []models.GenderShare{
		{Label: models.Male.Label(), Percentage: male},
		{Label: models.Female.Label(), Percentage: female},
	}
}

func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AgeDistribution counts the records of one gender by age on today.
// Unparseable birth dates and ages outside [MinAge, MaxAge] are dropped.
func AgeDistribution(records []models.ElectedOfficial, g models.Gender, today time.Time) []models.AgeBucket {
	counts := make(map[int]int)
	for _, r := range records {
		if r.Gender != g {
			continue
		}
		born, ok := ParseBirthDate(r.BirthDate)
		if !ok {
			continue
		}
		age := AgeOn(born, today)
		if age < MinAge || age > MaxAge {
			continue
		}
		counts[age]++
	}

	out := make([]models.AgeBucket, 0, len(counts))
	for age, n := range counts {
		out = append(out, models.AgeBucket{Age: age, Volume: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Age < out[j].Age })
	return out
}

// FunctionVolumes counts the records of one gender per function bucket.
// With no function filter the result ends with the "Autres" residual,
// computed by subtraction; with a filter only that bucket is returned.
func FunctionVolumes(records []models.ElectedOfficial, g models.Gender, filter models.FunctionBucket) []models.FunctionVolume {
	if filter == "" {
		filter = models.FunctionAll
	}

	total := 0
	counts := make(map[models.FunctionBucket]int, len(models.SelectableFunctions))
	for _, r := range byGender(records, g) {
		total++
		for _, b := range models.SelectableFunctions {
			if b.Matches(r.Function) {
				counts[b]++
				break
			}
		}
	}

	var out []models.FunctionVolume
	for _, b := range models.SelectableFunctions {
		if filter == models.FunctionAll || filter == b {
			out = append(out, models.FunctionVolume{Function: b, Volume: counts[b]})
		}
	}
	if filter == models.FunctionAll {
		residual := total
		for _, b := range models.SelectableFunctions {
			residual -= counts[b]
		}
		out = append(out, models.FunctionVolume{Function: models.FunctionOther, Volume: residual})
	}
	return out
}

// CategoryRanking ranks the socio-professional categories of one gender by
// volume, descending, and keeps the first limit entries. Rows without a
// category code are dropped. The label is the first non-empty one seen for
// the code.
func CategoryRanking(records []models.ElectedOfficial, g models.Gender, limit int) []models.CategoryVolume {
	counts := make(map[string]int)
	labels := make(map[string]string)
	for _, r := range byGender(records, g) {
		if r.CategoryCode == "" {
			continue
		}
		counts[r.CategoryCode]++
		if labels[r.CategoryCode] == "" {
			labels[r.CategoryCode] = r.CategoryLabel
		}
	}

	out := make([]models.CategoryVolume, 0, len(counts))
	for code, n := range counts {
		out = append(out, models.CategoryVolume{Code: code, Label: labels[code], Volume: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Volume != out[j].Volume {
			return out[i].Volume > out[j].Volume
		}
		return out[i].Code < out[j].Code
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AgeRow pairs the male and female volumes of one age.
type AgeRow struct {
	Age    int
	Male   int
	Female int
}

// AlignAges merges two age histograms into ascending rows, filling ages
// missing on one side with zero.
func AlignAges(male, female []models.AgeBucket) []AgeRow {
	rows := make(map[int]*AgeRow)
	for _, b := range male {
		rows[b.Age] = &AgeRow{Age: b.Age, Male: b.Volume}
	}
	for _, b := range female {
		if r, ok := rows[b.Age]; ok {
			r.Female = b.Volume
		} else {
			rows[b.Age] = &AgeRow{Age: b.Age, Female: b.Volume}
		}
	}

	out := make([]AgeRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Age < out[j].Age })
	return out
}
