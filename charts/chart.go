// Package charts turns dashboard aggregates into chart specifications and
// renders them as SVG.
package charts

import (
	"sort"
	"strconv"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

// Kind selects the renderer for a chart.
type Kind string

const (
	KindPie Kind = "pie"
	KindBar Kind = "bar"
)

// Bar orientations.
const (
	Vertical   = "v"
	Horizontal = "h"
)

// Names of the dashboard panels, used in URLs and JSON keys.
const (
	NameGender          = "genre"
	NameFunctions       = "fonctions"
	NameAges            = "ages"
	NameCategoryMale    = "csp_hommes"
	NameCategoryFemale  = "csp_femmes"
	categoryChartHeight = 600
)

// PanelNames lists the panels in page order.
var PanelNames = []string{NameGender, NameFunctions, NameAges, NameCategoryMale, NameCategoryFemale}

// Palette holds the hex colour of each gender.
type Palette struct {
	Male   string `json:"homme"`
	Female string `json:"femme"`
}

// For returns the colour of g.
func (p Palette) For(g models.Gender) string {
	if g == models.Female {
		return p.Female
	}
	return p.Male
}

// Axis describes one chart axis. Dtick thins category labels.
type Axis struct {
	Title    string  `json:"title"`
	Type     string  `json:"type,omitempty"`
	Dtick    float64 `json:"dtick,omitempty"`
	Reversed bool    `json:"reversed,omitempty"`
}

// Series is one trace. Pie slices carry their colours in Colors; bar traces
// use Color.
type Series struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Color  string    `json:"color,omitempty"`
	Colors []string  `json:"colors,omitempty"`
}

// Chart is a renderer-neutral chart description, also served as JSON.
type Chart struct {
	Kind        Kind     `json:"kind"`
	Title       string   `json:"title"`
	Orientation string   `json:"orientation,omitempty"`
	BarMode     string   `json:"barmode,omitempty"`
	XAxis       Axis     `json:"xaxis"`
	YAxis       Axis     `json:"yaxis"`
	Series      []Series `json:"series"`
	Height      int      `json:"height,omitempty"`
	ShowLegend  bool     `json:"showlegend"`
}

// Empty reports whether no series holds a non-zero value.
func (c Chart) Empty() bool {
	for _, s := range c.Series {
		for _, v := range s.Values {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// GenderPie shows the gender shares, male first.
func GenderPie(shares []models.GenderShare, p Palette) Chart {
	s := Series{Name: "Pourcentage"}
	for _, share := range shares {
		s.Labels = append(s.Labels, share.Label)
		s.Values = append(s.Values, share.Percentage)
		if share.Label == models.Female.Label() {
			s.Colors = append(s.Colors, p.Female)
		} else {
			s.Colors = append(s.Colors, p.Male)
		}
	}
	return Chart{
		Kind:       KindPie,
		Title:      "Répartition Homme Femme",
		Series:     []Series{s},
		ShowLegend: true,
	}
}

// AgeBars groups both age histograms on a shared, ascending age axis. Ages
// present for one gender only get a zero bar for the other.
func AgeBars(male, female []models.AgeBucket, p Palette) Chart {
	seen := make(map[int]bool)
	var ages []int
	for _, buckets := range [][]models.AgeBucket{male, female} {
		for _, b := range buckets {
			if !seen[b.Age] {
				seen[b.Age] = true
				ages = append(ages, b.Age)
			}
		}
	}
	sort.Ints(ages)

	labels := make([]string, len(ages))
	for i, age := range ages {
		labels[i] = strconv.Itoa(age)
	}

	series := func(g models.Gender, buckets []models.AgeBucket) Series {
		byAge := make(map[int]int, len(buckets))
		for _, b := range buckets {
			byAge[b.Age] = b.Volume
		}
		values := make([]float64, len(ages))
		for i, age := range ages {
			values[i] = float64(byAge[age])
		}
		return Series{Name: g.Label(), Labels: labels, Values: values, Color: p.For(g)}
	}

	return Chart{
		Kind:        KindBar,
		Title:       "Distribution des âges",
		Orientation: Vertical,
		BarMode:     "group",
		XAxis:       Axis{Title: "Âge", Type: "category", Dtick: 5},
		YAxis:       Axis{Title: "Volume"},
		Series:      []Series{series(models.Male, male), series(models.Female, female)},
		ShowLegend:  true,
	}
}

// FunctionBars keeps the bucket order of the volumes, residual last, and
// lists them top-down.
func FunctionBars(male, female []models.FunctionVolume, p Palette) Chart {
	seen := make(map[models.FunctionBucket]bool)
	var buckets []models.FunctionBucket
	for _, volumes := range [][]models.FunctionVolume{male, female} {
		for _, v := range volumes {
			if !seen[v.Function] {
				seen[v.Function] = true
				buckets = append(buckets, v.Function)
			}
		}
	}

	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = string(b)
	}

	series := func(g models.Gender, volumes []models.FunctionVolume) Series {
		byBucket := make(map[models.FunctionBucket]int, len(volumes))
		for _, v := range volumes {
			byBucket[v.Function] = v.Volume
		}
		values := make([]float64, len(buckets))
		for i, b := range buckets {
			values[i] = float64(byBucket[b])
		}
		return Series{Name: g.Label(), Labels: labels, Values: values, Color: p.For(g)}
	}

	return Chart{
		Kind:        KindBar,
		Title:       "Distribution des fonctions",
		Orientation: Horizontal,
		BarMode:     "group",
		XAxis:       Axis{Title: "Volume"},
		YAxis:       Axis{Title: "Fonctions", Type: "category", Dtick: 1, Reversed: true},
		Series:      []Series{series(models.Male, male), series(models.Female, female)},
		ShowLegend:  true,
	}
}

// CategoryBars draws one gender's category ranking, largest first.
func CategoryBars(ranking []models.CategoryVolume, g models.Gender, p Palette) Chart {
	title := "Catégorie socio-professionnelle homme"
	if g == models.Female {
		title = "Catégorie socio-professionnelle femme"
	}

	s := Series{Name: g.Label(), Color: p.For(g)}
	for _, c := range ranking {
		label := c.Label
		if label == "" {
			label = c.Code
		}
		s.Labels = append(s.Labels, label)
		s.Values = append(s.Values, float64(c.Volume))
	}

	return Chart{
		Kind:        KindBar,
		Title:       title,
		Orientation: Horizontal,
		XAxis:       Axis{Title: "Volume"},
		YAxis:       Axis{Title: "Catégorie socio pro", Type: "category", Dtick: 1, Reversed: true},
		Series:      []Series{s},
		Height:      categoryChartHeight,
		ShowLegend:  true,
	}
}

// Panels builds every dashboard chart from a snapshot, keyed by panel name.
func Panels(snap models.Snapshot, p Palette) map[string]Chart {
	return map[string]Chart{
		NameGender:         GenderPie(snap.Shares, p),
		NameFunctions:      FunctionBars(snap.FunctionsMale, snap.FunctionsFemale, p),
		NameAges:           AgeBars(snap.AgesMale, snap.AgesFemale, p),
		NameCategoryMale:   CategoryBars(snap.CategoriesMale, models.Male, p),
		NameCategoryFemale: CategoryBars(snap.CategoriesFemale, models.Female, p),
	}
}
