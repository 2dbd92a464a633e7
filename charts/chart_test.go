package charts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

var testPalette = Palette{Male: "#636EFA", Female: "#EF553B"}

func TestGenderPie(t *testing.T) {
	c := GenderPie([]models.GenderShare{
		{Label: "Homme", Percentage: 60},
		{Label: "Femme", Percentage: 40},
	}, testPalette)

	assert.Equal(t, KindPie, c.Kind)
	assert.Equal(t, "Répartition Homme Femme", c.Title)
	require.Len(t, c.Series, 1)
	assert.Equal(t, []string{"Homme", "Femme"}, c.Series[0].Labels)
	assert.Equal(t, []float64{60, 40}, c.Series[0].Values)
	assert.Equal(t, []string{"#636EFA", "#EF553B"}, c.Series[0].Colors)
	assert.False(t, c.Empty())
}

func TestAgeBarsAlignsBothGenders(t *testing.T) {
	c := AgeBars(
		[]models.AgeBucket{{Age: 40, Volume: 2}, {Age: 20, Volume: 1}},
		[]models.AgeBucket{{Age: 30, Volume: 5}},
		testPalette,
	)

	assert.Equal(t, Vertical, c.Orientation)
	assert.Equal(t, "group", c.BarMode)
	assert.Equal(t, Axis{Title: "Âge", Type: "category", Dtick: 5}, c.XAxis)

	want := []Series{
		{Name: "Homme", Labels: []string{"20", "30", "40"}, Values: []float64{1, 0, 2}, Color: "#636EFA"},
		{Name: "Femme", Labels: []string{"20", "30", "40"}, Values: []float64{0, 5, 0}, Color: "#EF553B"},
	}
	if diff := cmp.Diff(want, c.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestFunctionBars(t *testing.T) {
	male := []models.FunctionVolume{
		{Function: models.FunctionMayor, Volume: 3},
		{Function: models.FunctionDelegate, Volume: 0},
		{Function: models.FunctionDeputy, Volume: 2},
		{Function: models.FunctionOther, Volume: 7},
	}
	female := []models.FunctionVolume{
		{Function: models.FunctionMayor, Volume: 1},
		{Function: models.FunctionDelegate, Volume: 1},
		{Function: models.FunctionDeputy, Volume: 4},
		{Function: models.FunctionOther, Volume: 2},
	}

	c := FunctionBars(male, female, testPalette)
	assert.Equal(t, Horizontal, c.Orientation)
	assert.Equal(t, "Fonctions", c.YAxis.Title)
	assert.True(t, c.YAxis.Reversed)
	require.Len(t, c.Series, 2)
	assert.Equal(t, []string{"Maire", "Maire délégué", "Adjoint du maire", "Autres"}, c.Series[0].Labels)
	assert.Equal(t, []float64{3, 0, 2, 7}, c.Series[0].Values)
	assert.Equal(t, []float64{1, 1, 4, 2}, c.Series[1].Values)
}

func TestCategoryBars(t *testing.T) {
	ranking := []models.CategoryVolume{
		{Code: "23", Label: "Agriculteurs sur moyenne exploitation", Volume: 9},
		{Code: "99", Volume: 1},
	}

	c := CategoryBars(ranking, models.Female, testPalette)
	assert.Equal(t, "Catégorie socio-professionnelle femme", c.Title)
	assert.Equal(t, "Catégorie socio pro", c.YAxis.Title)
	assert.Equal(t, 600, c.Height)
	require.Len(t, c.Series, 1)
	assert.Equal(t, "#EF553B", c.Series[0].Color)
	assert.Equal(t, []string{"Agriculteurs sur moyenne exploitation", "99"}, c.Series[0].Labels)

	assert.Equal(t, "Catégorie socio-professionnelle homme", CategoryBars(nil, models.Male, testPalette).Title)
}

func TestPanels(t *testing.T) {
	panels := Panels(models.Snapshot{}, testPalette)
	for _, name := range PanelNames {
		c, ok := panels[name]
		require.True(t, ok, name)
		assert.True(t, c.Empty(), name)
	}
	assert.Len(t, panels, len(PanelNames))
}
