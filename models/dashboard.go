package models

// Wildcard disables the department filter.
const Wildcard = "*"

// AllDepartmentsLabel is the leading entry of the department selector.
const AllDepartmentsLabel = "Tous"

// CategoryRankingLimit caps the socio-professional category charts.
const CategoryRankingLimit = 25

// DashboardRequest carries the current filter selection through the query
// and render calls. It is built once per interaction and never mutated.
type DashboardRequest struct {
	Department      string         `json:"departement"`
	DepartmentLabel string         `json:"libelle_departement,omitempty"`
	Function        FunctionBucket `json:"fonction"`
}

// AllRecords is the request with no filter applied.
func AllRecords() DashboardRequest {
	return DashboardRequest{Department: Wildcard, Function: FunctionAll}
}

type GenderCount struct {
	Male   int `json:"hommes"`
	Female int `json:"femmes"`
}

// Total is the number of records with a recognised gender code.
func (g GenderCount) Total() int {
	return g.Male + g.Female
}

type GenderShare struct {
	Label      string  `json:"sexe"`
	Percentage float64 `json:"pourcentage"`
}

type AgeBucket struct {
	Age    int `json:"age"`
	Volume int `json:"volume"`
}

type FunctionVolume struct {
	Function FunctionBucket `json:"fonction"`
	Volume   int            `json:"volume"`
}

type CategoryVolume struct {
	Code   string `json:"code"`
	Label  string `json:"libelle"`
	Volume int    `json:"volume"`
}

// DepartmentOptions feeds the department selector.
type DepartmentOptions struct {
	Labels []string          `json:"labels"`
	Codes  map[string]string `json:"codes"`
}

type Options struct {
	Departments DepartmentOptions `json:"departements"`
	Functions   []FunctionBucket  `json:"fonctions"`
}

// Snapshot gathers every aggregate shown for one request.
type Snapshot struct {
	Request          DashboardRequest `json:"request"`
	Count            GenderCount      `json:"total"`
	Shares           []GenderShare    `json:"proportion"`
	AgesMale         []AgeBucket      `json:"ages_hommes"`
	AgesFemale       []AgeBucket      `json:"ages_femmes"`
	FunctionsMale    []FunctionVolume `json:"fonctions_hommes"`
	FunctionsFemale  []FunctionVolume `json:"fonctions_femmes"`
	CategoriesMale   []CategoryVolume `json:"csp_hommes"`
	CategoriesFemale []CategoryVolume `json:"csp_femmes"`
}
