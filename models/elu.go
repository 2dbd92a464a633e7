package models

import "strings"

// Column is a header of the RNE councillors file.
type Column string

const (
	ColDepartmentCode  Column = "Code du département"
	ColDepartmentLabel Column = "Libellé du département"
	ColGender          Column = "Code sexe"
	ColFunction        Column = "Libellé de la fonction"
	ColBirthDate       Column = "Date de naissance"
	ColCategoryCode    Column = "Code de la catégorie socio-professionnelle"
	ColCategoryLabel   Column = "Libellé de la catégorie socio-professionnelle"
)

// AllColumns lists the columns in file order of importance, used when a
// caller asks for every field.
var AllColumns = []Column{
	ColDepartmentCode,
	ColDepartmentLabel,
	ColGender,
	ColFunction,
	ColBirthDate,
	ColCategoryCode,
	ColCategoryLabel,
}

// Field returns the snake_case name used by the database sources.
func (c Column) Field() string {
	switch c {
	case ColDepartmentCode:
		return "code_departement"
	case ColDepartmentLabel:
		return "libelle_departement"
	case ColGender:
		return "code_sexe"
	case ColFunction:
		return "libelle_fonction"
	case ColBirthDate:
		return "date_naissance"
	case ColCategoryCode:
		return "code_csp"
	case ColCategoryLabel:
		return "libelle_csp"
	}
	return ""
}

// Gender is the "Code sexe" value.
type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

// Label returns the display name used in charts.
func (g Gender) Label() string {
	if g == Female {
		return "Femme"
	}
	return "Homme"
}

// ElectedOfficial is one row of the file. Empty strings stand for null
// values; only the columns requested at load time are populated.
type ElectedOfficial struct {
	DepartmentCode  string `json:"code_departement,omitempty" bson:"code_departement"`
	DepartmentLabel string `json:"libelle_departement,omitempty" bson:"libelle_departement"`
	Gender          Gender `json:"code_sexe,omitempty" bson:"code_sexe"`
	Function        string `json:"libelle_fonction,omitempty" bson:"libelle_fonction"`
	BirthDate       string `json:"date_naissance,omitempty" bson:"date_naissance"`
	CategoryCode    string `json:"code_csp,omitempty" bson:"code_csp"`
	CategoryLabel   string `json:"libelle_csp,omitempty" bson:"libelle_csp"`
}

// Set assigns the value of column c.
func (e *ElectedOfficial) Set(c Column, value string) {
	switch c {
	case ColDepartmentCode:
		e.DepartmentCode = value
	case ColDepartmentLabel:
		e.DepartmentLabel = value
	case ColGender:
		e.Gender = Gender(value)
	case ColFunction:
		e.Function = value
	case ColBirthDate:
		e.BirthDate = value
	case ColCategoryCode:
		e.CategoryCode = value
	case ColCategoryLabel:
		e.CategoryLabel = value
	}
}

// FunctionBucket groups free-text function labels.
type FunctionBucket string

const (
	FunctionAll      FunctionBucket = "*"
	FunctionMayor    FunctionBucket = "Maire"
	FunctionDelegate FunctionBucket = "Maire délégué"
	FunctionDeputy   FunctionBucket = "Adjoint du maire"
	FunctionOther    FunctionBucket = "Autres"
)

// SelectableFunctions is the role list offered by the role selector.
var SelectableFunctions = []FunctionBucket{FunctionMayor, FunctionDelegate, FunctionDeputy}

// ParseFunctionBucket validates a role selector value.
func ParseFunctionBucket(s string) (FunctionBucket, bool) {
	for _, f := range SelectableFunctions {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Matches reports whether a function label falls in the bucket. The
// wildcard matches everything and FunctionOther matches nothing, since the
// residual is only ever computed by subtraction. The deputy test is a
// case-sensitive "adjoint" containment, so "Adjoint au maire" is not a deputy.
func (b FunctionBucket) Matches(label string) bool {
	switch b {
	case FunctionAll:
		return true
	case FunctionMayor, FunctionDelegate:
		return label == string(b)
	case FunctionDeputy:
		return strings.Contains(label, "adjoint")
	}
	return false
}
