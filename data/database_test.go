package data

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

func TestDocumentToRecord(t *testing.T) {
	doc := bson.M{
		"code_departement": int32(1),
		"code_sexe":        " F ",
		"code_csp":         int64(54),
		"libelle_csp":      nil,
		"libelle_fonction": "Maire",
	}
	cols := []models.Column{models.ColDepartmentCode, models.ColGender, models.ColCategoryCode, models.ColCategoryLabel}

	assert.Equal(t, models.ElectedOfficial{
		DepartmentCode: "1",
		Gender:         models.Female,
		CategoryCode:   "54",
	}, documentToRecord(doc, cols))
}

func TestDatabaseSourcesWithoutConnection(t *testing.T) {
	for _, src := range []Source{NewPostgresSource(nil, "elus"), NewMongoSource(nil, "elus")} {
		t.Run(src.Name(), func(t *testing.T) {
			_, err := src.Load(context.Background(), []models.Column{models.ColGender})
			assert.True(t, errors.Is(err, ErrSourceMissing))
		})
	}
}
