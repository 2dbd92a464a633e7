package data

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

// MongoSource reads councillor documents whose fields are the snake_case
// names from models.Column.Field.
type MongoSource struct {
	coll *mongo.Collection
}

func NewMongoSource(db *mongo.Database, collection string) *MongoSource {
	if db == nil {
		return &MongoSource{}
	}
	return &MongoSource{coll: db.Collection(collection)}
}

func (s *MongoSource) Name() string {
	if s.coll == nil {
		return "mongo:<nil>"
	}
	return "mongo:" + s.coll.Name()
}

func (s *MongoSource) Load(ctx context.Context, cols []models.Column) ([]models.ElectedOfficial, error) {
	if s.coll == nil {
		return nil, fmt.Errorf("%w: mongo connection not initialized", ErrSourceMissing)
	}
	cols = uniqueColumns(cols)

	projection := bson.D{{Key: "_id", Value: 0}}
	for _, c := range cols {
		projection = append(projection, bson.E{Key: c.Field(), Value: 1})
	}

	cursor, err := s.coll.Find(ctx, bson.D{}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var records []models.ElectedOfficial
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", s.coll.Name(), err)
		}
		records = append(records, documentToRecord(doc, cols))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", s.coll.Name(), err)
	}
	return records, nil
}

// documentToRecord tolerates numeric fields, which mongoimport produces for
// department and category codes.
func documentToRecord(doc bson.M, cols []models.Column) models.ElectedOfficial {
	var rec models.ElectedOfficial
	for _, c := range cols {
		v, ok := doc[c.Field()]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			rec.Set(c, strings.TrimSpace(val))
		default:
			rec.Set(c, fmt.Sprint(val))
		}
	}
	return rec
}
