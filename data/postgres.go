package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

// PostgresSource reads the councillors table loaded into PostgreSQL. Column
// names are the snake_case fields from models.Column.Field.
type PostgresSource struct {
	db    *sql.DB
	table string
}

func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

func (s *PostgresSource) Name() string {
	return "postgres:" + s.table
}

func (s *PostgresSource) Load(ctx context.Context, cols []models.Column) ([]models.ElectedOfficial, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: postgres connection not initialized", ErrSourceMissing)
	}
	cols = uniqueColumns(cols)

	fields := make([]string, len(cols))
	for i, c := range cols {
		fields[i] = pq.QuoteIdentifier(c.Field()) + "::text"
	}
	query := "SELECT " + strings.Join(fields, ", ") + " FROM " + pq.QuoteIdentifier(s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "undefined_table":
				return nil, fmt.Errorf("%w: %s", ErrSourceMissing, s.table)
			case "undefined_column":
				return nil, fmt.Errorf("%w: %s", ErrSchema, pqErr.Message)
			}
		}
		return nil, fmt.Errorf("querying %s: %w", s.table, err)
	}
	defer rows.Close()

	values := make([]sql.NullString, len(cols))
	dest := make([]interface{}, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	var records []models.ElectedOfficial
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", s.table, err)
		}
		var rec models.ElectedOfficial
		for i, c := range cols {
			if values[i].Valid {
				rec.Set(c, strings.TrimSpace(values[i].String))
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", s.table, err)
	}
	return records, nil
}
