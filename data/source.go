// Package data reads the RNE councillors table, filters it, and derives the
// aggregates behind each dashboard chart.
package data

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/sebastien-chopin-dev/rne-dashboard/config"
	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

var (
	// ErrSourceMissing is returned when the source file or table cannot be found.
	ErrSourceMissing = errors.New("source not found")
	// ErrSchema is returned when the source lacks a requested column.
	ErrSchema = errors.New("unreadable source schema")
)

// Source yields councillor records projected to the requested columns.
type Source interface {
	Load(ctx context.Context, cols []models.Column) ([]models.ElectedOfficial, error)
	Name() string
}

// CSVSource reads the semicolon-delimited export published on data.gouv.fr.
// Every value is kept as text; nothing is type-inferred.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

func (s *CSVSource) Load(ctx context.Context, cols []models.Column) ([]models.ElectedOfficial, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, s.path)
		}
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	return readCSV(ctx, f, cols)
}

const utf8BOM = "\ufeff"

func readCSV(ctx context.Context, in io.Reader, cols []models.Column) ([]models.ElectedOfficial, error) {
	r := csv.NewReader(bufio.NewReaderSize(in, 1<<16))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrSchema)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrSchema, err)
	}

	positions := make(map[models.Column]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		positions[models.Column(strings.TrimSpace(name))] = i
	}

	cols = uniqueColumns(cols)
	indexes := make([]int, len(cols))
	for i, c := range cols {
		idx, ok := positions[c]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, c)
		}
		indexes[i] = idx
	}

	var (
		records []models.ElectedOfficial
		skipped int
		line    int
	)
	for {
		line++
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		var rec models.ElectedOfficial
		for i, c := range cols {
			if idx := indexes[i]; idx < len(row) {
				rec.Set(c, strings.TrimSpace(row[idx]))
			}
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		config.Log.Debug("skipped malformed csv rows", zap.Int("skipped", skipped), zap.Int("kept", len(records)))
	}
	return records, nil
}

func uniqueColumns(cols []models.Column) []models.Column {
	seen := make(map[models.Column]bool, len(cols))
	out := make([]models.Column, 0, len(cols))
	for _, c := range cols {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
