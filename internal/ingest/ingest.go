// Package ingest loads the bank branches CSV dataset into storage. It runs
// out of band (the ingest command); the query service never writes.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/rs/zerolog"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

var requiredColumns = []string{"ifsc", "bank_name"}

// ReadCSV parses the dataset. Columns are located by header name, so extra
// columns (such as bank_id) and any column order are accepted. Rows with a
// blank ifsc are rejected with their line number.
func ReadCSV(r io.Reader) ([]repository.ImportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		idx[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []repository.ImportRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		row := repository.ImportRow{
			IFSC:     strings.ToUpper(get(rec, "ifsc")),
			BankName: get(rec, "bank_name"),
			Branch:   get(rec, "branch"),
			Address:  get(rec, "address"),
			City:     get(rec, "city"),
			District: get(rec, "district"),
			State:    get(rec, "state"),
		}
		if row.IFSC == "" {
			return nil, fmt.Errorf("line %d: ifsc is empty", line)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadFile reads the CSV at path and imports it.
func LoadFile(ctx context.Context, im repository.Importer, path string, logger zerolog.Logger) (repository.ImportResult, error) {
	log := logger.With().Str("module", "ingest").Str("file", path).Logger()
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return repository.ImportResult{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return repository.ImportResult{}, err
	}
	log.Info().Int("rows", len(rows)).Msg("dataset parsed")

	res, err := im.Import(ctx, rows)
	if err != nil {
		return repository.ImportResult{}, fmt.Errorf("import: %w", err)
	}
	log.Info().
		Int("banks_inserted", res.Banks).
		Int("branches_inserted", res.Branches).
		Int("branches_skipped", len(rows)-res.Branches).
		Dur("took", time.Since(start)).
		Msg("dataset imported")
	return res, nil
}
