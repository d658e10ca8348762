package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/maxviazov/bank-branches-graphql/internal/repository"
)

type importer struct{ db *sql.DB }

func NewImporter(db *sql.DB) repository.Importer { return &importer{db: db} }

// Import mirrors the Postgres importer: banks by name first, then branches,
// in one transaction, skipping rows that already exist.
func (im *importer) Import(ctx context.Context, rows []repository.ImportRow) (res repository.ImportResult, err error) {
	if err := ensureDB(im.db); err != nil {
		return res, err
	}
	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return res, mapError(err)
	}
	defer func() { _ = tx.Rollback() }()

	bankStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO banks (name) VALUES (?)`)
	if err != nil {
		return res, mapError(err)
	}
	defer bankStmt.Close()

	ids := make(map[string]int64)
	for _, name := range repository.BankNames(rows) {
		if name == "" {
			continue
		}
		r, err := bankStmt.ExecContext(ctx, name)
		if err != nil {
			return repository.ImportResult{}, fmt.Errorf("insert bank %q: %w", name, mapError(err))
		}
		if n, _ := r.RowsAffected(); n > 0 {
			res.Banks++
		}
		var id int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM banks WHERE name = ?`, name).Scan(&id); err != nil {
			return repository.ImportResult{}, fmt.Errorf("resolve bank %q: %w", name, mapError(err))
		}
		ids[name] = id
	}

	branchStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO branches
		(ifsc, branch, address, city, district, state, bank_id) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return repository.ImportResult{}, mapError(err)
	}
	defer branchStmt.Close()

	for _, row := range rows {
		var bankID sql.NullInt64
		if id, ok := ids[row.BankName]; ok {
			bankID = sql.NullInt64{Int64: id, Valid: true}
		}
		r, err := branchStmt.ExecContext(ctx, row.IFSC, row.Branch, row.Address, row.City, row.District, row.State, bankID)
		if err != nil {
			return repository.ImportResult{}, fmt.Errorf("insert branch %q: %w", row.IFSC, mapError(err))
		}
		if n, _ := r.RowsAffected(); n > 0 {
			res.Branches++
		}
	}

	if err := tx.Commit(); err != nil {
		return repository.ImportResult{}, mapError(err)
	}
	return res, nil
}
