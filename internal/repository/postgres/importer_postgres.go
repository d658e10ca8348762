package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
)

// importBatchSize bounds the number of statements queued per pgx batch.
const importBatchSize = 1000

type importer struct{ pool *pgxpool.Pool }

func NewImporter(pool *pgxpool.Pool) repository.Importer { return &importer{pool: pool} }

// Import writes banks first, resolves their ids by name and then inserts
// branches, all inside one transaction. Rows already present are skipped.
// A row with a blank bank name is stored with a NULL bank_id.
func (im *importer) Import(ctx context.Context, rows []repository.ImportRow) (repository.ImportResult, error) {
	var res repository.ImportResult
	if err := ensurePool(im.pool); err != nil {
		return res, err
	}
	err := pgx.BeginFunc(ctx, im.pool, func(tx pgx.Tx) error {
		names := nonBlank(repository.BankNames(rows))
		n, err := execBatched(ctx, tx, len(names), func(b *pgx.Batch, i int) {
			b.Queue(`INSERT INTO banks (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, names[i])
		})
		if err != nil {
			return fmt.Errorf("insert banks: %w", err)
		}
		res.Banks = n

		ids, err := bankIDs(ctx, tx, names)
		if err != nil {
			return fmt.Errorf("resolve bank ids: %w", err)
		}

		n, err = execBatched(ctx, tx, len(rows), func(b *pgx.Batch, i int) {
			r := rows[i]
			var bankID *int64
			if id, ok := ids[r.BankName]; ok {
				bankID = &id
			}
			b.Queue(`INSERT INTO branches (ifsc, branch, address, city, district, state, bank_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (ifsc) DO NOTHING`,
				r.IFSC, r.Branch, r.Address, r.City, r.District, r.State, bankID)
		})
		if err != nil {
			return fmt.Errorf("insert branches: %w", err)
		}
		res.Branches = n
		return nil
	})
	if err != nil {
		return repository.ImportResult{}, repository.MapPgError(err)
	}
	return res, nil
}

// execBatched queues total statements in chunks and returns the number of
// rows they affected.
func execBatched(ctx context.Context, tx pgx.Tx, total int, queue func(b *pgx.Batch, i int)) (int, error) {
	affected := 0
	for start := 0; start < total; start += importBatchSize {
		end := min(start+importBatchSize, total)
		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			queue(batch, i)
		}
		br := tx.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return 0, err
			}
			affected += int(tag.RowsAffected())
		}
		if err := br.Close(); err != nil {
			return 0, err
		}
	}
	return affected, nil
}

func bankIDs(ctx context.Context, tx pgx.Tx, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	if len(names) == 0 {
		return ids, nil
	}
	rows, err := tx.Query(ctx, `SELECT id, name FROM banks WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

func nonBlank(names []string) []string {
	out := names[:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
