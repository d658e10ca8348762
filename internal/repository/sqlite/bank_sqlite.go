package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/maxviazov/bank-branches-graphql/internal/metrics"
	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
)

const defaultPageLimit = 20

type bankRepository struct{ store }

func NewBankRepository(db *sql.DB, timeout time.Duration) repository.BankRepository {
	return &bankRepository{store{db: db, timeout: timeout}}
}

func (r *bankRepository) Count(ctx context.Context, preds []repository.Predicate) (n int, err error) {
	defer metrics.TrackStorage(backend, "bank", "count")(&err)
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	if err := repository.CheckBankPredicates(preds); err != nil {
		return 0, err
	}
	where, args, err := repository.BuildWhere(preds, repository.SQLiteDialect, 0)
	if err != nil {
		return 0, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = getQ(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM banks ba`+where, args...).Scan(&n)
	return n, mapError(err)
}

func (r *bankRepository) List(ctx context.Context, preds []repository.Predicate, p repository.Page) (out []model.Bank, err error) {
	defer metrics.TrackStorage(backend, "bank", "list")(&err)
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	if err := repository.CheckBankPredicates(preds); err != nil {
		return nil, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	where, args, err := repository.BuildWhere(preds, repository.SQLiteDialect, 0)
	if err != nil {
		return nil, err
	}
	args = append(args, limit, offset)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
		`SELECT ba.id, ba.name FROM banks ba`+where+` ORDER BY ba.id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return scanBanks(rows, limit)
}

func (r *bankRepository) GetByID(ctx context.Context, id int64) (b model.Bank, err error) {
	defer metrics.TrackStorage(backend, "bank", "get")(&err)
	if err := ensureDB(r.db); err != nil {
		return model.Bank{}, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := getQ(ctx, r.db).QueryRowContext(ctx, `SELECT id, name FROM banks WHERE id = ?`, id)
	if err := row.Scan(&b.ID, &b.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Bank{}, repository.ErrNotFound
		}
		return model.Bank{}, mapError(err)
	}
	return b, nil
}

func (r *bankRepository) GetByIDs(ctx context.Context, ids []int64) (out []model.Bank, err error) {
	defer metrics.TrackStorage(backend, "bank", "get_many")(&err)
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Bank{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
		`SELECT id, name FROM banks WHERE id IN (`+inList(len(ids))+`) ORDER BY id`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return scanBanks(rows, len(ids))
}

func scanBanks(rows *sql.Rows, capHint int) ([]model.Bank, error) {
	defer rows.Close()
	out := make([]model.Bank, 0, capHint)
	for rows.Next() {
		var b model.Bank
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, mapError(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// inList renders n comma-separated placeholders.
func inList(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func sanitizeLimitOffset(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
