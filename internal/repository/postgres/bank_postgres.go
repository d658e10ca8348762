package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/bank-branches-graphql/internal/metrics"
	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
)

type bankRepository struct{ store }

func NewBankRepository(pool *pgxpool.Pool, timeout time.Duration) repository.BankRepository {
	return &bankRepository{store{pool: pool, timeout: timeout}}
}

func (r *bankRepository) Count(ctx context.Context, preds []repository.Predicate) (n int, err error) {
	defer metrics.TrackStorage(backend, "bank", "count")(&err)
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	if err := repository.CheckBankPredicates(preds); err != nil {
		return 0, err
	}
	where, args, err := repository.BuildWhere(preds, repository.PostgresDialect, 0)
	if err != nil {
		return 0, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = getQ(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM banks ba`+where, args...).Scan(&n)
	return n, repository.MapPgError(err)
}

func (r *bankRepository) List(ctx context.Context, preds []repository.Predicate, p repository.Page) (out []model.Bank, err error) {
	defer metrics.TrackStorage(backend, "bank", "list")(&err)
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	if err := repository.CheckBankPredicates(preds); err != nil {
		return nil, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	where, args, err := repository.BuildWhere(preds, repository.PostgresDialect, 0)
	if err != nil {
		return nil, err
	}
	n := len(args)
	args = append(args, limit, offset)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT ba.id, ba.name FROM banks ba`+where+
			` ORDER BY ba.id LIMIT `+repository.DollarPlaceholder(n+1)+` OFFSET `+repository.DollarPlaceholder(n+2),
		args...,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	out, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.Bank])
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *bankRepository) GetByID(ctx context.Context, id int64) (b model.Bank, err error) {
	defer metrics.TrackStorage(backend, "bank", "get")(&err)
	if err := ensurePool(r.pool); err != nil {
		return model.Bank{}, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT id, name FROM banks WHERE id = $1`, id)
	if err := row.Scan(&b.ID, &b.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Bank{}, repository.ErrNotFound
		}
		return model.Bank{}, repository.MapPgError(err)
	}
	return b, nil
}

// GetByIDs resolves many banks in one round trip; duplicates in ids are harmless.
func (r *bankRepository) GetByIDs(ctx context.Context, ids []int64) (out []model.Bank, err error) {
	defer metrics.TrackStorage(backend, "bank", "get_many")(&err)
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Bank{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := getQ(ctx, r.pool).Query(ctx, `SELECT id, name FROM banks WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	out, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.Bank])
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}
