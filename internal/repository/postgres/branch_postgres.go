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

// Branch rows are read through a LEFT JOIN so that a branch whose bank is
// missing is still listed; bank filters then simply never match it.
const branchSelect = `SELECT b.ifsc, COALESCE(b.branch, ''), COALESCE(b.address, ''),
		COALESCE(b.city, ''), COALESCE(b.district, ''), COALESCE(b.state, ''), COALESCE(b.bank_id, 0)
	FROM branches b LEFT JOIN banks ba ON ba.id = b.bank_id`

type branchRepository struct{ store }

func NewBranchRepository(pool *pgxpool.Pool, timeout time.Duration) repository.BranchRepository {
	return &branchRepository{store{pool: pool, timeout: timeout}}
}

func (r *branchRepository) Count(ctx context.Context, preds []repository.Predicate) (n int, err error) {
	defer metrics.TrackStorage(backend, "branch", "count")(&err)
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	where, args, err := repository.BuildWhere(preds, repository.PostgresDialect, 0)
	if err != nil {
		return 0, err
	}
	query := `SELECT COUNT(*) FROM branches b`
	if len(preds) > 0 {
		query += ` LEFT JOIN banks ba ON ba.id = b.bank_id` + where
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = getQ(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n)
	return n, repository.MapPgError(err)
}

func (r *branchRepository) List(ctx context.Context, preds []repository.Predicate, p repository.Page) (out []model.Branch, err error) {
	defer metrics.TrackStorage(backend, "branch", "list")(&err)
	if err := ensurePool(r.pool); err != nil {
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
		branchSelect+where+
			` ORDER BY b.ifsc LIMIT `+repository.DollarPlaceholder(n+1)+` OFFSET `+repository.DollarPlaceholder(n+2),
		args...,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	out, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.Branch])
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *branchRepository) GetByIFSC(ctx context.Context, ifsc string) (b model.Branch, err error) {
	defer metrics.TrackStorage(backend, "branch", "get")(&err)
	if err := ensurePool(r.pool); err != nil {
		return model.Branch{}, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := getQ(ctx, r.pool).Query(ctx, branchSelect+` WHERE b.ifsc = $1`, ifsc)
	if err != nil {
		return model.Branch{}, repository.MapPgError(err)
	}
	b, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[model.Branch])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Branch{}, repository.ErrNotFound
		}
		return model.Branch{}, repository.MapPgError(err)
	}
	return b, nil
}
