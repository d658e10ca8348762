package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/maxviazov/bank-branches-graphql/internal/metrics"
	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
)

const branchSelect = `SELECT b.ifsc, COALESCE(b.branch, ''), COALESCE(b.address, ''),
		COALESCE(b.city, ''), COALESCE(b.district, ''), COALESCE(b.state, ''), COALESCE(b.bank_id, 0)
	FROM branches b LEFT JOIN banks ba ON ba.id = b.bank_id`

type branchRepository struct{ store }

func NewBranchRepository(db *sql.DB, timeout time.Duration) repository.BranchRepository {
	return &branchRepository{store{db: db, timeout: timeout}}
}

func (r *branchRepository) Count(ctx context.Context, preds []repository.Predicate) (n int, err error) {
	defer metrics.TrackStorage(backend, "branch", "count")(&err)
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	where, args, err := repository.BuildWhere(preds, repository.SQLiteDialect, 0)
	if err != nil {
		return 0, err
	}
	query := `SELECT COUNT(*) FROM branches b`
	if len(preds) > 0 {
		query += ` LEFT JOIN banks ba ON ba.id = b.bank_id` + where
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = getQ(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&n)
	return n, mapError(err)
}

func (r *branchRepository) List(ctx context.Context, preds []repository.Predicate, p repository.Page) (out []model.Branch, err error) {
	defer metrics.TrackStorage(backend, "branch", "list")(&err)
	if err := ensureDB(r.db); err != nil {
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
	rows, err := getQ(ctx, r.db).QueryContext(ctx, branchSelect+where+` ORDER BY b.ifsc LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	out = make([]model.Branch, 0, limit)
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *branchRepository) GetByIFSC(ctx context.Context, ifsc string) (b model.Branch, err error) {
	defer metrics.TrackStorage(backend, "branch", "get")(&err)
	if err := ensureDB(r.db); err != nil {
		return model.Branch{}, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err = scanBranch(getQ(ctx, r.db).QueryRowContext(ctx, branchSelect+` WHERE b.ifsc = ?`, ifsc))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Branch{}, repository.ErrNotFound
		}
		return model.Branch{}, mapError(err)
	}
	return b, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBranch(s scanner) (model.Branch, error) {
	var b model.Branch
	err := s.Scan(&b.IFSC, &b.Branch, &b.Address, &b.City, &b.District, &b.State, &b.BankID)
	return b, err
}
