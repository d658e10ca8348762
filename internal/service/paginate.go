package service

import (
	"context"

	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
)

// paginateInTx runs count and fetch of one page inside a single read
// transaction so totalCount and edges describe the same snapshot.
func paginateInTx[T any](ctx context.Context, tx repository.TxManager, src pagination.Source[T], args pagination.Args, limits pagination.Limits) (pagination.Connection[T], error) {
	var conn pagination.Connection[T]
	err := tx.WithinReadTx(ctx, func(ctx context.Context) error {
		var err error
		conn, err = pagination.Paginate(ctx, src, args, limits)
		return err
	})
	return conn, err
}

// mapConnection converts the nodes of c while keeping cursors and page info.
func mapConnection[T, U any](c pagination.Connection[T], assemble func([]T) []U) pagination.Connection[U] {
	nodes := assemble(c.Nodes())
	out := pagination.Connection[U]{
		Edges:      make([]pagination.Edge[U], len(c.Edges)),
		PageInfo:   c.PageInfo,
		TotalCount: c.TotalCount,
	}
	for i, e := range c.Edges {
		out.Edges[i] = pagination.Edge[U]{Node: nodes[i], Cursor: e.Cursor}
	}
	return out
}

// repoSource adapts a Count/List repository pair bound to preds.
func repoSource[T any](preds []repository.Predicate,
	count func(context.Context, []repository.Predicate) (int, error),
	list func(context.Context, []repository.Predicate, repository.Page) ([]T, error),
) pagination.Source[T] {
	return pagination.SourceFuncs[T]{
		CountFunc: func(ctx context.Context) (int, error) { return count(ctx, preds) },
		FetchFunc: func(ctx context.Context, offset, limit int) ([]T, error) {
			return list(ctx, preds, repository.Page{Limit: limit, Offset: offset})
		},
	}
}
