package pagination

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidPageSize is returned when "first" is zero or negative.
var ErrInvalidPageSize = errors.New("invalid page size")

// Source is an ordered, filtered set. Count and Fetch must agree on both the
// filter and the ordering; the ordering must be total and stable across calls.
type Source[T any] interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// SourceFuncs adapts a pair of closures to Source.
type SourceFuncs[T any] struct {
	CountFunc func(ctx context.Context) (int, error)
	FetchFunc func(ctx context.Context, offset, limit int) ([]T, error)
}

func (s SourceFuncs[T]) Count(ctx context.Context) (int, error) { return s.CountFunc(ctx) }

func (s SourceFuncs[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	return s.FetchFunc(ctx, offset, limit)
}

// Args are the connection arguments of a request. Nil means "not given".
type Args struct {
	First *int
	After *string
}

// Limits bounds page sizes. DefaultPageSize applies when First is nil and
// larger requests are clamped to MaxPageSize.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits mirrors the service defaults.
var DefaultLimits = Limits{DefaultPageSize: 20, MaxPageSize: 100}

type Edge[T any] struct {
	Node   T
	Cursor string
}

type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

// Connection is a request-scoped page. TotalCount is the size of the whole
// filtered set, not of the page.
type Connection[T any] struct {
	Edges      []Edge[T]
	PageInfo   PageInfo
	TotalCount int
}

// Nodes returns the page entities in order.
func (c Connection[T]) Nodes() []T {
	out := make([]T, len(c.Edges))
	for i, e := range c.Edges {
		out[i] = e.Node
	}
	return out
}

// Paginate computes the page of src selected by args. Arguments are checked
// before src is touched. The set is counted once; a start past the end yields
// an empty page without fetching.
func Paginate[T any](ctx context.Context, src Source[T], args Args, limits Limits) (Connection[T], error) {
	size, err := pageSize(args.First, limits)
	if err != nil {
		return Connection[T]{}, err
	}
	start := 0
	if args.After != nil {
		ordinal, err := DecodeCursor(*args.After)
		if err != nil {
			return Connection[T]{}, err
		}
		start = ordinal + 1
	}

	total, err := src.Count(ctx)
	if err != nil {
		return Connection[T]{}, fmt.Errorf("count: %w", err)
	}

	var page []T
	if start < total {
		page, err = src.Fetch(ctx, start, size)
		if err != nil {
			return Connection[T]{}, fmt.Errorf("fetch: %w", err)
		}
		if len(page) > size {
			page = page[:size]
		}
	}

	conn := Connection[T]{
		Edges:      make([]Edge[T], len(page)),
		TotalCount: total,
		PageInfo: PageInfo{
			HasNextPage:     start+len(page) < total,
			HasPreviousPage: start > 0,
		},
	}
	for i, node := range page {
		conn.Edges[i] = Edge[T]{Node: node, Cursor: EncodeCursor(start + i)}
	}
	if n := len(conn.Edges); n > 0 {
		first, last := conn.Edges[0].Cursor, conn.Edges[n-1].Cursor
		conn.PageInfo.StartCursor = &first
		conn.PageInfo.EndCursor = &last
	}
	return conn, nil
}

// CheckArgs reports the error Paginate would return for args, without any I/O.
// Callers use it to reject bad requests before opening a transaction.
func CheckArgs(args Args, limits Limits) error {
	if _, err := pageSize(args.First, limits); err != nil {
		return err
	}
	if args.After != nil {
		if _, err := DecodeCursor(*args.After); err != nil {
			return err
		}
	}
	return nil
}

func pageSize(first *int, limits Limits) (int, error) {
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = DefaultLimits.DefaultPageSize
	}
	if limits.MaxPageSize <= 0 {
		limits.MaxPageSize = DefaultLimits.MaxPageSize
	}
	if first == nil {
		return min(limits.DefaultPageSize, limits.MaxPageSize), nil
	}
	if *first <= 0 {
		return 0, ErrInvalidPageSize
	}
	return min(*first, limits.MaxPageSize), nil
}
