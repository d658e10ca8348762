package graph

import (
	"context"
	"fmt"
	"math"

	"github.com/maxviazov/bank-branches-graphql/internal/filter"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
	"github.com/maxviazov/bank-branches-graphql/internal/service"
)

// Resolver is the Query root.
type Resolver struct {
	branches service.BranchService
	banks    service.BankService
}

// BranchFilterInput mirrors the GraphQL input of the same name.
type BranchFilterInput struct {
	IFSC       *string
	City       *string
	District   *string
	State      *string
	BankName   *string
	BranchName *string
}

type BankFilterInput struct {
	Name *string
}

type branchesArgs struct {
	First  *int32
	After  *string
	Filter *BranchFilterInput
}

type banksArgs struct {
	First  *int32
	After  *string
	Filter *BankFilterInput
}

func intArg(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func (r *Resolver) Branches(ctx context.Context, args branchesArgs) (*connectionResolver[service.BranchNode, *branchResolver], error) {
	var f *filter.BranchFilter
	if args.Filter != nil {
		f = &filter.BranchFilter{
			IFSC:       args.Filter.IFSC,
			City:       args.Filter.City,
			District:   args.Filter.District,
			State:      args.Filter.State,
			BankName:   args.Filter.BankName,
			BranchName: args.Filter.BranchName,
		}
	}
	conn, err := r.branches.PaginateBranches(ctx, f, intArg(args.First), args.After)
	if err != nil {
		return nil, resolverError(ctx, err)
	}
	return newConnection(conn, newBranchResolver), nil
}

func (r *Resolver) Branch(ctx context.Context, args struct{ IFSC string }) (*branchResolver, error) {
	b, err := r.branches.GetBranch(ctx, args.IFSC)
	if err != nil {
		return nil, resolverError(ctx, err)
	}
	return newBranchResolver(b), nil
}

func (r *Resolver) Banks(ctx context.Context, args banksArgs) (*connectionResolver[service.BankNode, *bankResolver], error) {
	var f *filter.BankFilter
	if args.Filter != nil {
		f = &filter.BankFilter{Name: args.Filter.Name}
	}
	conn, err := r.banks.PaginateBanks(ctx, f, intArg(args.First), args.After)
	if err != nil {
		return nil, resolverError(ctx, err)
	}
	return newConnection(conn, newBankResolver), nil
}

func (r *Resolver) Bank(ctx context.Context, args struct{ ID int32 }) (*bankResolver, error) {
	b, err := r.banks.GetBank(ctx, int64(args.ID))
	if err != nil {
		return nil, resolverError(ctx, err)
	}
	return newBankResolver(b), nil
}

type bankResolver struct{ node service.BankNode }

func newBankResolver(n service.BankNode) *bankResolver { return &bankResolver{node: n} }

// ID reports ids outside the 32-bit GraphQL Int range as a data integrity
// failure rather than truncating them.
func (b *bankResolver) ID(ctx context.Context) (int32, error) {
	if b.node.ID < 1 || b.node.ID > math.MaxInt32 {
		return 0, resolverError(ctx, fmt.Errorf("%w: bank id %d does not fit a GraphQL Int", service.ErrDataIntegrity, b.node.ID))
	}
	return int32(b.node.ID), nil
}

func (b *bankResolver) Name() string { return b.node.Name }

type branchResolver struct{ node service.BranchNode }

func newBranchResolver(n service.BranchNode) *branchResolver { return &branchResolver{node: n} }

func (b *branchResolver) IFSC() string     { return b.node.IFSC }
func (b *branchResolver) Branch() string   { return b.node.Branch.Branch }
func (b *branchResolver) Address() string  { return b.node.Address }
func (b *branchResolver) City() string     { return b.node.City }
func (b *branchResolver) District() string { return b.node.District }
func (b *branchResolver) State() string    { return b.node.State }

// Bank is resolved lazily, only when the query selects it.
func (b *branchResolver) Bank(ctx context.Context) (*bankResolver, error) {
	bank, err := b.node.Bank(ctx)
	if err != nil {
		return nil, resolverError(ctx, err)
	}
	return newBankResolver(bank), nil
}

type connectionResolver[T any, R any] struct {
	conn pagination.Connection[T]
	wrap func(T) R
}

func newConnection[T any, R any](conn pagination.Connection[T], wrap func(T) R) *connectionResolver[T, R] {
	return &connectionResolver[T, R]{conn: conn, wrap: wrap}
}

func (c *connectionResolver[T, R]) Edges() []*edgeResolver[R] {
	out := make([]*edgeResolver[R], len(c.conn.Edges))
	for i, e := range c.conn.Edges {
		out[i] = &edgeResolver[R]{node: c.wrap(e.Node), cursor: e.Cursor}
	}
	return out
}

func (c *connectionResolver[T, R]) PageInfo() *pageInfoResolver {
	return &pageInfoResolver{info: c.conn.PageInfo}
}

func (c *connectionResolver[T, R]) TotalCount() int32 { return int32(c.conn.TotalCount) }

type edgeResolver[R any] struct {
	node   R
	cursor string
}

func (e *edgeResolver[R]) Node() R        { return e.node }
func (e *edgeResolver[R]) Cursor() string { return e.cursor }

type pageInfoResolver struct{ info pagination.PageInfo }

func (p *pageInfoResolver) HasNextPage() bool     { return p.info.HasNextPage }
func (p *pageInfoResolver) HasPreviousPage() bool { return p.info.HasPreviousPage }
func (p *pageInfoResolver) StartCursor() *string  { return p.info.StartCursor }
func (p *pageInfoResolver) EndCursor() *string    { return p.info.EndCursor }
