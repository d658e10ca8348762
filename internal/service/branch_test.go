package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maxviazov/bank-branches-graphql/internal/filter"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ifscOf(c pagination.Connection[BranchNode]) []string {
	out := make([]string, len(c.Edges))
	for i, e := range c.Edges {
		out[i] = e.Node.IFSC
	}
	return out
}

func TestPaginateBranches_BankNameScenario(t *testing.T) {
	svc, tx := newBranchService(alphaStore())
	conn, err := svc.PaginateBranches(context.Background(), &filter.BranchFilter{BankName: strPtr("Alpha")}, intPtr(2), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ALPH0000001", "ALPH0000002"}, ifscOf(conn))
	assert.Equal(t, 4, conn.TotalCount)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.False(t, conn.PageInfo.HasPreviousPage)
	assert.Equal(t, 1, tx.calls, "count and fetch share one transaction")
}

func TestPaginateBranches_WalkWithCursors(t *testing.T) {
	store := alphaStore()
	svc, _ := newBranchService(store)
	ctx := context.Background()

	var (
		seen  []string
		after *string
	)
	for {
		conn, err := svc.PaginateBranches(ctx, nil, intPtr(2), after)
		require.NoError(t, err)
		require.Equal(t, 5, conn.TotalCount)
		seen = append(seen, ifscOf(conn)...)
		if !conn.PageInfo.HasNextPage {
			break
		}
		after = conn.PageInfo.EndCursor
	}
	assert.Equal(t, []string{"ALPH0000001", "ALPH0000002", "ALPH0000003", "ALPH0000004", "BETA0000001"}, seen)
}

func TestPaginateBranches_RelationshipIntegrity(t *testing.T) {
	store := alphaStore()
	svc, _ := newBranchService(store)
	ctx := WithRequestCache(context.Background())

	conn, err := svc.PaginateBranches(ctx, nil, intPtr(10), nil)
	require.NoError(t, err)
	require.Len(t, conn.Edges, 5)
	for _, e := range conn.Edges {
		bank, err := e.Node.Bank(ctx)
		require.NoError(t, err)
		assert.Equal(t, e.Node.BankID, bank.ID, e.Node.IFSC)
	}
	require.Len(t, store.getByIDsCalls, 1, "banks of a page load in one batch")
	assert.ElementsMatch(t, []int64{1, 2}, store.getByIDsCalls[0])
}

func TestPaginateBranches_InvalidArgumentsSkipStorage(t *testing.T) {
	cases := []struct {
		name   string
		filter *filter.BranchFilter
		first  *int
		after  *string
		want   error
	}{
		{"first_zero", nil, intPtr(0), nil, pagination.ErrInvalidPageSize},
		{"bad_cursor", nil, intPtr(2), strPtr("not-a-valid-cursor"), pagination.ErrInvalidCursor},
		{"long_city", &filter.BranchFilter{City: strPtr(strings.Repeat("x", 200))}, nil, nil, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := alphaStore()
			svc, tx := newBranchService(store)
			_, err := svc.PaginateBranches(context.Background(), tc.filter, tc.first, tc.after)
			require.ErrorIs(t, err, tc.want)
			assert.Zero(t, tx.calls)
			assert.Zero(t, store.counts)
		})
	}
}

func TestPaginateBranches_FilterFieldErrors(t *testing.T) {
	svc, _ := newBranchService(alphaStore())
	_, err := svc.PaginateBranches(context.Background(), &filter.BranchFilter{State: strPtr(strings.Repeat("s", 129))}, nil, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	fes := FieldErrors(err)
	require.Len(t, fes, 1)
	assert.Equal(t, "filter.state", fes[0].Field)
}

func TestPaginateBranches_StorageUnavailable(t *testing.T) {
	store := alphaStore()
	store.err = repository.Unavailable(errors.New("connection refused"))
	svc, _ := newBranchService(store)

	_, err := svc.PaginateBranches(context.Background(), nil, nil, nil)
	require.ErrorIs(t, err, repository.ErrStorageUnavailable)
}

func TestPaginateBranches_PastEnd(t *testing.T) {
	store := alphaStore()
	svc, _ := newBranchService(store)
	conn, err := svc.PaginateBranches(context.Background(), nil, intPtr(3), strPtr(pagination.EncodeCursor(4)))
	require.NoError(t, err)
	assert.Empty(t, conn.Edges)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	assert.Nil(t, conn.PageInfo.StartCursor)
	assert.Zero(t, store.lists, "nothing to fetch past the end")
}

func TestGetBranch(t *testing.T) {
	svc, _ := newBranchService(alphaStore())
	ctx := context.Background()

	b, err := svc.GetBranch(ctx, "  beta0000001 ")
	require.NoError(t, err)
	assert.Equal(t, "Andheri", b.Branch.Branch)
	assert.Equal(t, "BETA0000001", b.IFSC)
	bank, err := b.Bank(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Beta", bank.Name)

	_, err = svc.GetBranch(ctx, "NONE0000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.GetBranch(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
