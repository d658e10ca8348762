package sqlite

import (
	"context"
	"testing"

	"github.com/maxviazov/bank-branches-graphql/internal/filter"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/maxviazov/bank-branches-graphql/internal/repository/contract"
	"github.com/maxviazov/bank-branches-graphql/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededBranchService(t *testing.T) service.BranchService {
	t.Helper()
	f, cleanup := makeFixture(t)
	t.Cleanup(cleanup)
	rows := append(append([]repository.ImportRow{}, contract.SeedRows...), contract.AccentedRow)
	_, err := f.Importer.Import(context.Background(), rows)
	require.NoError(t, err)
	return service.NewBranchService(f.Branches, f.Tx, service.NewAssembler(f.Banks), pagination.DefaultLimits, zerolog.Nop())
}

func TestBranchService_NonexistentCityIsEmptyPage(t *testing.T) {
	svc := newSeededBranchService(t)
	city := "ZZZZZ_NONEXISTENT"

	conn, err := svc.PaginateBranches(context.Background(), &filter.BranchFilter{City: &city}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, conn.Edges)
	assert.Zero(t, conn.TotalCount)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.False(t, conn.PageInfo.HasPreviousPage)
	assert.Nil(t, conn.PageInfo.StartCursor)
	assert.Nil(t, conn.PageInfo.EndCursor)
}

func TestBranchService_CaseInsensitiveBeyondASCII(t *testing.T) {
	svc := newSeededBranchService(t)
	ctx := service.WithRequestCache(context.Background())
	bank := "école"

	conn, err := svc.PaginateBranches(ctx, &filter.BranchFilter{BankName: &bank}, nil, nil)
	require.NoError(t, err)
	require.Len(t, conn.Edges, 1)
	node := conn.Edges[0].Node
	assert.Equal(t, contract.AccentedRow.IFSC, node.IFSC)

	b, err := node.Bank(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ÉCOLE BANK", b.Name)
}

func TestBranchService_CityContainsAcrossCase(t *testing.T) {
	svc := newSeededBranchService(t)
	city := "umba"

	conn, err := svc.PaginateBranches(context.Background(), &filter.BranchFilter{City: &city}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, conn.TotalCount)
	ifscs := []string{conn.Edges[0].Node.IFSC, conn.Edges[1].Node.IFSC}
	assert.Equal(t, []string{"ALPH0000001", "BETA0000001"}, ifscs)
}
