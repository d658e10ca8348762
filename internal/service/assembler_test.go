package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankLoader_DanglingReference(t *testing.T) {
	store := alphaStore()
	a := NewAssembler(fakeBankRepo{store})
	ctx := WithRequestCache(context.Background())

	nodes := a.Branches(ctx, []model.Branch{
		{IFSC: "ORPH0000001", BankID: 99},
		{IFSC: "NULL0000001", BankID: 0},
		{IFSC: "ALPH0000001", BankID: 1},
	})

	_, err := nodes[0].Bank(ctx)
	require.ErrorIs(t, err, ErrDataIntegrity)
	assert.Contains(t, err.Error(), "ORPH0000001")
	assert.Contains(t, err.Error(), "99")

	_, err = nodes[1].Bank(ctx)
	require.ErrorIs(t, err, ErrDataIntegrity)

	bank, err := nodes[2].Bank(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", bank.Name)
	assert.Len(t, store.getByIDsCalls, 1, "missing ids are remembered too")
}

func TestBankLoader_Idempotent(t *testing.T) {
	store := alphaStore()
	a := NewAssembler(fakeBankRepo{store})
	ctx := WithRequestCache(context.Background())
	node := a.Branch(ctx, model.Branch{IFSC: "BETA0000001", BankID: 2})

	first, err := node.Bank(ctx)
	require.NoError(t, err)

	// a rename after the first resolution must not leak into the same request
	store.banks[1].Name = "Beta Renamed"
	second, err := node.Bank(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, store.getByIDsCalls, 1)
}

func TestBankLoader_SharedAcrossPagesOfOneRequest(t *testing.T) {
	store := alphaStore()
	a := NewAssembler(fakeBankRepo{store})
	ctx := WithRequestCache(context.Background())

	p1 := a.Branches(ctx, []model.Branch{{IFSC: "A", BankID: 1}})
	p2 := a.Branches(ctx, []model.Branch{{IFSC: "B", BankID: 1}})
	_, err := p1[0].Bank(ctx)
	require.NoError(t, err)
	_, err = p2[0].Bank(ctx)
	require.NoError(t, err)
	assert.Len(t, store.getByIDsCalls, 1)

	// without a request cache every assembly gets its own loader
	plain := context.Background()
	q1 := a.Branches(plain, []model.Branch{{IFSC: "A", BankID: 1}})
	q2 := a.Branches(plain, []model.Branch{{IFSC: "B", BankID: 1}})
	_, _ = q1[0].Bank(plain)
	_, _ = q2[0].Bank(plain)
	assert.Len(t, store.getByIDsCalls, 3)
}

func TestBankLoader_StorageErrorIsRetryable(t *testing.T) {
	store := alphaStore()
	store.err = repository.Unavailable(errors.New("timeout"))
	a := NewAssembler(fakeBankRepo{store})
	ctx := WithRequestCache(context.Background())
	node := a.Branch(ctx, model.Branch{IFSC: "ALPH0000001", BankID: 1})

	_, err := node.Bank(ctx)
	require.ErrorIs(t, err, repository.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, ErrDataIntegrity)

	store.err = nil
	bank, err := node.Bank(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bank.ID)
}

func TestBankLoader_ConcurrentResolvers(t *testing.T) {
	store := alphaStore()
	a := NewAssembler(fakeBankRepo{store})
	ctx := WithRequestCache(context.Background())
	nodes := a.Branches(ctx, store.branches)

	var wg sync.WaitGroup
	errs := make([]error, len(nodes))
	for i := range nodes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := nodes[i].Bank(ctx)
			if err == nil && b.ID != nodes[i].BankID {
				err = errors.New("wrong bank")
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, store.getByIDsCalls, 1)
}
