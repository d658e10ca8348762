package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	store := alphaStore()
	tx := &fakeTx{}
	svc := NewStatsService(fakeBankRepo{store}, fakeBranchRepo{store}, tx, zerolog.Nop())

	got, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Banks: 3, Branches: 5}, got)
	assert.Equal(t, 1, tx.calls)

	store.err = repository.Unavailable(errors.New("down"))
	_, err = svc.Stats(context.Background())
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
}
