package service

import (
	"context"
	"fmt"

	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/rs/zerolog"
)

type statsService struct {
	banks    repository.BankRepository
	branches repository.BranchRepository
	tx       repository.TxManager
	log      zerolog.Logger
}

func NewStatsService(banks repository.BankRepository, branches repository.BranchRepository, tx repository.TxManager, logger zerolog.Logger) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	return &statsService{banks: banks, branches: branches, tx: tx, log: l}
}

// Stats counts both tables in one snapshot.
func (s *statsService) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		var err error
		if out.Banks, err = s.banks.Count(ctx, nil); err != nil {
			return fmt.Errorf("count banks: %w", err)
		}
		if out.Branches, err = s.branches.Count(ctx, nil); err != nil {
			return fmt.Errorf("count branches: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("stats failed")
		return model.Stats{}, err
	}
	return out, nil
}
