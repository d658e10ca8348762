package service

import (
	"context"
	"errors"

	"github.com/maxviazov/bank-branches-graphql/internal/filter"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/rs/zerolog"
)

type bankService struct {
	repo     repository.BankRepository
	tx       repository.TxManager
	assemble *Assembler
	limits   pagination.Limits
	log      zerolog.Logger
}

func NewBankService(repo repository.BankRepository, tx repository.TxManager, assembler *Assembler, limits pagination.Limits, logger zerolog.Logger) BankService {
	l := logger.With().Str("module", "service").Str("component", "bank").Logger()
	return &bankService{repo: repo, tx: tx, assemble: assembler, limits: limits, log: l}
}

func (s *bankService) PaginateBanks(ctx context.Context, f *filter.BankFilter, first *int, after *string) (pagination.Connection[BankNode], error) {
	preds, err := filter.CompileBanks(f)
	if err != nil {
		err = filterError(err)
		s.log.Debug().Err(err).Interface("field_errors", FieldErrors(err)).Msg("bank filter rejected")
		return pagination.Connection[BankNode]{}, err
	}
	args, err := checkArgs(first, after, s.limits)
	if err != nil {
		s.log.Debug().Err(err).Msg("bank connection arguments rejected")
		return pagination.Connection[BankNode]{}, err
	}

	conn, err := paginateInTx(ctx, s.tx, repoSource(preds, s.repo.Count, s.repo.List), args, s.limits)
	if err != nil {
		s.log.Error().Err(err).Msg("paginate banks failed")
		return pagination.Connection[BankNode]{}, err
	}
	return mapConnection(conn, s.assemble.Banks), nil
}

func (s *bankService) GetBank(ctx context.Context, id int64) (BankNode, error) {
	if id <= 0 {
		return BankNode{}, newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Int64("bank_id", id).Msg("get bank failed")
		}
		return BankNode{}, err
	}
	return BankNode{Bank: b}, nil
}
