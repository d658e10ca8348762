package service

import (
	"context"
	"errors"
	"time"

	"github.com/maxviazov/bank-branches-graphql/internal/filter"
	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/rs/zerolog"
)

// branchService holds branch use-case logic: validation + orchestration, no transport / SQL details.
type branchService struct {
	repo     repository.BranchRepository
	tx       repository.TxManager
	assemble *Assembler
	limits   pagination.Limits
	log      zerolog.Logger
}

func NewBranchService(repo repository.BranchRepository, tx repository.TxManager, assembler *Assembler, limits pagination.Limits, logger zerolog.Logger) BranchService {
	l := logger.With().Str("module", "service").Str("component", "branch").Logger()
	return &branchService{repo: repo, tx: tx, assemble: assembler, limits: limits, log: l}
}

func (s *branchService) PaginateBranches(ctx context.Context, f *filter.BranchFilter, first *int, after *string) (pagination.Connection[BranchNode], error) {
	start := time.Now()
	preds, err := filter.CompileBranches(f)
	if err != nil {
		err = filterError(err)
		s.log.Debug().Err(err).Interface("field_errors", FieldErrors(err)).Msg("branch filter rejected")
		return pagination.Connection[BranchNode]{}, err
	}
	args, err := checkArgs(first, after, s.limits)
	if err != nil {
		s.log.Debug().Err(err).Msg("branch connection arguments rejected")
		return pagination.Connection[BranchNode]{}, err
	}

	conn, err := paginateInTx(ctx, s.tx, repoSource(preds, s.repo.Count, s.repo.List), args, s.limits)
	if err != nil {
		s.log.Error().Err(err).Int("predicates", len(preds)).Msg("paginate branches failed")
		return pagination.Connection[BranchNode]{}, err
	}
	s.log.Debug().Dur("took", time.Since(start)).Int("edges", len(conn.Edges)).Int("total", conn.TotalCount).Msg("branches page")

	return mapConnection(conn, func(rows []model.Branch) []BranchNode {
		return s.assemble.Branches(ctx, rows)
	}), nil
}

func (s *branchService) GetBranch(ctx context.Context, ifsc string) (BranchNode, error) {
	code := normalizeIFSC(ifsc)
	if code == "" {
		return BranchNode{}, newInvalidInput([]FieldError{{Field: "ifsc", Message: "must not be empty"}})
	}
	row, err := s.repo.GetByIFSC(ctx, code)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("ifsc", code).Msg("get branch failed")
		}
		return BranchNode{}, err
	}
	return s.assemble.Branch(ctx, row), nil
}
