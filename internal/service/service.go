// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/bank-branches-graphql/internal/filter"
	"github.com/maxviazov/bank-branches-graphql/internal/model"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrDataIntegrity reports stored data that breaks a relationship, such as a
// branch whose bank does not exist. It is a server-side failure.
var ErrDataIntegrity = errors.New("data integrity violation")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// BranchService defines branch-oriented use cases.
type BranchService interface {
	PaginateBranches(ctx context.Context, f *filter.BranchFilter, first *int, after *string) (pagination.Connection[BranchNode], error)
	GetBranch(ctx context.Context, ifsc string) (BranchNode, error)
}

// BankService defines bank-oriented use cases. A nil filter lists every bank.
type BankService interface {
	PaginateBanks(ctx context.Context, f *filter.BankFilter, first *int, after *string) (pagination.Connection[BankNode], error)
	GetBank(ctx context.Context, id int64) (BankNode, error)
}

// StatsService reports dataset totals.
type StatsService interface {
	Stats(ctx context.Context) (model.Stats, error)
}
