// Package filter compiles the optional filter inputs of connection queries
// into the normalized predicate list consumed by repositories.
package filter

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
)

// BranchFilter is the fixed-shape branch filter. A nil field imposes no constraint.
type BranchFilter struct {
	IFSC       *string `json:"ifsc" validate:"omitempty,max=32"`
	City       *string `json:"city" validate:"omitempty,max=128"`
	District   *string `json:"district" validate:"omitempty,max=128"`
	State      *string `json:"state" validate:"omitempty,max=128"`
	BankName   *string `json:"bankName" validate:"omitempty,max=128"`
	BranchName *string `json:"branchName" validate:"omitempty,max=128"`
}

// BankFilter narrows bank listings by name.
type BankFilter struct {
	Name *string `json:"name" validate:"omitempty,max=128"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report the input names clients actually send
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// CompileBranches validates f and returns its predicates in a fixed field order.
// A validation failure is returned as validator.ValidationErrors.
func CompileBranches(f *BranchFilter) ([]repository.Predicate, error) {
	if f == nil {
		return nil, nil
	}
	if err := validate.Struct(f); err != nil {
		return nil, err
	}
	var preds []repository.Predicate
	preds = appendPredicate(preds, repository.FieldIFSC, repository.MatchExact, f.IFSC)
	preds = appendPredicate(preds, repository.FieldCity, repository.MatchContains, f.City)
	preds = appendPredicate(preds, repository.FieldDistrict, repository.MatchContains, f.District)
	preds = appendPredicate(preds, repository.FieldState, repository.MatchContains, f.State)
	preds = appendPredicate(preds, repository.FieldBankName, repository.MatchContains, f.BankName)
	preds = appendPredicate(preds, repository.FieldBranchName, repository.MatchContains, f.BranchName)
	return preds, nil
}

// CompileBanks validates f and returns its predicates.
func CompileBanks(f *BankFilter) ([]repository.Predicate, error) {
	if f == nil {
		return nil, nil
	}
	if err := validate.Struct(f); err != nil {
		return nil, err
	}
	return appendPredicate(nil, repository.FieldBankName, repository.MatchContains, f.Name), nil
}

// Empty and blank values mean "no constraint"; they never match empty columns.
func appendPredicate(preds []repository.Predicate, field repository.Field, match repository.MatchKind, value *string) []repository.Predicate {
	if value == nil {
		return preds
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return preds
	}
	return append(preds, repository.Predicate{Field: field, Match: match, Value: v})
}
