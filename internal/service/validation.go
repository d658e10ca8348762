package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
)

// filterError converts filter validation failures into ErrInvalidInput with
// one FieldError per offending field. Other errors pass through.
func filterError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ferrs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		ferrs = append(ferrs, FieldError{Field: "filter." + fe.Field(), Message: ruleMessage(fe)})
	}
	return newInvalidInput(ferrs)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// checkArgs validates connection arguments without touching storage.
func checkArgs(first *int, after *string, limits pagination.Limits) (pagination.Args, error) {
	args := pagination.Args{First: first, After: after}
	if err := pagination.CheckArgs(args, limits); err != nil {
		return args, err
	}
	return args, nil
}

// normalizeIFSC trims and upper-cases an IFSC; stored codes are upper case.
func normalizeIFSC(ifsc string) string {
	return strings.ToUpper(strings.TrimSpace(ifsc))
}
