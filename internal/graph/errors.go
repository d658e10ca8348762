package graph

import (
	"context"
	"net/http"

	"github.com/maxviazov/bank-branches-graphql/pkg/response"
	"github.com/rs/zerolog"
)

// Error is a resolver error carrying a machine-readable code. graphql-go
// copies Extensions into the "extensions" member of the response error.
type Error struct {
	err     error
	status  int
	payload response.ErrorPayload
}

func (e *Error) Error() string {
	if e.status >= http.StatusInternalServerError {
		// keep server internals out of responses
		if e.payload.Message != "" {
			return e.payload.Message
		}
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the extensions code, e.g. INVALID_CURSOR.
func (e *Error) Code() string { return e.payload.Code() }

func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.payload.Code()}
	if len(e.payload.FieldErrors) > 0 {
		ext["fieldErrors"] = e.payload.FieldErrors
	}
	return ext
}

// resolverError classifies err. Client errors are logged at debug only;
// everything else goes to the request logger at error.
func resolverError(ctx context.Context, err error) error {
	status, payload := response.MapError(err)
	logger := zerolog.Ctx(ctx)
	if response.IsClientError(err) {
		logger.Debug().Err(err).Str("code", payload.Code()).Msg("graphql field rejected")
	} else {
		logger.Error().Err(err).Str("code", payload.Code()).Msg("graphql field failed")
	}
	return &Error{err: err, status: status, payload: payload}
}
