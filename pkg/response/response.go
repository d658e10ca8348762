// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform, and the GraphQL
// layer reuses MapError so both surfaces classify errors the same way.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/bank-branches-graphql/internal/pagination"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/maxviazov/bank-branches-graphql/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// Code is the machine-readable code of the payload, as used in GraphQL error extensions.
func (p ErrorPayload) Code() string { return strings.ToUpper(p.Error) }

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	switch {
	case errors.Is(err, pagination.ErrInvalidCursor):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_cursor", Message: "cursor is malformed or was not issued by this service"}
	case errors.Is(err, pagination.ErrInvalidPageSize):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_page_size", Message: "first must be a positive integer"}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, service.ErrDataIntegrity):
		return http.StatusInternalServerError, ErrorPayload{Error: "data_integrity", Message: "stored data is inconsistent"}
	case errors.Is(err, repository.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, ErrorPayload{Error: "storage_unavailable", Message: "storage is temporarily unavailable, retry later"}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// IsClientError reports whether err is caused by the request rather than the server.
func IsClientError(err error) bool {
	status, _ := MapError(err)
	return status >= 400 && status < 500
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
