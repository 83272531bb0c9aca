package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/gradebook/internal/domain"
)

// MapErrorToStatusCode maps registry errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError
	var authErr *domain.AuthError
	var notFoundErr *domain.NotFoundError

	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a message that can be shown to clients.
// Registry errors carry caller-facing messages already; anything else is
// replaced with a generic message so internal details never leak.
func GetSafeErrorMessage(err error) string {
	var validationErr *domain.ValidationError
	var authErr *domain.AuthError
	var notFoundErr *domain.NotFoundError

	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &notFoundErr):
		return notFoundErr.Message
	default:
		return "An unexpected error occurred"
	}
}
