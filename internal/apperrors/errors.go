// Package apperrors defines the sentinel errors shared across services
// so the HTTP layer can map internal failures to status codes.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated covers missing, malformed, or expired tokens.
	// Expiry and tampering deliberately share one error so callers
	// cannot distinguish them.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials flattens unknown-identifier and
	// wrong-password login failures into a single signal to prevent
	// username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden means the caller is authenticated but lacks the
	// required role or membership.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers uniqueness violations and invalid state
	// transitions.
	ErrConflict = errors.New("conflict")

	// ErrValidation covers malformed or missing input.
	ErrValidation = errors.New("invalid input")
)

// HTTPStatus maps a service error to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
