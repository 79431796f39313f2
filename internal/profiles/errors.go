package profiles

import (
	"errors"
	"net/http"
)

// Domain errors for profile operations.
var (
	ErrNotFound       = errors.New("profile not found")
	ErrDuplicate      = errors.New("profile already exists")
	ErrInvalidProfile = errors.New("invalid profile")
	ErrUnnamed        = errors.New("profile display name must not be empty")
)

// MapHTTPStatus maps profile domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidProfile), errors.Is(err, ErrUnnamed):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
