package templates

import (
	"errors"
	"net/http"
)

// Domain errors for template operations.
var (
	ErrNotFound        = errors.New("template not found")
	ErrDuplicate       = errors.New("template already exists")
	ErrInvalidTemplate = errors.New("invalid template")
	ErrUntitled        = errors.New("template title must not be empty")
	ErrInvalidSection  = errors.New("section title must not be empty")
)

// MapHTTPStatus maps template domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidTemplate),
		errors.Is(err, ErrUntitled),
		errors.Is(err, ErrInvalidSection):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
