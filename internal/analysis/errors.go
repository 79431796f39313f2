package analysis

import (
	"errors"
	"net/http"
)

// Domain errors for analysis operations.
var (
	ErrInvalidCommand = errors.New("invalid analysis command")
	ErrMissingSource  = errors.New("at least one folder or file must be selected")
)

// MapHTTPStatus maps analysis errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingSource):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidCommand):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
