package reports

import (
	"errors"
	"net/http"
)

// Domain errors for report operations.
var (
	ErrNotFound      = errors.New("report not found")
	ErrDuplicate     = errors.New("report already exists")
	ErrInvalidReport = errors.New("invalid report")
	ErrUntitled      = errors.New("report title must not be empty")
	ErrInvalidPeriod = errors.New("report period end precedes period start")
)

// MapHTTPStatus maps report domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidReport),
		errors.Is(err, ErrUntitled),
		errors.Is(err, ErrInvalidPeriod):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
