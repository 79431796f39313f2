package generation

import (
	"errors"
	"net/http"
)

// Domain errors for generation sessions.
var (
	ErrSessionNotFound    = errors.New("generation session not found")
	ErrInvalidSession     = errors.New("invalid generation session")
	ErrInvalidTransition  = errors.New("invalid session state transition")
	ErrGenerationInFlight = errors.New("generation already in progress")
	ErrSaveInFlight       = errors.New("save already in progress")
	ErrMissingTemplate    = errors.New("a template must be selected")
	ErrMissingSource      = errors.New("at least one folder or file must be selected")
	ErrEmptySelection     = errors.New("select a template or at least one source")
	ErrUntitled           = errors.New("title must not be empty")
)

// MapHTTPStatus maps generation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrGenerationInFlight),
		errors.Is(err, ErrSaveInFlight):
		return http.StatusConflict
	case errors.Is(err, ErrMissingTemplate),
		errors.Is(err, ErrMissingSource),
		errors.Is(err, ErrEmptySelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidSession), errors.Is(err, ErrUntitled):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
