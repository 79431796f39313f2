package folders

import (
	"errors"
	"net/http"
)

// Domain errors for folder operations.
var (
	ErrNotFound      = errors.New("folder not found")
	ErrDuplicate     = errors.New("folder already exists")
	ErrInvalidFolder = errors.New("invalid folder")
	ErrUntitled      = errors.New("folder title must not be empty")
)

// MapHTTPStatus maps folder domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidFolder), errors.Is(err, ErrUntitled):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
