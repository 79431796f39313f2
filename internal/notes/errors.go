package notes

import (
	"errors"
	"net/http"
)

// Domain errors for note operations.
var (
	ErrNotFound    = errors.New("note not found")
	ErrDuplicate   = errors.New("note already exists")
	ErrInvalidNote = errors.New("invalid note")
	ErrUntitled    = errors.New("note title must not be empty")
)

// MapHTTPStatus maps note domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidNote), errors.Is(err, ErrUntitled):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
