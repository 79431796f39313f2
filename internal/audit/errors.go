package audit

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates the requested audit log entry does not exist.
var ErrNotFound = errors.New("audit log entry not found")

// MapHTTPStatus maps audit domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
