package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// ActorHeader conveys the acting user's id. Authentication is out of
// scope for this service; the header is trusted as-is.
const ActorHeader = "X-Actor-ID"

// Actor extracts the acting user's id from the request header, returning
// nil when absent or malformed.
func Actor(r *http.Request) *uuid.UUID {
	v := r.Header.Get(ActorHeader)
	if v == "" {
		return nil
	}

	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}
