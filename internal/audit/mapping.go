package audit

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audit_logs", "a").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("action", "Action").
	Project("resource_type", "ResourceType").
	Project("resource_id", "ResourceID").
	Project("details", "Details").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters contains optional filtering criteria for audit log queries.
// Nil fields are ignored.
type Filters struct {
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	Action       *string    `json:"action,omitempty"`
	ResourceType *string    `json:"resource_type,omitempty"`
	ResourceID   *uuid.UUID `json:"resource_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UserID", f.UserID).
		WhereEquals("Action", f.Action).
		WhereEquals("ResourceType", f.ResourceType).
		WhereEquals("ResourceID", f.ResourceID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.UserID = &id
		}
	}
	if v := values.Get("action"); v != "" {
		f.Action = &v
	}
	if v := values.Get("resource_type"); v != "" {
		f.ResourceType = &v
	}
	if v := values.Get("resource_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.ResourceID = &id
		}
	}

	return f
}

func scanLog(s repository.Scanner) (Log, error) {
	var (
		l       Log
		details []byte
	)

	err := s.Scan(
		&l.ID,
		&l.UserID,
		&l.Action,
		&l.ResourceType,
		&l.ResourceID,
		&details,
		&l.CreatedAt,
	)
	if err != nil {
		return l, err
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &l.Details); err != nil {
			return l, err
		}
	}
	return l, nil
}
