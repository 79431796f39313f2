package notes

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/confidential"
	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "notes", "n").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("title", "Title").
	Project("content", "Content").
	Project("confidentiality_level", "Confidentiality").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "UpdatedAt", Descending: true}

// Filters contains optional filtering criteria for note queries.
type Filters struct {
	UserID          *uuid.UUID          `json:"user_id,omitempty"`
	Title           *string             `json:"title,omitempty"`
	Confidentiality *confidential.Level `json:"confidentiality_level,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UserID", f.UserID).
		WhereContains("Title", f.Title).
		WhereEquals("Confidentiality", f.Confidentiality)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.UserID = &id
		}
	}
	if v := values.Get("title"); v != "" {
		f.Title = &v
	}
	if v := values.Get("confidentiality_level"); v != "" {
		if level, err := confidential.Parse(v); err == nil {
			f.Confidentiality = &level
		}
	}

	return f
}

func scanNote(s repository.Scanner) (Note, error) {
	var n Note
	err := s.Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Content,
		&n.Confidentiality,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}
