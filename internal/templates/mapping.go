package templates

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "templates", "t").
	Project("id", "ID").
	Project("title", "Title").
	Project("user_id", "UserID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Title"}

// Filters contains optional filtering criteria for template queries.
type Filters struct {
	UserID *uuid.UUID `json:"user_id,omitempty"`
	Title  *string    `json:"title,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UserID", f.UserID).
		WhereContains("Title", f.Title)
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

	return f
}

func scanTemplate(s repository.Scanner) (Template, error) {
	var t Template
	err := s.Scan(
		&t.ID,
		&t.Title,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func scanSection(s repository.Scanner) (Section, error) {
	var sec Section
	err := s.Scan(
		&sec.ID,
		&sec.TemplateID,
		&sec.Title,
		&sec.OrderIndex,
		&sec.Instructions,
	)
	return sec, err
}
