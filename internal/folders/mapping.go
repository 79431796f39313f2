package folders

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "folders", "fo").
	Project("id", "ID").
	Project("title", "Title").
	Project("profile_id", "ProfileID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters contains optional filtering criteria for folder queries.
// Nil fields are ignored. Title uses case-insensitive contains matching.
type Filters struct {
	ProfileID *uuid.UUID `json:"profile_id,omitempty"`
	Title     *string    `json:"title,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ProfileID", f.ProfileID).
		WhereContains("Title", f.Title)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("profile_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.ProfileID = &id
		}
	}
	if v := values.Get("title"); v != "" {
		f.Title = &v
	}

	return f
}

func scanFolder(s repository.Scanner) (Folder, error) {
	var f Folder
	err := s.Scan(
		&f.ID,
		&f.Title,
		&f.ProfileID,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}
