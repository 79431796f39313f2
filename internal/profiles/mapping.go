package profiles

import (
	"net/url"

	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "profiles", "p").
	Project("id", "ID").
	Project("display_name", "DisplayName").
	Project("date_of_birth", "DateOfBirth").
	Project("context", "Context").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "DisplayName"}

// Filters contains optional filtering criteria for profile queries.
type Filters struct {
	DisplayName *string `json:"display_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereContains("DisplayName", f.DisplayName)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("display_name"); v != "" {
		f.DisplayName = &v
	}

	return f
}

func scanProfile(s repository.Scanner) (Profile, error) {
	var p Profile
	err := s.Scan(
		&p.ID,
		&p.DisplayName,
		&p.DateOfBirth,
		&p.Context,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
