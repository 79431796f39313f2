package files

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/confidential"
	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "files", "f").
	Project("id", "ID").
	Project("name", "Name").
	Project("folder_id", "FolderID").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("storage_key", "StorageKey").
	Project("content", "Content").
	Project("page_count", "PageCount").
	Project("confidentiality_level", "Confidentiality").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters contains optional filtering criteria for file queries. Nil
// fields are ignored. Name uses case-insensitive contains matching.
type Filters struct {
	FolderID        *uuid.UUID          `json:"folder_id,omitempty"`
	Name            *string             `json:"name,omitempty"`
	ContentType     *string             `json:"content_type,omitempty"`
	Confidentiality *confidential.Level `json:"confidentiality_level,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("FolderID", f.FolderID).
		WhereContains("Name", f.Name).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("Confidentiality", f.Confidentiality)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("folder_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.FolderID = &id
		}
	}
	if v := values.Get("name"); v != "" {
		f.Name = &v
	}
	if v := values.Get("content_type"); v != "" {
		f.ContentType = &v
	}
	if v := values.Get("confidentiality_level"); v != "" {
		if level, err := confidential.Parse(v); err == nil {
			f.Confidentiality = &level
		}
	}

	return f
}

func scanFile(s repository.Scanner) (File, error) {
	var f File
	err := s.Scan(
		&f.ID,
		&f.Name,
		&f.FolderID,
		&f.ContentType,
		&f.SizeBytes,
		&f.StorageKey,
		&f.Content,
		&f.PageCount,
		&f.Confidentiality,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}
