// Package folders implements the document folder domain: named containers
// of case files scoped to one young-person profile. Folder deletion owns
// the cascade over its files and their storage blobs; there is no
// database-level cascade from folders to files.
package folders

import (
	"time"

	"github.com/google/uuid"
)

// Folder represents a named container of files owned by a profile.
type Folder struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ProfileID uuid.UUID `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to create a folder.
type CreateCommand struct {
	Title     string    `json:"title"`
	ProfileID uuid.UUID `json:"profile_id"`
}

// UpdateCommand carries the data needed to rename a folder.
type UpdateCommand struct {
	Title string `json:"title"`
}
