// Package notes implements the note domain: authored or generated
// synthesis documents owned by a user, independent of folders and files.
package notes

import (
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/confidential"
)

// Note represents a synthesis document.
type Note struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	Title           string             `json:"title"`
	Content         string             `json:"content"`
	Confidentiality confidential.Level `json:"confidentiality_level"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CreateCommand carries the data needed to create a note.
type CreateCommand struct {
	UserID          uuid.UUID          `json:"user_id"`
	Title           string             `json:"title"`
	Content         string             `json:"content"`
	Confidentiality confidential.Level `json:"confidentiality_level"`
}

// UpdateCommand carries the data needed to update a note.
type UpdateCommand struct {
	Title           string             `json:"title"`
	Content         string             `json:"content"`
	Confidentiality confidential.Level `json:"confidentiality_level"`
}
