// Package files implements the case file domain: stored documents that
// either reference a blob in object storage (StorageKey) or hold inline
// text (Content). Uploads fall back to inline storage for small or
// text-typed files when blob storage is unavailable.
package files

import (
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/confidential"
)

// InlineFallbackMaxBytes is the size ceiling for the inline-storage
// fallback: when a blob upload fails, files at or above this size are
// rejected unless their content type is textual.
const InlineFallbackMaxBytes = 100_000

// File represents a stored document within a folder. Exactly one of
// StorageKey and Content is populated: StorageKey references a blob in
// object storage, Content holds inline UTF-8 text written by the upload
// fallback.
type File struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	FolderID        uuid.UUID          `json:"folder_id"`
	ContentType     string             `json:"content_type"`
	SizeBytes       int64              `json:"size_bytes"`
	StorageKey      *string            `json:"storage_key"`
	Content         *string            `json:"content"`
	PageCount       *int               `json:"page_count"`
	Confidentiality confidential.Level `json:"confidentiality_level"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Inline reports whether the file's content is stored in the row rather
// than in object storage.
func (f *File) Inline() bool {
	return f.StorageKey == nil
}

// CreateCommand carries the data needed to upload and register a file.
// Actor identifies the uploading user for the audit trail.
type CreateCommand struct {
	Data            []byte
	Name            string
	ContentType     string
	FolderID        uuid.UUID
	Confidentiality confidential.Level
	PageCount       *int
	Actor           *uuid.UUID
}
