package files

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/pagination"
)

// System defines the public contract for file domain operations.
// ListByFolder and DeleteByFolder exist for the folder cascade-delete
// workflow, which removes a folder's files child-first.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[File], error)

	Find(ctx context.Context, id uuid.UUID) (*File, error)
	Create(ctx context.Context, cmd CreateCommand) (*File, error)
	Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error

	// Content returns the file's text: inline content when present,
	// otherwise the blob is downloaded and decoded as UTF-8.
	Content(ctx context.Context, id uuid.UUID) (string, error)
	// Download streams the file's bytes with its content type.
	Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error)

	ListByFolder(ctx context.Context, folderID uuid.UUID) ([]File, error)
	DeleteByFolder(ctx context.Context, folderID uuid.UUID) error
}
