package folders

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/pagination"
)

// System defines the public contract for folder domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Folder], error)

	Find(ctx context.Context, id uuid.UUID) (*Folder, error)
	Create(ctx context.Context, cmd CreateCommand, actor *uuid.UUID) (*Folder, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor *uuid.UUID) (*Folder, error)

	// Delete removes the folder and everything it contains: storage blobs
	// (best-effort), then file rows, then the folder row. See the
	// repository implementation for the exact failure semantics.
	Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error
}
