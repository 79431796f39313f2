package notes

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/pagination"
)

// System defines the public contract for note domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Note], error)

	Find(ctx context.Context, id uuid.UUID) (*Note, error)
	Create(ctx context.Context, cmd CreateCommand) (*Note, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor *uuid.UUID) (*Note, error)
	Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error
}
