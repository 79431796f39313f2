package profiles

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/pagination"
)

// System defines the public contract for profile domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Profile], error)

	Find(ctx context.Context, id uuid.UUID) (*Profile, error)
	Create(ctx context.Context, cmd CreateCommand, actor *uuid.UUID) (*Profile, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor *uuid.UUID) (*Profile, error)
	Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error
}
