package templates

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/pagination"
)

// System defines the public contract for template domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Template], error)

	Find(ctx context.Context, id uuid.UUID) (*Template, error)
	Create(ctx context.Context, cmd CreateCommand) (*Template, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor *uuid.UUID) (*Template, error)
	Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error

	ListSections(ctx context.Context, templateID uuid.UUID) ([]Section, error)
	ReplaceSections(
		ctx context.Context,
		templateID uuid.UUID,
		sections []SectionCommand,
		actor *uuid.UUID,
	) ([]Section, error)
}
