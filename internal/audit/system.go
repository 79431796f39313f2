package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/pagination"
)

// System defines the public contract for the audit trail: the non-blocking
// recorder plus read access for reviewing the trail.
type System interface {
	Recorder

	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Log], error)

	Find(ctx context.Context, id uuid.UUID) (*Log, error)
}
