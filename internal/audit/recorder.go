package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/pagination"
	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

// recordTimeout bounds the detached insert so a slow store cannot pile up
// goroutines indefinitely.
const recordTimeout = 10 * time.Second

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the audit system over the given database connection.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "audit"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Record dispatches the insert on a detached goroutine. The entry's error
// channel is deliberately disconnected from the caller: a dropped audit
// row is logged and lost, never retried, and never blocks or fails the
// primary mutation.
func (r *repo) Record(entry Entry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := r.insert(ctx, entry); err != nil {
			r.logger.Warn(
				"audit record dropped",
				"action", entry.Action,
				"resource_type", entry.ResourceType,
				"resource_id", entry.ResourceID,
				"error", err,
			)
		}
	}()
}

func (r *repo) insert(ctx context.Context, entry Entry) error {
	var details any
	if entry.Details != nil {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		details = data
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO audit_logs(user_id, action, resource_type, resource_id, details)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID, details,
	)
	return err
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Log], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Action", "ResourceType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit logs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	logs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanLog)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}

	result := pagination.NewPageResult(logs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Log, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	l, err := repository.QueryOne(ctx, r.db, q, args, scanLog)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &l, nil
}
