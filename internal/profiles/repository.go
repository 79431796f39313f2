package profiles

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/audit"
	"github.com/mkarlsen/casefile/pkg/pagination"
	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

const profileColumns = "id, display_name, date_of_birth, context, created_at, updated_at"

type repo struct {
	db         *sql.DB
	audit      audit.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a profile repository implementing the System interface.
func New(
	db *sql.DB,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		audit:      recorder,
		logger:     logger.With("system", "profiles"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Profile], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DisplayName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Profile, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand, actor *uuid.UUID) (*Profile, error) {
	q := fmt.Sprintf(`
		INSERT INTO profiles(display_name, date_of_birth, context)
		VALUES ($1, $2, $3)
		RETURNING %s`, profileColumns)

	args := []any{cmd.DisplayName, cmd.DateOfBirth, cmd.Context}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Profile, error) {
		return repository.QueryOne(ctx, tx, q, args, scanProfile)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "profile.create",
		ResourceType: "profile",
		ResourceID:   p.ID,
		Details:      map[string]any{"display_name": p.DisplayName},
	})

	r.logger.Info("profile created", "id", p.ID, "display_name", p.DisplayName)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor *uuid.UUID) (*Profile, error) {
	q := fmt.Sprintf(`
		UPDATE profiles
		SET display_name = $1, date_of_birth = $2, context = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING %s`, profileColumns)

	args := []any{cmd.DisplayName, cmd.DateOfBirth, cmd.Context, id}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Profile, error) {
		return repository.QueryOne(ctx, tx, q, args, scanProfile)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "profile.update",
		ResourceType: "profile",
		ResourceID:   p.ID,
		Details:      map[string]any{"display_name": p.DisplayName},
	})

	r.logger.Info("profile updated", "id", p.ID, "display_name", p.DisplayName)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM profiles WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "profile.delete",
		ResourceType: "profile",
		ResourceID:   id,
	})

	r.logger.Info("profile deleted", "id", id)
	return nil
}
