package notes

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

const noteColumns = "id, user_id, title, content, confidentiality_level, created_at, updated_at"

type repo struct {
	db         *sql.DB
	audit      audit.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a note repository implementing the System interface.
func New(
	db *sql.DB,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		audit:      recorder,
		logger:     logger.With("system", "notes"),
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
) (*pagination.PageResult[Note], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Content")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanNote)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Note, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	n, err := repository.QueryOne(ctx, r.db, q, args, scanNote)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &n, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Note, error) {
	q := fmt.Sprintf(`
		INSERT INTO notes(user_id, title, content, confidentiality_level)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, noteColumns)

	args := []any{cmd.UserID, cmd.Title, cmd.Content, cmd.Confidentiality}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Note, error) {
		return repository.QueryOne(ctx, tx, q, args, scanNote)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       &n.UserID,
		Action:       "note.create",
		ResourceType: "note",
		ResourceID:   n.ID,
		Details:      map[string]any{"title": n.Title},
	})

	r.logger.Info("note created", "id", n.ID, "title", n.Title)
	return &n, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor *uuid.UUID) (*Note, error) {
	q := fmt.Sprintf(`
		UPDATE notes
		SET title = $1, content = $2, confidentiality_level = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING %s`, noteColumns)

	args := []any{cmd.Title, cmd.Content, cmd.Confidentiality, id}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Note, error) {
		return repository.QueryOne(ctx, tx, q, args, scanNote)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "note.update",
		ResourceType: "note",
		ResourceID:   n.ID,
		Details:      map[string]any{"title": n.Title},
	})

	r.logger.Info("note updated", "id", n.ID, "title", n.Title)
	return &n, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM notes WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "note.delete",
		ResourceType: "note",
		ResourceID:   id,
	})

	r.logger.Info("note deleted", "id", id)
	return nil
}
