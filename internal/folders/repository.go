package folders

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mkarlsen/casefile/internal/audit"
	"github.com/mkarlsen/casefile/internal/files"
	"github.com/mkarlsen/casefile/pkg/pagination"
	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
	"github.com/mkarlsen/casefile/pkg/storage"
)

// blobDeleteWorkers bounds concurrent blob deletions during a cascade.
const blobDeleteWorkers = 8

type repo struct {
	db         *sql.DB
	files      files.System
	storage    storage.System
	audit      audit.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a folder repository implementing the System interface.
func New(
	db *sql.DB,
	fls files.System,
	store storage.System,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		files:      fls,
		storage:    store,
		audit:      recorder,
		logger:     logger.With("system", "folders"),
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
) (*pagination.PageResult[Folder], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count folders: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanFolder)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Folder, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFolder)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand, actor *uuid.UUID) (*Folder, error) {
	q := `
		INSERT INTO folders(title, profile_id)
		VALUES ($1, $2)
		RETURNING id, title, profile_id, created_at, updated_at`

	args := []any{cmd.Title, cmd.ProfileID}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Folder, error) {
		return repository.QueryOne(ctx, tx, q, args, scanFolder)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "folder.create",
		ResourceType: "folder",
		ResourceID:   f.ID,
		Details:      map[string]any{"title": f.Title},
	})

	r.logger.Info("folder created", "id", f.ID, "title", f.Title)
	return &f, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor *uuid.UUID) (*Folder, error) {
	q := `
		UPDATE folders
		SET title = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, title, profile_id, created_at, updated_at`

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Folder, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Title, id}, scanFolder)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "folder.update",
		ResourceType: "folder",
		ResourceID:   f.ID,
		Details:      map[string]any{"title": f.Title},
	})

	r.logger.Info("folder updated", "id", f.ID, "title", f.Title)
	return &f, nil
}

// Delete cascades over the folder's contents in a fixed order:
//
//  1. Fetch the folder's file records; any fetch error aborts before any
//     state has changed (safe to retry).
//  2. Delete the backing storage blobs. Blob failures are logged and
//     ignored: an orphaned blob is preferred over a folder the user
//     cannot delete.
//  3. Bulk-delete the file rows. A failure here aborts with the folder
//     row intact, so no file row can ever point at a missing folder.
//  4. Delete the folder row. A failure here leaves an empty folder
//     behind (recoverable inconsistency, not retried from scratch).
func (r *repo) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	contents, err := r.files.ListByFolder(ctx, id)
	if err != nil {
		return fmt.Errorf("list folder files: %w", err)
	}

	r.deleteBlobs(ctx, contents)

	if err := r.files.DeleteByFolder(ctx, id); err != nil {
		return fmt.Errorf("delete folder files: %w", err)
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM folders WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "folder.delete",
		ResourceType: "folder",
		ResourceID:   id,
		Details:      map[string]any{"file_count": len(contents)},
	})

	r.logger.Info("folder deleted", "id", id, "file_count", len(contents))
	return nil
}

func (r *repo) deleteBlobs(ctx context.Context, contents []files.File) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(blobDeleteWorkers)

	for _, f := range contents {
		if f.StorageKey == nil || *f.StorageKey == "" {
			continue
		}
		key := *f.StorageKey
		g.Go(func() error {
			if err := r.storage.Delete(ctx, key); err != nil {
				r.logger.Warn("cascade blob delete failed", "key", key, "error", err)
			}
			return nil
		})
	}

	// workers never return errors; Wait only synchronizes
	g.Wait()
}
