package files

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/audit"
	"github.com/mkarlsen/casefile/pkg/pagination"
	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
	"github.com/mkarlsen/casefile/pkg/storage"
)

const fileColumns = `id, name, folder_id, content_type, size_bytes,
		storage_key, content, page_count, confidentiality_level, created_at, updated_at`

type repo struct {
	db         *sql.DB
	storage    storage.System
	audit      audit.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a file repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		audit:      recorder,
		logger:     logger.With("system", "files"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[File], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "ContentType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*File, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

// Create uploads the file's bytes to blob storage and registers the row.
// When the blob upload fails, small or text-typed files fall back to
// inline row storage; anything else surfaces the original storage error
// and no row is created.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*File, error) {
	key := buildStorageKey(cmd.FolderID, cmd.Name)

	uploadErr := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType)
	if uploadErr == nil {
		return r.insert(ctx, cmd, &key, nil)
	}

	if !fallsBackInline(cmd.ContentType, int64(len(cmd.Data))) {
		return nil, fmt.Errorf("upload file blob: %w", uploadErr)
	}

	// Inline fallback. The bytes are stored as-is; no UTF-8 validation is
	// performed for small non-text files, matching the documented upload
	// heuristic.
	r.logger.Warn(
		"blob upload failed, storing content inline",
		"name", cmd.Name,
		"size", len(cmd.Data),
		"error", uploadErr,
	)

	content := string(cmd.Data)
	return r.insert(ctx, cmd, nil, &content)
}

func (r *repo) insert(ctx context.Context, cmd CreateCommand, key, content *string) (*File, error) {
	q := fmt.Sprintf(`
		INSERT INTO files(name, folder_id, content_type, size_bytes, storage_key, content, page_count, confidentiality_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, fileColumns)

	args := []any{
		cmd.Name,
		cmd.FolderID,
		cmd.ContentType,
		int64(len(cmd.Data)),
		key,
		content,
		cmd.PageCount,
		cmd.Confidentiality,
	}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, q, args, scanFile)
	})

	if err != nil {
		if key != nil {
			if delErr := r.storage.Delete(ctx, *key); delErr != nil {
				r.logger.Warn("compensating blob delete failed", "key", *key, "error", delErr)
			}
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       cmd.Actor,
		Action:       "file.upload",
		ResourceType: "file",
		ResourceID:   f.ID,
		Details: map[string]any{
			"name":   f.Name,
			"inline": f.Inline(),
		},
	})

	r.logger.Info("file created", "id", f.ID, "name", f.Name, "inline", f.Inline())
	return &f, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	f, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM files WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if f.StorageKey != nil {
		if delErr := r.storage.Delete(ctx, *f.StorageKey); delErr != nil {
			r.logger.Warn(
				"blob delete failed after row delete",
				"key", *f.StorageKey,
				"error", delErr,
			)
		}
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "file.delete",
		ResourceType: "file",
		ResourceID:   id,
		Details:      map[string]any{"name": f.Name},
	})

	r.logger.Info("file deleted", "id", id)
	return nil
}

func (r *repo) Content(ctx context.Context, id uuid.UUID) (string, error) {
	f, err := r.Find(ctx, id)
	if err != nil {
		return "", err
	}

	if f.Content != nil {
		return *f.Content, nil
	}
	if f.StorageKey == nil {
		return "", fmt.Errorf("file %s has neither inline content nor a storage key: %w", id, ErrInvalidFile)
	}

	body, err := r.storage.Download(ctx, *f.StorageKey)
	if err != nil {
		return "", fmt.Errorf("download file content: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read file content: %w", err)
	}
	return string(data), nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	f, err := r.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if f.Content != nil {
		return io.NopCloser(strings.NewReader(*f.Content)), f.ContentType, nil
	}
	if f.StorageKey == nil {
		return nil, "", fmt.Errorf("file %s has neither inline content nor a storage key: %w", id, ErrInvalidFile)
	}

	body, err := r.storage.Download(ctx, *f.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("download file blob: %w", err)
	}
	return body, f.ContentType, nil
}

func (r *repo) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]File, error) {
	q := fmt.Sprintf("SELECT %s FROM files WHERE folder_id = $1", fileColumns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{folderID}, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query folder files: %w", err)
	}
	return items, nil
}

func (r *repo) DeleteByFolder(ctx context.Context, folderID uuid.UUID) error {
	if _, err := r.db.ExecContext(
		ctx,
		"DELETE FROM files WHERE folder_id = $1",
		folderID,
	); err != nil {
		return fmt.Errorf("delete folder files: %w", err)
	}
	return nil
}

// buildStorageKey derives a blob key from the folder and a
// timestamp-prefixed file name. Collision avoidance relies on the
// millisecond timestamp; uploads of the same name within the same
// millisecond collide (known edge case).
func buildStorageKey(folderID uuid.UUID, name string) string {
	return fmt.Sprintf("folders/%s/%d-%s", folderID, time.Now().UnixMilli(), sanitizeName(name))
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "file"
	}
	return url.PathEscape(name)
}

// fallsBackInline reports whether a failed blob upload may fall back to
// inline row storage: textual content types always may, anything else
// only under the size ceiling.
func fallsBackInline(contentType string, size int64) bool {
	if strings.Contains(strings.ToLower(contentType), "text") {
		return true
	}
	return size < InlineFallbackMaxBytes
}
