package templates

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

const (
	templateColumns = "id, title, user_id, created_at, updated_at"
	sectionColumns  = "id, template_id, title, order_index, instructions"
)

type repo struct {
	db         *sql.DB
	audit      audit.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a template repository implementing the System interface.
func New(
	db *sql.DB,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		audit:      recorder,
		logger:     logger.With("system", "templates"),
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
) (*pagination.PageResult[Template], error) {
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
		return nil, fmt.Errorf("count templates: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTemplate)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Template, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

// Create inserts the template and any submitted sections in one
// transaction. Section order follows slice position.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Template, error) {
	q := fmt.Sprintf(`
		INSERT INTO templates(title, user_id)
		VALUES ($1, $2)
		RETURNING %s`, templateColumns)

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Template, error) {
		created, err := repository.QueryOne(ctx, tx, q, []any{cmd.Title, cmd.UserID}, scanTemplate)
		if err != nil {
			return Template{}, err
		}

		if err := insertSections(ctx, tx, created.ID, cmd.Sections); err != nil {
			return Template{}, err
		}

		return created, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       &t.UserID,
		Action:       "template.create",
		ResourceType: "template",
		ResourceID:   t.ID,
		Details:      map[string]any{"title": t.Title, "section_count": len(cmd.Sections)},
	})

	r.logger.Info("template created", "id", t.ID, "title", t.Title)
	return &t, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor *uuid.UUID) (*Template, error) {
	q := fmt.Sprintf(`
		UPDATE templates
		SET title = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s`, templateColumns)

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Template, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Title, id}, scanTemplate)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "template.update",
		ResourceType: "template",
		ResourceID:   t.ID,
		Details:      map[string]any{"title": t.Title},
	})

	r.logger.Info("template updated", "id", t.ID, "title", t.Title)
	return &t, nil
}

// Delete removes the template row. Sections go with it through the
// template_sections foreign key cascade.
func (r *repo) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM templates WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "template.delete",
		ResourceType: "template",
		ResourceID:   id,
	})

	r.logger.Info("template deleted", "id", id)
	return nil
}

func (r *repo) ListSections(ctx context.Context, templateID uuid.UUID) ([]Section, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM template_sections
		WHERE template_id = $1
		ORDER BY order_index`, sectionColumns)

	sections, err := repository.QueryMany(ctx, r.db, q, []any{templateID}, scanSection)
	if err != nil {
		return nil, fmt.Errorf("query template sections: %w", err)
	}
	return sections, nil
}

// ReplaceSections swaps the full section list of a template in one
// transaction. The template row is touched first so a missing template
// surfaces as ErrNotFound rather than an empty replace.
func (r *repo) ReplaceSections(
	ctx context.Context,
	templateID uuid.UUID,
	sections []SectionCommand,
	actor *uuid.UUID,
) ([]Section, error) {
	replaced, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Section, error) {
		err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE templates SET updated_at = NOW() WHERE id = $1",
			templateID,
		)
		if err != nil {
			return nil, err
		}

		_, err = tx.ExecContext(ctx,
			"DELETE FROM template_sections WHERE template_id = $1",
			templateID,
		)
		if err != nil {
			return nil, err
		}

		if err := insertSections(ctx, tx, templateID, sections); err != nil {
			return nil, err
		}

		q := fmt.Sprintf(`
			SELECT %s FROM template_sections
			WHERE template_id = $1
			ORDER BY order_index`, sectionColumns)

		return repository.QueryMany(ctx, tx, q, []any{templateID}, scanSection)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "template.sections.replace",
		ResourceType: "template",
		ResourceID:   templateID,
		Details:      map[string]any{"section_count": len(replaced)},
	})

	r.logger.Info("template sections replaced", "id", templateID, "count", len(replaced))
	return replaced, nil
}

func insertSections(ctx context.Context, tx *sql.Tx, templateID uuid.UUID, sections []SectionCommand) error {
	q := `
		INSERT INTO template_sections(template_id, title, order_index, instructions)
		VALUES ($1, $2, $3, $4)`

	for i, s := range sections {
		if _, err := tx.ExecContext(ctx, q, templateID, s.Title, i, s.Instructions); err != nil {
			return fmt.Errorf("insert section %d: %w", i, err)
		}
	}
	return nil
}
