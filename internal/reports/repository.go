package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/audit"
	"github.com/mkarlsen/casefile/pkg/pagination"
	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

const reportColumns = "id, title, report_type, period_start, period_end, content, confidentiality_level, created_at, updated_at"

type repo struct {
	db         *sql.DB
	audit      audit.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a report repository implementing the System interface.
func New(
	db *sql.DB,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		audit:      recorder,
		logger:     logger.With("system", "reports"),
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
) (*pagination.PageResult[Report], error) {
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
		return nil, fmt.Errorf("count reports: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReport)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Report, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rep, err := repository.QueryOne(ctx, r.db, q, args, scanReport)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rep, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand, actor *uuid.UUID) (*Report, error) {
	content, err := json.Marshal(cmd.Content)
	if err != nil {
		return nil, fmt.Errorf("marshal report content: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO reports(title, report_type, period_start, period_end, content, confidentiality_level)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, reportColumns)

	args := []any{cmd.Title, cmd.ReportType, cmd.PeriodStart, cmd.PeriodEnd, content, cmd.Confidentiality}

	rep, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Report, error) {
		return repository.QueryOne(ctx, tx, q, args, scanReport)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "report.create",
		ResourceType: "report",
		ResourceID:   rep.ID,
		Details:      map[string]any{"title": rep.Title, "report_type": rep.ReportType},
	})

	r.logger.Info("report created", "id", rep.ID, "title", rep.Title, "type", rep.ReportType)
	return &rep, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor *uuid.UUID) (*Report, error) {
	content, err := json.Marshal(cmd.Content)
	if err != nil {
		return nil, fmt.Errorf("marshal report content: %w", err)
	}

	q := fmt.Sprintf(`
		UPDATE reports
		SET title = $1, period_start = $2, period_end = $3, content = $4,
			confidentiality_level = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING %s`, reportColumns)

	args := []any{cmd.Title, cmd.PeriodStart, cmd.PeriodEnd, content, cmd.Confidentiality, id}

	rep, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Report, error) {
		return repository.QueryOne(ctx, tx, q, args, scanReport)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "report.update",
		ResourceType: "report",
		ResourceID:   rep.ID,
		Details:      map[string]any{"title": rep.Title},
	})

	r.logger.Info("report updated", "id", rep.ID, "title", rep.Title)
	return &rep, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM reports WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(audit.Entry{
		UserID:       actor,
		Action:       "report.delete",
		ResourceType: "report",
		ResourceID:   id,
	})

	r.logger.Info("report deleted", "id", id)
	return nil
}
