package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/files"
	"github.com/mkarlsen/casefile/internal/profiles"
)

// System defines the public contract for analysis operations.
type System interface {
	Handler() *Handler
	Analyze(ctx context.Context, cmd Command) (*Result, error)
}

type service struct {
	analyzer Analyzer
	files    files.System
	profiles profiles.System
	logger   *slog.Logger
}

// New creates the analysis orchestrator.
func New(
	analyzer Analyzer,
	fileSys files.System,
	profileSys profiles.System,
	logger *slog.Logger,
) System {
	return &service{
		analyzer: analyzer,
		files:    fileSys,
		profiles: profileSys,
		logger:   logger.With("system", "analysis"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Analyze(ctx context.Context, cmd Command) (*Result, error) {
	if !cmd.HasSource() {
		return nil, ErrMissingSource
	}

	req, err := s.buildRequest(ctx, cmd)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("analysis complete",
		"sources", len(req.FileContents),
		"incidents", len(result.Incidents),
		"patterns", len(result.Patterns))

	return result, nil
}

func (s *service) buildRequest(ctx context.Context, cmd Command) (Request, error) {
	var req Request

	fileIDs := make([]uuid.UUID, 0, len(cmd.FileIDs))
	fileIDs = append(fileIDs, cmd.FileIDs...)

	for _, folderID := range cmd.FolderIDs {
		folderFiles, err := s.files.ListByFolder(ctx, folderID)
		if err != nil {
			return req, fmt.Errorf("gather folder files: %w", err)
		}
		for _, f := range folderFiles {
			fileIDs = append(fileIDs, f.ID)
		}
	}

	seen := make(map[uuid.UUID]bool, len(fileIDs))
	for _, fileID := range fileIDs {
		if seen[fileID] {
			continue
		}
		seen[fileID] = true

		f, err := s.files.Find(ctx, fileID)
		if err != nil {
			return req, fmt.Errorf("gather file %s: %w", fileID, err)
		}
		content, err := s.files.Content(ctx, fileID)
		if err != nil {
			return req, fmt.Errorf("gather file content %s: %w", fileID, err)
		}
		req.FileContents = append(req.FileContents, FileContent{
			Name:    f.Name,
			Content: content,
		})
	}

	if cmd.ProfileID != nil {
		p, err := s.profiles.Find(ctx, *cmd.ProfileID)
		if err != nil {
			return req, fmt.Errorf("gather profile context: %w", err)
		}
		req.ProfileContext = p.DisplayName
		if p.Context != nil && *p.Context != "" {
			req.ProfileContext += "\n" + *p.Context
		}
	}

	req.PeriodStart = formatDate(cmd.PeriodStart)
	req.PeriodEnd = formatDate(cmd.PeriodEnd)

	return req, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
