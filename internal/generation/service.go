package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/files"
	"github.com/mkarlsen/casefile/internal/notes"
	"github.com/mkarlsen/casefile/internal/profiles"
	"github.com/mkarlsen/casefile/internal/reports"
	"github.com/mkarlsen/casefile/internal/templates"
)

type service struct {
	registry  *registry
	generator Generator
	templates templates.System
	files     files.System
	profiles  profiles.System
	notes     notes.System
	reports   reports.System
	logger    *slog.Logger
}

// New creates the generation orchestrator.
func New(
	generator Generator,
	templateSys templates.System,
	fileSys files.System,
	profileSys profiles.System,
	noteSys notes.System,
	reportSys reports.System,
	logger *slog.Logger,
) System {
	return &service{
		registry:  newRegistry(),
		generator: generator,
		templates: templateSys,
		files:     fileSys,
		profiles:  profileSys,
		notes:     noteSys,
		reports:   reportSys,
		logger:    logger.With("system", "generation"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) CreateSession(cmd CreateSessionCommand) (*Session, error) {
	if cmd.Kind != KindNote && cmd.Kind != KindReport {
		return nil, ErrInvalidSession
	}

	policy := DefaultPolicy(cmd.Kind)
	if cmd.Policy != nil {
		policy = *cmd.Policy
	}

	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.New(),
		Kind:      cmd.Kind,
		State:     StateSelection,
		Policy:    policy,
		Selection: cmd.Selection,
		Sections:  []Section{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.registry.add(session)
	s.logger.Info("session opened", "id", session.ID, "kind", session.Kind)

	copied := *session
	return &copied, nil
}

func (s *service) Find(id uuid.UUID) (*Session, error) {
	session, ok := s.registry.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *service) UpdateSelection(id uuid.UUID, sel Selection) (*Session, error) {
	session, err := s.registry.update(id, func(cur *Session) error {
		if cur.State != StateSelection {
			return ErrInvalidTransition
		}
		cur.Selection = sel
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Generate runs the full draft request. The session enters generating
// under the registry lock so a concurrent call observes the in-flight
// state; on any failure it returns to selection with no partial
// content.
func (s *service) Generate(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.registry.update(id, func(cur *Session) error {
		if cur.State == StateGenerating {
			return ErrGenerationInFlight
		}
		if cur.State != StateSelection {
			return ErrInvalidTransition
		}
		if err := validateSelection(cur.Policy, cur.Selection); err != nil {
			return err
		}
		cur.State = StateGenerating
		return nil
	})
	if err != nil {
		return nil, err
	}

	content, err := s.runGeneration(ctx, session.Selection)
	if err != nil {
		s.logger.Warn("generation failed", "id", id, "error", err)
		if reverted, rerr := s.registry.update(id, func(cur *Session) error {
			cur.State = StateSelection
			return nil
		}); rerr == nil {
			session = reverted
		}
		return &session, err
	}

	session, err = s.registry.update(id, func(cur *Session) error {
		cur.Content = content
		cur.Sections = sectionsFor(content)
		cur.State = StateEditing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("generation complete", "id", id, "sections", len(session.Sections))
	return &session, nil
}

func (s *service) UpdateContent(id uuid.UUID, content string) (*Session, error) {
	session, err := s.registry.update(id, func(cur *Session) error {
		if cur.State != StateEditing {
			return ErrInvalidTransition
		}
		cur.Content = content
		cur.Sections = sectionsFor(content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// sectionsFor derives sections from content. The flat text is the
// source of truth; sections that no longer parse out of it are dropped
// rather than carried stale into a save.
func sectionsFor(content string) []Section {
	if sections, ok := ParseSections(content); ok {
		return sections
	}
	return []Section{}
}

// Save issues one insert against the note or report store. Failure
// keeps the session in editing so the caller can retry or discard.
func (s *service) Save(ctx context.Context, id uuid.UUID, cmd SaveCommand, actor *uuid.UUID) (*SaveResult, error) {
	if strings.TrimSpace(cmd.Title) == "" {
		return nil, ErrUntitled
	}

	// Claim the save under the registry lock so two concurrent saves of
	// one session cannot both reach the store.
	session, err := s.registry.update(id, func(cur *Session) error {
		if cur.State != StateEditing {
			return ErrInvalidTransition
		}
		if cur.saving {
			return ErrSaveInFlight
		}
		cur.saving = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err := s.persist(ctx, session, cmd, actor)
	if err != nil {
		s.registry.update(id, func(cur *Session) error {
			cur.saving = false
			return nil
		})
		return nil, err
	}

	if _, err := s.registry.update(id, func(cur *Session) error {
		cur.State = StateSaved
		return nil
	}); err == nil {
		s.registry.remove(id)
	}

	s.logger.Info("session saved",
		"id", id,
		"resource_type", result.ResourceType,
		"resource_id", result.ResourceID)

	return result, nil
}

func (s *service) Discard(id uuid.UUID) error {
	_, err := s.registry.update(id, func(cur *Session) error {
		if !CanTransition(cur.State, StateDiscarded) {
			return ErrInvalidTransition
		}
		cur.State = StateDiscarded
		return nil
	})
	if err != nil {
		return err
	}

	s.registry.remove(id)
	s.logger.Info("session discarded", "id", id)
	return nil
}

func validateSelection(p Policy, sel Selection) error {
	if p.RequireTemplate && sel.TemplateID == nil {
		return ErrMissingTemplate
	}
	if p.RequireSource && !sel.HasSource() {
		return ErrMissingSource
	}
	if !p.RequireTemplate && !p.RequireSource {
		if sel.TemplateID == nil && !sel.HasSource() {
			return ErrEmptySelection
		}
	}
	return nil
}

func (s *service) runGeneration(ctx context.Context, sel Selection) (string, error) {
	req, err := s.buildRequest(ctx, sel)
	if err != nil {
		return "", err
	}
	return s.generator.Generate(ctx, req)
}

// buildRequest gathers template sections, the contents of selected
// files plus the files of selected folders, and the profile context.
func (s *service) buildRequest(ctx context.Context, sel Selection) (Request, error) {
	var req Request

	if sel.TemplateID != nil {
		sections, err := s.templates.ListSections(ctx, *sel.TemplateID)
		if err != nil {
			return req, fmt.Errorf("gather template sections: %w", err)
		}
		for _, sec := range sections {
			req.TemplateSections = append(req.TemplateSections, TemplateSection{
				Title:        sec.Title,
				Instructions: sec.Instructions,
			})
		}
	}

	fileIDs := make([]uuid.UUID, 0, len(sel.FileIDs))
	fileIDs = append(fileIDs, sel.FileIDs...)

	for _, folderID := range sel.FolderIDs {
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

	if sel.ProfileID != nil {
		p, err := s.profiles.Find(ctx, *sel.ProfileID)
		if err != nil {
			return req, fmt.Errorf("gather profile context: %w", err)
		}
		req.ProfileContext = p.DisplayName
		if p.Context != nil && *p.Context != "" {
			req.ProfileContext += "\n" + *p.Context
		}
	}

	return req, nil
}

func (s *service) persist(ctx context.Context, session Session, cmd SaveCommand, actor *uuid.UUID) (*SaveResult, error) {
	switch session.Kind {
	case KindNote:
		n, err := s.notes.Create(ctx, notes.CreateCommand{
			UserID:          cmd.UserID,
			Title:           cmd.Title,
			Content:         session.Content,
			Confidentiality: cmd.Confidentiality,
		})
		if err != nil {
			return nil, err
		}
		return &SaveResult{ResourceType: "note", ResourceID: n.ID}, nil

	case KindReport:
		reportType := cmd.ReportType
		if reportType == "" {
			reportType = reports.TypeActivity
		}

		content := reports.Content{
			Sections: make([]reports.ContentSection, 0, len(session.Sections)),
			Metadata: map[string]any{
				"generated":    true,
				"source_count": len(session.Selection.FileIDs) + len(session.Selection.FolderIDs),
			},
		}
		if session.Selection.TemplateID != nil {
			content.Metadata["template_id"] = session.Selection.TemplateID.String()
		}
		for _, sec := range session.Sections {
			content.Sections = append(content.Sections, reports.ContentSection{
				Title:   sec.Title,
				Content: sec.Content,
				Type:    sec.Type,
			})
		}
		if len(content.Sections) == 0 {
			content.Sections = append(content.Sections, reports.ContentSection{
				Title:   cmd.Title,
				Content: session.Content,
			})
		}

		rep, err := s.reports.Create(ctx, reports.CreateCommand{
			Title:           cmd.Title,
			ReportType:      reportType,
			PeriodStart:     cmd.PeriodStart,
			PeriodEnd:       cmd.PeriodEnd,
			Content:         content,
			Confidentiality: cmd.Confidentiality,
		}, actor)
		if err != nil {
			return nil, err
		}
		return &SaveResult{ResourceType: "report", ResourceID: rep.ID}, nil
	}

	return nil, ErrInvalidSession
}
