package generation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/confidential"
	"github.com/mkarlsen/casefile/internal/files"
	"github.com/mkarlsen/casefile/internal/generation"
	"github.com/mkarlsen/casefile/internal/notes"
	"github.com/mkarlsen/casefile/internal/profiles"
	"github.com/mkarlsen/casefile/internal/reports"
	"github.com/mkarlsen/casefile/internal/templates"
)

type fakeGenerator struct {
	mu      sync.Mutex
	content string
	err     error
	block   chan struct{}
	reqs    []generation.Request
}

func (g *fakeGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	g.mu.Lock()
	g.reqs = append(g.reqs, req)
	g.mu.Unlock()

	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if g.err != nil {
		return "", g.err
	}
	return g.content, nil
}

type fakeTemplates struct {
	templates.System
	sections []templates.Section
	err      error
}

func (f *fakeTemplates) ListSections(ctx context.Context, templateID uuid.UUID) ([]templates.Section, error) {
	return f.sections, f.err
}

type fakeFiles struct {
	files.System
	byFolder map[uuid.UUID][]files.File
	contents map[uuid.UUID]string
}

func (f *fakeFiles) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]files.File, error) {
	return f.byFolder[folderID], nil
}

func (f *fakeFiles) Find(ctx context.Context, id uuid.UUID) (*files.File, error) {
	return &files.File{ID: id, Name: "file-" + id.String()[:8] + ".txt"}, nil
}

func (f *fakeFiles) Content(ctx context.Context, id uuid.UUID) (string, error) {
	return f.contents[id], nil
}

type fakeProfiles struct {
	profiles.System
	profile *profiles.Profile
}

func (f *fakeProfiles) Find(ctx context.Context, id uuid.UUID) (*profiles.Profile, error) {
	return f.profile, nil
}

type fakeNotes struct {
	notes.System
	mu      sync.Mutex
	created []notes.CreateCommand
	err     error
	block   chan struct{}
}

func (f *fakeNotes) Create(ctx context.Context, cmd notes.CreateCommand) (*notes.Note, error) {
	f.mu.Lock()
	f.created = append(f.created, cmd)
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &notes.Note{ID: uuid.New(), Title: cmd.Title, Content: cmd.Content}, nil
}

func (f *fakeNotes) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeReports struct {
	reports.System
	created []reports.CreateCommand
}

func (f *fakeReports) Create(ctx context.Context, cmd reports.CreateCommand, actor *uuid.UUID) (*reports.Report, error) {
	f.created = append(f.created, cmd)
	return &reports.Report{ID: uuid.New(), Title: cmd.Title}, nil
}

type harness struct {
	system    generation.System
	generator *fakeGenerator
	templates *fakeTemplates
	files     *fakeFiles
	profiles  *fakeProfiles
	notes     *fakeNotes
	reports   *fakeReports
}

func newHarness() *harness {
	h := &harness{
		generator: &fakeGenerator{content: "# Summary\n\ndrafted.\n\n"},
		templates: &fakeTemplates{},
		files:     &fakeFiles{byFolder: map[uuid.UUID][]files.File{}, contents: map[uuid.UUID]string{}},
		profiles:  &fakeProfiles{},
		notes:     &fakeNotes{},
		reports:   &fakeReports{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.system = generation.New(
		h.generator, h.templates, h.files, h.profiles, h.notes, h.reports, logger,
	)
	return h
}

func TestCreateSessionDefaults(t *testing.T) {
	h := newHarness()

	note, err := h.system.CreateSession(generation.CreateSessionCommand{Kind: generation.KindNote})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.State != generation.StateSelection {
		t.Errorf("got state %q, want selection", note.State)
	}
	if note.Policy.RequireTemplate || note.Policy.RequireSource {
		t.Errorf("note policy should not require template or source: %+v", note.Policy)
	}

	report, err := h.system.CreateSession(generation.CreateSessionCommand{Kind: generation.KindReport})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Policy.RequireTemplate || !report.Policy.RequireSource {
		t.Errorf("report policy should require template and source: %+v", report.Policy)
	}

	if _, err := h.system.CreateSession(generation.CreateSessionCommand{Kind: "letter"}); !errors.Is(err, generation.ErrInvalidSession) {
		t.Errorf("got %v, want ErrInvalidSession", err)
	}
}

func TestGeneratePolicyEnforcement(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	templateID := uuid.New()
	fileID := uuid.New()

	tests := []struct {
		name     string
		cmd      generation.CreateSessionCommand
		expected error
	}{
		{
			name:     "report without template",
			cmd:      generation.CreateSessionCommand{Kind: generation.KindReport, Selection: generation.Selection{FileIDs: []uuid.UUID{fileID}}},
			expected: generation.ErrMissingTemplate,
		},
		{
			name:     "report without source",
			cmd:      generation.CreateSessionCommand{Kind: generation.KindReport, Selection: generation.Selection{TemplateID: &templateID}},
			expected: generation.ErrMissingSource,
		},
		{
			name:     "note with nothing selected",
			cmd:      generation.CreateSessionCommand{Kind: generation.KindNote},
			expected: generation.ErrEmptySelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := h.system.CreateSession(tt.cmd)
			if err != nil {
				t.Fatalf("create session: %v", err)
			}
			if _, err := h.system.Generate(ctx, session.ID); !errors.Is(err, tt.expected) {
				t.Errorf("got %v, want %v", err, tt.expected)
			}
		})
	}
}

func TestGenerateSuccess(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	fileID := uuid.New()
	h.files.contents[fileID] = "incident log entry"

	session, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind:      generation.KindNote,
		Selection: generation.Selection{FileIDs: []uuid.UUID{fileID}},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	result, err := h.system.Generate(ctx, session.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.State != generation.StateEditing {
		t.Errorf("got state %q, want editing", result.State)
	}
	if result.Content == "" {
		t.Error("expected generated content")
	}
	if len(result.Sections) != 1 || result.Sections[0].Title != "Summary" {
		t.Errorf("got sections %+v", result.Sections)
	}

	if len(h.generator.reqs) != 1 {
		t.Fatalf("generator called %d times", len(h.generator.reqs))
	}
	req := h.generator.reqs[0]
	if len(req.FileContents) != 1 || req.FileContents[0].Content != "incident log entry" {
		t.Errorf("got file contents %+v", req.FileContents)
	}
}

func TestGenerateGathersFolderFilesAndProfile(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	folderID := uuid.New()
	sharedID := uuid.New()
	extraID := uuid.New()
	h.files.byFolder[folderID] = []files.File{{ID: sharedID}, {ID: extraID}}
	h.files.contents[sharedID] = "shared"
	h.files.contents[extraID] = "extra"

	profileID := uuid.New()
	contextNote := "attends weekly sessions"
	h.profiles.profile = &profiles.Profile{ID: profileID, DisplayName: "J. Doe", Context: &contextNote}

	session, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind: generation.KindNote,
		Selection: generation.Selection{
			ProfileID: &profileID,
			FolderIDs: []uuid.UUID{folderID},
			FileIDs:   []uuid.UUID{sharedID},
		},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, err := h.system.Generate(ctx, session.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	req := h.generator.reqs[0]
	if len(req.FileContents) != 2 {
		t.Errorf("expected deduplicated file contents, got %d", len(req.FileContents))
	}
	if req.ProfileContext != "J. Doe\nattends weekly sessions" {
		t.Errorf("got profile context %q", req.ProfileContext)
	}
}

func TestGenerateFailureRevertsToSelection(t *testing.T) {
	h := newHarness()
	h.generator.err = errors.New("endpoint unavailable")
	ctx := context.Background()

	fileID := uuid.New()
	session, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind:      generation.KindNote,
		Selection: generation.Selection{FileIDs: []uuid.UUID{fileID}},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	result, err := h.system.Generate(ctx, session.ID)
	if err == nil {
		t.Fatal("expected error")
	}
	if result.State != generation.StateSelection {
		t.Errorf("got state %q, want selection", result.State)
	}
	if result.Content != "" {
		t.Errorf("expected no partial content, got %q", result.Content)
	}

	found, err := h.system.Find(session.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.State != generation.StateSelection {
		t.Errorf("stored session in state %q, want selection", found.State)
	}
}

func TestGenerateConcurrentConflict(t *testing.T) {
	h := newHarness()
	h.generator.block = make(chan struct{})
	ctx := context.Background()

	fileID := uuid.New()
	session, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind:      generation.KindNote,
		Selection: generation.Selection{FileIDs: []uuid.UUID{fileID}},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := h.system.Generate(ctx, session.ID)
		done <- err
	}()

	deadline := time.After(2 * time.Second)
	for {
		found, err := h.system.Find(session.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found.State == generation.StateGenerating {
			break
		}
		select {
		case <-deadline:
			t.Fatal("session never entered generating")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if _, err := h.system.Generate(ctx, session.ID); !errors.Is(err, generation.ErrGenerationInFlight) {
		t.Errorf("got %v, want ErrGenerationInFlight", err)
	}

	close(h.generator.block)
	if err := <-done; err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
}

func TestUpdateSelectionOnlyInSelection(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	fileID := uuid.New()
	session, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind:      generation.KindNote,
		Selection: generation.Selection{FileIDs: []uuid.UUID{fileID}},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	updated, err := h.system.UpdateSelection(session.ID, generation.Selection{FileIDs: []uuid.UUID{fileID, uuid.New()}})
	if err != nil {
		t.Fatalf("update selection: %v", err)
	}
	if len(updated.Selection.FileIDs) != 2 {
		t.Errorf("got %d file ids", len(updated.Selection.FileIDs))
	}

	if _, err := h.system.Generate(ctx, session.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := h.system.UpdateSelection(session.ID, generation.Selection{}); !errors.Is(err, generation.ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateContentReparsesSections(t *testing.T) {
	h := newHarness()

	session := mustEditingSession(t, h)

	updated, err := h.system.UpdateContent(session.ID, "# Revised\n\nnew body\n\n# Added\n\nmore\n\n")
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	if len(updated.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(updated.Sections))
	}
	if updated.Sections[1].Title != "Added" {
		t.Errorf("got title %q", updated.Sections[1].Title)
	}

	flat, err := h.system.UpdateContent(session.ID, "plain text, no headings")
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	if flat.Content != "plain text, no headings" {
		t.Errorf("got content %q", flat.Content)
	}
	if len(flat.Sections) != 0 {
		t.Errorf("sections from the previous parse should be dropped, got %d", len(flat.Sections))
	}
}

func TestSaveNote(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	session := mustEditingSession(t, h)
	userID := uuid.New()

	result, err := h.system.Save(ctx, session.ID, generation.SaveCommand{
		Title:           "Weekly note",
		UserID:          userID,
		Confidentiality: confidential.LevelInternal,
	}, &userID)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if result.ResourceType != "note" {
		t.Errorf("got resource type %q", result.ResourceType)
	}

	if len(h.notes.created) != 1 {
		t.Fatalf("notes created %d times", len(h.notes.created))
	}
	if h.notes.created[0].Content == "" {
		t.Error("note saved without content")
	}

	if _, err := h.system.Find(session.ID); !errors.Is(err, generation.ErrSessionNotFound) {
		t.Errorf("saved session should be removed, got %v", err)
	}
}

func TestSaveReport(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	templateID := uuid.New()
	fileID := uuid.New()
	h.files.contents[fileID] = "entry"
	h.templates.sections = []templates.Section{
		{Title: "Summary", Instructions: "summarize the period"},
	}

	session, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind: generation.KindReport,
		Selection: generation.Selection{
			TemplateID: &templateID,
			FileIDs:    []uuid.UUID{fileID},
		},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := h.system.Generate(ctx, session.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID := uuid.New()
	result, err := h.system.Save(ctx, session.ID, generation.SaveCommand{
		Title:           "Quarterly report",
		UserID:          userID,
		Confidentiality: confidential.LevelRestricted,
	}, &userID)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if result.ResourceType != "report" {
		t.Errorf("got resource type %q", result.ResourceType)
	}

	if len(h.reports.created) != 1 {
		t.Fatalf("reports created %d times", len(h.reports.created))
	}
	cmd := h.reports.created[0]
	if cmd.ReportType != reports.TypeActivity {
		t.Errorf("got report type %q, want default activity", cmd.ReportType)
	}
	if len(cmd.Content.Sections) == 0 {
		t.Error("report saved without sections")
	}
	if cmd.Content.Metadata["generated"] != true {
		t.Errorf("got metadata %+v", cmd.Content.Metadata)
	}
	if cmd.Content.Metadata["template_id"] != templateID.String() {
		t.Errorf("got template metadata %v", cmd.Content.Metadata["template_id"])
	}
}

func TestSaveReportPersistsEditedFlatText(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.generator.content = "# A\n\nfoo\n\n# B\n\nbar\n\n"

	templateID := uuid.New()
	fileID := uuid.New()
	h.files.contents[fileID] = "entry"
	h.templates.sections = []templates.Section{{Title: "A"}, {Title: "B"}}

	session, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind: generation.KindReport,
		Selection: generation.Selection{
			TemplateID: &templateID,
			FileIDs:    []uuid.UUID{fileID},
		},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := h.system.Generate(ctx, session.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	edited := "rewritten as one paragraph, no headings"
	if _, err := h.system.UpdateContent(session.ID, edited); err != nil {
		t.Fatalf("update content: %v", err)
	}

	userID := uuid.New()
	if _, err := h.system.Save(ctx, session.ID, generation.SaveCommand{
		Title:  "Final report",
		UserID: userID,
	}, &userID); err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(h.reports.created) != 1 {
		t.Fatalf("reports created %d times", len(h.reports.created))
	}
	sections := h.reports.created[0].Content.Sections
	if len(sections) != 1 {
		t.Fatalf("got sections %+v, want the edited text only", sections)
	}
	if sections[0].Title != "Final report" || sections[0].Content != edited {
		t.Errorf("got %+v, want the edited flat text", sections[0])
	}
}

func TestSaveConcurrentConflict(t *testing.T) {
	h := newHarness()
	h.notes.block = make(chan struct{})
	ctx := context.Background()

	session := mustEditingSession(t, h)
	userID := uuid.New()

	done := make(chan error, 1)
	go func() {
		_, err := h.system.Save(ctx, session.ID, generation.SaveCommand{Title: "first", UserID: userID}, &userID)
		done <- err
	}()

	deadline := time.After(2 * time.Second)
	for h.notes.createdCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("first save never reached the store")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if _, err := h.system.Save(ctx, session.ID, generation.SaveCommand{Title: "second", UserID: userID}, &userID); !errors.Is(err, generation.ErrSaveInFlight) {
		t.Errorf("got %v, want ErrSaveInFlight", err)
	}

	close(h.notes.block)
	if err := <-done; err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if got := h.notes.createdCount(); got != 1 {
		t.Errorf("notes created %d times, want 1", got)
	}
}

func TestSaveValidation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	session := mustEditingSession(t, h)
	userID := uuid.New()

	if _, err := h.system.Save(ctx, session.ID, generation.SaveCommand{Title: "   ", UserID: userID}, &userID); !errors.Is(err, generation.ErrUntitled) {
		t.Errorf("got %v, want ErrUntitled", err)
	}

	fresh, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind:      generation.KindNote,
		Selection: generation.Selection{FileIDs: []uuid.UUID{uuid.New()}},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := h.system.Save(ctx, fresh.ID, generation.SaveCommand{Title: "too early", UserID: userID}, &userID); !errors.Is(err, generation.ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
}

func TestSaveFailureKeepsSessionEditing(t *testing.T) {
	h := newHarness()
	h.notes.err = errors.New("insert failed")
	ctx := context.Background()

	session := mustEditingSession(t, h)
	userID := uuid.New()

	if _, err := h.system.Save(ctx, session.ID, generation.SaveCommand{Title: "note", UserID: userID}, &userID); err == nil {
		t.Fatal("expected error")
	}

	found, err := h.system.Find(session.ID)
	if err != nil {
		t.Fatalf("session should survive a failed save: %v", err)
	}
	if found.State != generation.StateEditing {
		t.Errorf("got state %q, want editing", found.State)
	}
}

func TestDiscard(t *testing.T) {
	h := newHarness()

	session, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind:      generation.KindNote,
		Selection: generation.Selection{FileIDs: []uuid.UUID{uuid.New()}},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := h.system.Discard(session.ID); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if _, err := h.system.Find(session.ID); !errors.Is(err, generation.ErrSessionNotFound) {
		t.Errorf("discarded session should be removed, got %v", err)
	}

	if err := h.system.Discard(session.ID); !errors.Is(err, generation.ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func mustEditingSession(t *testing.T, h *harness) *generation.Session {
	t.Helper()

	fileID := uuid.New()
	h.files.contents[fileID] = "source material"

	session, err := h.system.CreateSession(generation.CreateSessionCommand{
		Kind:      generation.KindNote,
		Selection: generation.Selection{FileIDs: []uuid.UUID{fileID}},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := h.system.Generate(context.Background(), session.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}
	return session
}
