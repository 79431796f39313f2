package analysis_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/analysis"
	"github.com/mkarlsen/casefile/internal/files"
	"github.com/mkarlsen/casefile/internal/profiles"
)

type fakeAnalyzer struct {
	result *analysis.Result
	err    error
	reqs   []analysis.Request
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	a.reqs = append(a.reqs, req)
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
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
	return &files.File{ID: id, Name: "doc.txt"}, nil
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

func newService(analyzer analysis.Analyzer, fls *fakeFiles, prs *fakeProfiles) analysis.System {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return analysis.New(analyzer, fls, prs, logger)
}

func TestAnalyzeRequiresSource(t *testing.T) {
	sys := newService(&fakeAnalyzer{}, &fakeFiles{}, &fakeProfiles{})

	profileID := uuid.New()
	_, err := sys.Analyze(context.Background(), analysis.Command{ProfileID: &profileID})
	if !errors.Is(err, analysis.ErrMissingSource) {
		t.Errorf("got %v, want ErrMissingSource", err)
	}
}

func TestAnalyzeGathersSources(t *testing.T) {
	folderID := uuid.New()
	sharedID := uuid.New()
	extraID := uuid.New()

	fls := &fakeFiles{
		byFolder: map[uuid.UUID][]files.File{
			folderID: {{ID: sharedID}, {ID: extraID}},
		},
		contents: map[uuid.UUID]string{sharedID: "a", extraID: "b"},
	}

	profileID := uuid.New()
	contextNote := "new placement since spring"
	prs := &fakeProfiles{profile: &profiles.Profile{
		ID:          profileID,
		DisplayName: "J. Doe",
		Context:     &contextNote,
	}}

	analyzer := &fakeAnalyzer{result: &analysis.Result{Summary: "ok"}}
	sys := newService(analyzer, fls, prs)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	result, err := sys.Analyze(context.Background(), analysis.Command{
		ProfileID:   &profileID,
		FolderIDs:   []uuid.UUID{folderID},
		FileIDs:     []uuid.UUID{sharedID},
		PeriodStart: &start,
		PeriodEnd:   &end,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Summary != "ok" {
		t.Errorf("got summary %q", result.Summary)
	}

	if len(analyzer.reqs) != 1 {
		t.Fatalf("analyzer called %d times", len(analyzer.reqs))
	}
	req := analyzer.reqs[0]
	if len(req.FileContents) != 2 {
		t.Errorf("expected deduplicated sources, got %d", len(req.FileContents))
	}
	if req.ProfileContext != "J. Doe\nnew placement since spring" {
		t.Errorf("got profile context %q", req.ProfileContext)
	}
	if req.PeriodStart == nil || *req.PeriodStart != "2026-01-01" {
		t.Errorf("got period start %v", req.PeriodStart)
	}
	if req.PeriodEnd == nil || *req.PeriodEnd != "2026-03-31" {
		t.Errorf("got period end %v", req.PeriodEnd)
	}
}

func TestAnalyzePropagatesAnalyzerError(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.New("endpoint unavailable")}
	fls := &fakeFiles{contents: map[uuid.UUID]string{}}
	sys := newService(analyzer, fls, &fakeProfiles{})

	_, err := sys.Analyze(context.Background(), analysis.Command{FileIDs: []uuid.UUID{uuid.New()}})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSimulatorResult(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := analysis.NewAnalyzer(analysis.Config{SimulateDelay: "1ms"}, logger)

	result, err := analyzer.Analyze(context.Background(), analysis.Request{
		FileContents: []analysis.FileContent{{Name: "a.txt", Content: "x"}},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Summary == "" {
		t.Error("expected a summary")
	}
	if result.Incidents == nil {
		t.Error("incidents should be empty, not nil")
	}
	if len(result.Patterns) == 0 {
		t.Error("expected canned patterns")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{analysis.ErrMissingSource, 422},
		{analysis.ErrInvalidCommand, 400},
		{errors.New("boom"), 500},
	}

	for _, tt := range tests {
		if got := analysis.MapHTTPStatus(tt.err); got != tt.expected {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.expected)
		}
	}
}
