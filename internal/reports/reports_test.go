package reports_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/audit"
	"github.com/mkarlsen/casefile/internal/confidential"
	"github.com/mkarlsen/casefile/internal/reports"
	"github.com/mkarlsen/casefile/pkg/pagination"
)

var reportRowColumns = []string{
	"id", "title", "report_type", "period_start", "period_end",
	"content", "confidentiality_level", "created_at", "updated_at",
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *fakeRecorder) Record(entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func newSystem(t *testing.T) (reports.System, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := reports.New(db, &fakeRecorder{}, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	return sys, mock
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected reports.Type
		wantErr  bool
	}{
		{"activity", reports.TypeActivity, false},
		{"standardized", reports.TypeStandardized, false},
		{"quarterly", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := reports.ParseType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCreatePersistsStructuredContent(t *testing.T) {
	sys, mock := newSystem(t)

	reportID := uuid.New()
	now := time.Now()
	stored := `{"sections":[{"title":"Summary","content":"All quiet."}],"metadata":{"generated":true}}`

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO reports").
		WillReturnRows(sqlmock.NewRows(reportRowColumns).AddRow(
			reportID.String(), "Q1 report", "activity", nil, nil,
			[]byte(stored), "internal", now, now,
		))
	mock.ExpectCommit()

	actor := uuid.New()
	rep, err := sys.Create(context.Background(), reports.CreateCommand{
		Title:      "Q1 report",
		ReportType: reports.TypeActivity,
		Content: reports.Content{
			Sections: []reports.ContentSection{{Title: "Summary", Content: "All quiet."}},
			Metadata: map[string]any{"generated": true},
		},
		Confidentiality: confidential.LevelInternal,
	}, &actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(rep.Content.Sections) != 1 || rep.Content.Sections[0].Title != "Summary" {
		t.Errorf("got sections %+v", rep.Content.Sections)
	}
	if rep.Content.Metadata["generated"] != true {
		t.Errorf("got metadata %+v", rep.Content.Metadata)
	}
}

func TestFindNormalizesEmptyContent(t *testing.T) {
	sys, mock := newSystem(t)

	reportID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows(reportRowColumns).AddRow(
			reportID.String(), "Empty report", "standardized", nil, nil,
			[]byte(`{}`), "internal", now, now,
		))

	rep, err := sys.Find(context.Background(), reportID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rep.Content.Sections == nil {
		t.Error("sections should never be nil")
	}
	if rep.ReportType != reports.TypeStandardized {
		t.Errorf("got type %q", rep.ReportType)
	}
}

func TestDeleteMissing(t *testing.T) {
	sys, mock := newSystem(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reports").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	actor := uuid.New()
	if err := sys.Delete(context.Background(), uuid.New(), &actor); !errors.Is(err, reports.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
