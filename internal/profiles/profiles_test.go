package profiles_test

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
	"github.com/mkarlsen/casefile/internal/profiles"
	"github.com/mkarlsen/casefile/pkg/pagination"
)

var profileRowColumns = []string{
	"id", "display_name", "date_of_birth", "context", "created_at", "updated_at",
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

func (r *fakeRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

func newSystem(t *testing.T) (profiles.System, sqlmock.Sqlmock, *fakeRecorder) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	recorder := &fakeRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := profiles.New(db, recorder, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	return sys, mock, recorder
}

func TestCreate(t *testing.T) {
	sys, mock, recorder := newSystem(t)

	profileID := uuid.New()
	now := time.Now()
	dob := time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs("J. Doe", &dob, nil).
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(
			profileID.String(), "J. Doe", dob, nil, now, now,
		))
	mock.ExpectCommit()

	actor := uuid.New()
	p, err := sys.Create(context.Background(), profiles.CreateCommand{
		DisplayName: "J. Doe",
		DateOfBirth: &dob,
	}, &actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != profileID || p.DisplayName != "J. Doe" {
		t.Errorf("got %+v", p)
	}
	if p.DateOfBirth == nil || !p.DateOfBirth.Equal(dob) {
		t.Errorf("got date of birth %v", p.DateOfBirth)
	}

	actions := recorder.actions()
	if len(actions) != 1 || actions[0] != "profile.create" {
		t.Errorf("got audit actions %v", actions)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindNotFound(t *testing.T) {
	sys, mock, _ := newSystem(t)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(profileRowColumns))

	_, err := sys.Find(context.Background(), uuid.New())
	if !errors.Is(err, profiles.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	sys, mock, recorder := newSystem(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM profiles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	actor := uuid.New()
	if err := sys.Delete(context.Background(), uuid.New(), &actor); !errors.Is(err, profiles.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if len(recorder.actions()) != 0 {
		t.Error("failed delete must not be audited")
	}
}
