package audit_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/audit"
	"github.com/mkarlsen/casefile/pkg/pagination"
)

func newSystem(t *testing.T) (audit.System, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := audit.New(db, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	return sys, mock
}

// waitForExpectations polls until the detached insert lands or the
// deadline passes.
func waitForExpectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mock.ExpectationsWereMet() == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expectations never met: %v", mock.ExpectationsWereMet())
}

func TestRecordInsertsEntry(t *testing.T) {
	sys, mock := newSystem(t)

	userID := uuid.New()
	resourceID := uuid.New()

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(&userID, "folder.delete", "folder", resourceID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sys.Record(audit.Entry{
		UserID:       &userID,
		Action:       "folder.delete",
		ResourceType: "folder",
		ResourceID:   resourceID,
		Details:      map[string]any{"file_count": 3},
	})

	waitForExpectations(t, mock)
}

func TestRecordWithoutActorOrDetails(t *testing.T) {
	sys, mock := newSystem(t)

	resourceID := uuid.New()

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(nil, "note.delete", "note", resourceID, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sys.Record(audit.Entry{
		Action:       "note.delete",
		ResourceType: "note",
		ResourceID:   resourceID,
	})

	waitForExpectations(t, mock)
}

func TestRecordNeverBlocksOnFailure(t *testing.T) {
	sys, mock := newSystem(t)

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnError(errors.New("insert failed"))

	done := make(chan struct{})
	go func() {
		sys.Record(audit.Entry{
			Action:       "profile.update",
			ResourceType: "profile",
			ResourceID:   uuid.New(),
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked the caller")
	}

	waitForExpectations(t, mock)
}
