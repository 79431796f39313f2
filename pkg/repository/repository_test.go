package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkarlsen/casefile/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"other pg error", &pgconn.PgError{Code: "23503"}, &pgconn.PgError{Code: "23503"}},
		{"passthrough", errors.New("boom"), errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.input, errNotFound, errDuplicate)
			if tt.expected == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got.Error() != tt.expected.Error() {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWithTxCommit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE folders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repository.WithTx(context.Background(), db, func(tx *sql.Tx) (int, error) {
		if _, err := tx.ExecContext(context.Background(), "UPDATE folders SET title = $1", "x"); err != nil {
			return 0, err
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Errorf("got %d, want 42", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestWithTxRollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	_, err = repository.WithTx(context.Background(), db, func(tx *sql.Tx) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestQueryManyNeverNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM folders").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	results, err := repository.QueryMany(
		context.Background(), db,
		"SELECT name FROM folders", nil,
		func(s repository.Scanner) (string, error) {
			var name string
			err := s.Scan(&name)
			return name, err
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil {
		t.Error("expected non-nil slice")
	}
	if len(results) != 0 {
		t.Errorf("expected empty slice, got %v", results)
	}
}

func TestExecExpectOne(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM folders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM folders").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repository.ExecExpectOne(context.Background(), db, "DELETE FROM folders WHERE id = $1", "a"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err = repository.ExecExpectOne(context.Background(), db, "DELETE FROM folders WHERE id = $1", "b")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("got %v, want sql.ErrNoRows", err)
	}
}
