package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

const insertUserQuery = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password_hash,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id\s*$`

func TestUserRepository_Create_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, time.Second)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertUserQuery).
		WithArgs("alice", "hash", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	got, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "hash", CreatedAt: now})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.Username != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	dupErrors := map[string]error{
		"postgres": &pgconn.PgError{Code: pgUniqueViolation},
		"sqlite":   sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
	}

	for name, dupErr := range dupErrors {
		t.Run(name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db, time.Second)

			mock.ExpectQuery(insertUserQuery).WillReturnError(dupErr)

			_, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "hash"})
			if !errors.Is(err, domain.ErrUserExists) {
				t.Fatalf("expected ErrUserExists, got %v", err)
			}
		})
	}
}

func TestUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, time.Second)

	mock.ExpectQuery(insertUserQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &domain.User{Username: "alice"})
	if err == nil || !regexp.MustCompile(`insert user: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

const findUserQuery = `(?s)^SELECT\s+id,\s*username,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`

func TestUserRepository_FindByUsername_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, time.Second)
	now := time.Now().UTC()

	mock.ExpectQuery(findUserQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(int64(1), "alice", "hash", now))

	got, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if got.ID != 1 || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, time.Second)

	mock.ExpectQuery(findUserQuery).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.FindByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestIsUniqueViolation_OtherErrors(t *testing.T) {
	if isUniqueViolation(errors.New("boom")) {
		t.Fatalf("plain errors are not unique violations")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation is not a unique violation")
	}
}
