// auth_repo_test.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"catalog_api/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return db, mock, cleanup
}

func TestUserRepository_Create(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("X", 3600))
	user := models.User{ID: "u1", Username: "alice", PasswordHash: "h123", Role: models.RoleUser, CreatedAt: created}

	tests := []struct {
		name           string
		mockExpect     func(sqlmock.Sqlmock)
		wantErr        bool
		errContainsStr string
	}{
		{
			name: "success",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("u1", "alice", "h123", "user", created.UTC()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "exec error",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("u1", "alice", "h123", "user", created.UTC()).
					WillReturnError(errors.New("UNIQUE constraint failed: users.username"))
			},
			wantErr:        true,
			errContainsStr: `insert user "alice"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()
			repo := NewUserRepository(db)

			tt.mockExpect(mock)

			err := repo.Create(context.Background(), user)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContainsStr) {
					t.Fatalf("expected error to contain %q, got %q", tt.errContainsStr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	cols := []string{"id", "username", "password_hash", "role", "created_at"}

	tests := []struct {
		name           string
		mockExpect     func(sqlmock.Sqlmock)
		wantUser       *models.User
		wantErr        bool
		errContainsStr string
	}{
		{
			name: "found",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("alice").
					WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "alice", "hash", "admin", created))
			},
			wantUser: &models.User{ID: "u1", Username: "alice", PasswordHash: "hash", Role: models.RoleAdmin, CreatedAt: created},
		},
		{
			name: "unknown role becomes user",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("alice").
					WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "alice", "hash", "superuser", created))
			},
			wantUser: &models.User{ID: "u1", Username: "alice", PasswordHash: "hash", Role: models.RoleUser, CreatedAt: created},
		},
		{
			name: "not found",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("alice").
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "query error",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("alice").
					WillReturnError(errors.New("db down"))
			},
			wantErr:        true,
			errContainsStr: `select user "alice"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()
			repo := NewUserRepository(db)

			tt.mockExpect(mock)

			got, err := repo.GetByUsername(context.Background(), "alice")
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), tt.errContainsStr) {
					t.Fatalf("expected error containing %q, got %v", tt.errContainsStr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantUser == nil {
				if got != nil {
					t.Fatalf("expected nil user, got %+v", got)
				}
				return
			}
			if got == nil || got.ID != tt.wantUser.ID || got.Username != tt.wantUser.Username ||
				got.PasswordHash != tt.wantUser.PasswordHash || got.Role != tt.wantUser.Role ||
				!got.CreatedAt.Equal(tt.wantUser.CreatedAt) {
				t.Fatalf("unexpected user: want %+v, got %+v", tt.wantUser, got)
			}
		})
	}
}

func TestUserRepository_DeleteAll(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteAllUsersSQL)).WillReturnResult(sqlmock.NewResult(0, 3))
	if err := NewUserRepository(db).DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
}
