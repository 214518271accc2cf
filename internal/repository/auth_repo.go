package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog_api/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`
	deleteAllUsersSQL       = `DELETE FROM users`
)

// Create inserts a new user. The caller supplies the id and normalized username.
func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Username, u.PasswordHash, string(u.Role), u.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var (
		u    models.User
		role string
		at   time.Time
	)
	err := r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	u.Role = models.NormalizeRole(role)
	u.CreatedAt = at.UTC()
	return &u, nil
}

// DeleteAll removes every user. Used by the seeder only.
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteAllUsersSQL); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}
