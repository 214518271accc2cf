package repository

import (
	"context"
	"database/sql"
	"time"

	"catalog_api/internal/models"
	"catalog_api/internal/query"

	"github.com/redis/go-redis/v9"
)

type Authorization interface {
	Create(ctx context.Context, u models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type SessionRepo interface {
	Save(ctx context.Context, s models.Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type ItemRepo interface {
	List(ctx context.Context, q query.Query) ([]models.Document, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	Insert(ctx context.Context, it models.Item) error
	Update(ctx context.Context, id string, fields map[string]any) (*models.Item, error)
	Delete(ctx context.Context, id string) (*models.Item, error)
}

type Repository struct {
	Auth     Authorization
	Sessions SessionRepo
	Items    ItemRepo
}

// NewRepository binds the document store and the session store.
// Both handles are owned by the caller.
func NewRepository(db *sql.DB, rdb *redis.Client) *Repository {
	return &Repository{
		Auth:     NewUserRepository(db),
		Sessions: NewSessionRedis(rdb),
		Items:    NewItemSQLite(db),
	}
}
