package service

import (
	"context"

	"catalog_api/internal/models"
	"catalog_api/internal/query"
	"catalog_api/internal/repository"
)

// Authorization is the auth gateway: registration, login and sessions.
type Authorization interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (token string, user *models.User, err error)
	Logout(ctx context.Context, token string) error
	Identify(ctx context.Context, token string) (models.Identity, error)
}

// Items exposes catalog reads and owner/admin-gated mutations.
type Items interface {
	List(ctx context.Context, q query.Query) ([]models.Document, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, payload map[string]any, who models.Identity) (*models.Item, error)
	Update(ctx context.Context, id string, payload map[string]any, who models.Identity) (*models.Item, error)
	Delete(ctx context.Context, id string, who models.Identity) (*models.Item, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Items
}

func NewService(repos *repository.Repository, creds CredentialVerifier, cfg AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Auth, repos.Sessions, creds, cfg),
		Items:         NewItemService(repos.Items),
	}
}
