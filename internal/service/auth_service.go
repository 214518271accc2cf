package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"catalog_api/internal/models"
	"catalog_api/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultSessionTTL = 7 * 24 * time.Hour

	minUsernameLen = 3
	minPasswordLen = 6
)

// AuthConfig carries the session settings of the auth gateway.
type AuthConfig struct {
	Secret     []byte
	SessionTTL time.Duration
}

// AuthService handles registration, login and session resolution.
type AuthService struct {
	users    repository.Authorization
	sessions repository.SessionRepo
	creds    CredentialVerifier
	signer   sessionSigner
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(users repository.Authorization, sessions repository.SessionRepo, creds CredentialVerifier, cfg AuthConfig) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		creds:    creds,
		signer:   sessionSigner{key: cfg.Secret},
		ttl:      ttl,
		now:      time.Now,
	}
}

// SessionTTL is the lifetime of sessions issued by Login.
func (s *AuthService) SessionTTL() time.Duration { return s.ttl }

// Register creates a user with role user.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if utf8.RuneCountInString(strings.TrimSpace(username)) < minUsernameLen {
		return nil, Validation("Username must be at least 3 chars")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, Validation("Password must be at least 6 chars")
	}
	name := models.NormalizeUsername(username)

	// check-then-insert; a concurrent duplicate surfaces as a store error
	existing, err := s.users.GetByUsername(ctx, name)
	if err != nil {
		return nil, Internal(err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, Internal(err)
	}
	u := models.User{
		ID:           uuid.NewString(),
		Username:     name,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, Internal(err)
	}
	return &u, nil
}

// Login verifies credentials and opens a session. It returns the signed cookie
// token. Every credential failure yields ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	name := models.NormalizeUsername(username)
	if name == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, name)
	if err != nil {
		return "", nil, Internal(err)
	}
	if u == nil {
		s.creds.Verify(password, dummyHash())
		return "", nil, ErrInvalidCredentials
	}
	if !s.creds.Verify(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	sid, err := newSessionID()
	if err != nil {
		return "", nil, Internal(err)
	}
	now := s.now()
	sess := models.Session{
		ID:        sid,
		UserID:    u.ID,
		Username:  u.Username,
		Role:      models.NormalizeRole(string(u.Role)),
		ExpiresAt: now.Add(s.ttl).UTC(),
	}
	if err := s.sessions.Save(ctx, sess, s.ttl); err != nil {
		return "", nil, Internal(err)
	}
	token, err := s.signer.issue(sid, now, sess.ExpiresAt)
	if err != nil {
		return "", nil, Internal(err)
	}
	return token, u, nil
}

// Logout destroys the session behind token. Unknown, expired or malformed
// tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sid, err := s.signer.parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return Internal(err)
	}
	return nil
}

// Identify returns the identity snapshot stored with the session, or
// Anonymous. It reads only the session store.
func (s *AuthService) Identify(ctx context.Context, token string) (models.Identity, error) {
	sid, err := s.signer.parse(token)
	if err != nil {
		return models.Anonymous, nil
	}
	sess, err := s.sessions.Load(ctx, sid)
	if err != nil {
		return models.Anonymous, Internal(err)
	}
	if sess == nil || !s.now().Before(sess.ExpiresAt) {
		return models.Anonymous, nil
	}
	return sess.Identity(), nil
}
