package handlers

import (
	"context"
	"net/http"
	"sync"

	"catalog_api/internal/models"
	"catalog_api/internal/query"
	"catalog_api/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser *models.User
	registerErr  error
	loginToken   string
	loginUser    *models.User
	loginErr     error
	logoutErr    error
	identities   map[string]models.Identity
	identifyErr  error

	lastRegisterUsername string
	lastRegisterPassword string
	lastLoginUsername    string
	lastLogoutToken      string
	logoutCalls          int
}

func (m *mockAuth) Register(ctx context.Context, username, password string) (*models.User, error) {
	m.lastRegisterUsername = username
	m.lastRegisterPassword = password
	return m.registerUser, m.registerErr
}
func (m *mockAuth) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	m.lastLoginUsername = username
	return m.loginToken, m.loginUser, m.loginErr
}
func (m *mockAuth) Logout(ctx context.Context, token string) error {
	m.logoutCalls++
	m.lastLogoutToken = token
	return m.logoutErr
}
func (m *mockAuth) Identify(ctx context.Context, token string) (models.Identity, error) {
	if m.identifyErr != nil {
		return models.Anonymous, m.identifyErr
	}
	if who, ok := m.identities[token]; ok {
		return who, nil
	}
	return models.Anonymous, nil
}

type mockItems struct {
	mu        sync.Mutex
	listDocs  []models.Document
	listErr   error
	lastQuery query.Query
	listCalls int

	item    *models.Item
	itemErr error

	lastID      string
	lastPayload map[string]any
	lastWho     models.Identity
	createCalls int
}

func (m *mockItems) List(ctx context.Context, q query.Query) ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q
	m.listCalls++
	return m.listDocs, m.listErr
}
func (m *mockItems) Get(ctx context.Context, id string) (*models.Item, error) {
	m.lastID = id
	return m.item, m.itemErr
}
func (m *mockItems) Create(ctx context.Context, payload map[string]any, who models.Identity) (*models.Item, error) {
	m.createCalls++
	m.lastPayload = payload
	m.lastWho = who
	return m.item, m.itemErr
}
func (m *mockItems) Update(ctx context.Context, id string, payload map[string]any, who models.Identity) (*models.Item, error) {
	m.lastID = id
	m.lastPayload = payload
	m.lastWho = who
	return m.item, m.itemErr
}
func (m *mockItems) Delete(ctx context.Context, id string, who models.Identity) (*models.Item, error) {
	m.lastID = id
	m.lastWho = who
	return m.item, m.itemErr
}

func (m *mockItems) snapshot() (query.Query, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastQuery, m.listCalls
}

// ---- Shared Test Helpers ----

var (
	alice = models.Identity{UserID: "u-alice", Username: "alice", Role: models.RoleUser}
	root  = models.Identity{UserID: "u-root", Username: "root", Role: models.RoleAdmin}
)

// newTestService knows the session tokens "alice" and "root".
func newTestService(items *mockItems) (*service.Service, *mockAuth) {
	auth := &mockAuth{identities: map[string]models.Identity{"alice": alice, "root": root}}
	if items == nil {
		items = &mockItems{}
	}
	return &service.Service{Authorization: auth, Items: items}, auth
}

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWith(s, Options{})
}

func newTestRouterWith(s *service.Service, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts)
	return h.InitRoutes()
}

func withSession(req *http.Request, token string) *http.Request {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: defaultCookieName, Value: token})
	}
	return req
}
