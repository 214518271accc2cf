package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"catalog_api/internal/models"
	"catalog_api/internal/query"
)

// fakeUsers is an in-memory repository.Authorization.
type fakeUsers struct {
	byName    map[string]models.User
	createErr error
	getErr    error
	creates   int
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byName: map[string]models.User{}} }

func (f *fakeUsers) Create(ctx context.Context, u models.User) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	f.byName[u.Username] = u
	return nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// fakeSessions is an in-memory repository.SessionRepo.
type fakeSessions struct {
	mu      sync.Mutex
	m       map[string]models.Session
	ttls    map[string]time.Duration
	saveErr error
	loadErr error
	deletes int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{m: map[string]models.Session{}, ttls: map[string]time.Duration{}}
}

func (f *fakeSessions) Save(ctx context.Context, s models.Session, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.m[s.ID] = s
	f.ttls[s.ID] = ttl
	return nil
}

func (f *fakeSessions) Load(ctx context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	s, ok := f.m[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.m, id)
	return nil
}

func (f *fakeSessions) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.m)
}

// fakeItems is an in-memory repository.ItemRepo.
type fakeItems struct {
	m       map[string]models.Item
	err     error
	updates int
	deletes int
}

func newFakeItems(items ...models.Item) *fakeItems {
	f := &fakeItems{m: map[string]models.Item{}}
	for _, it := range items {
		f.m[it.ID] = it
	}
	return f
}

func (f *fakeItems) List(ctx context.Context, q query.Query) ([]models.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Document, 0, len(f.m))
	for _, it := range f.m {
		raw, _ := json.Marshal(it)
		var doc models.Document
		_ = json.Unmarshal(raw, &doc)
		out = append(out, q.Project(doc))
	}
	return out, nil
}

func (f *fakeItems) Get(ctx context.Context, id string) (*models.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.m[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (f *fakeItems) Insert(ctx context.Context, it models.Item) error {
	if f.err != nil {
		return f.err
	}
	f.m[it.ID] = it
	return nil
}

// Update merges fields the way json_set does on the stored document.
func (f *fakeItems) Update(ctx context.Context, id string, fields map[string]any) (*models.Item, error) {
	f.updates++
	it, ok := f.m[id]
	if !ok {
		return nil, nil
	}
	raw, _ := json.Marshal(it)
	var doc map[string]any
	_ = json.Unmarshal(raw, &doc)
	for k, v := range fields {
		doc[k] = v
	}
	raw, _ = json.Marshal(doc)
	var out models.Item
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	f.m[id] = out
	return &out, nil
}

func (f *fakeItems) Delete(ctx context.Context, id string) (*models.Item, error) {
	f.deletes++
	it, ok := f.m[id]
	if !ok {
		return nil, nil
	}
	delete(f.m, id)
	return &it, nil
}
