package repository

import (
	"context"
	"testing"
	"time"

	"catalog_api/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestSessions(t *testing.T) (*SessionRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionRedis(rdb), mr
}

func TestSessionRedis_SaveLoadDelete(t *testing.T) {
	repo, mr := newTestSessions(t)
	ctx := context.Background()

	s := models.Session{
		ID:        "sid-1",
		UserID:    "u1",
		Username:  "alice",
		Role:      models.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	if err := repo.Save(ctx, s, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists("sess:sid-1") {
		t.Fatalf("expected key sess:sid-1, keys=%v", mr.Keys())
	}
	if ttl := mr.TTL("sess:sid-1"); ttl != time.Hour {
		t.Fatalf("ttl=%v", ttl)
	}

	got, err := repo.Load(ctx, "sid-1")
	if err != nil || got == nil {
		t.Fatalf("Load = %+v, %v", got, err)
	}
	if got.ID != s.ID || got.UserID != s.UserID || got.Username != s.Username ||
		got.Role != s.Role || !got.ExpiresAt.Equal(s.ExpiresAt) {
		t.Fatalf("got %+v want %+v", *got, s)
	}

	if err := repo.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, err := repo.Load(ctx, "sid-1"); got != nil || err != nil {
		t.Fatalf("Load after delete = %+v, %v", got, err)
	}
	// idempotent
	if err := repo.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestSessionRedis_Expiry(t *testing.T) {
	repo, mr := newTestSessions(t)
	ctx := context.Background()

	s := models.Session{ID: "sid-2", UserID: "u1", Username: "alice", Role: models.RoleUser, ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Save(ctx, s, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if got, err := repo.Load(ctx, "sid-2"); got != nil || err != nil {
		t.Fatalf("expected expired session to vanish, got %+v, %v", got, err)
	}

	// the stored expiry is honored even if the key outlives it
	stale := models.Session{ID: "sid-3", UserID: "u1", ExpiresAt: time.Now().Add(-time.Second)}
	if err := repo.Save(ctx, stale, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, err := repo.Load(ctx, "sid-3"); got != nil || err != nil {
		t.Fatalf("expected stale session to be ignored, got %+v, %v", got, err)
	}
}

func TestSessionRedis_Errors(t *testing.T) {
	repo, mr := newTestSessions(t)
	ctx := context.Background()

	if err := repo.Save(ctx, models.Session{}, time.Hour); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if err := repo.Save(ctx, models.Session{ID: "x"}, 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}

	if err := mr.Set("sess:bad", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.Load(ctx, "bad"); err == nil {
		t.Fatalf("expected decode error")
	}

	mr.Close()
	if _, err := repo.Load(ctx, "sid"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
