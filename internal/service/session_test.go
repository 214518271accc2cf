package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewSessionID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := newSessionID()
		if err != nil {
			t.Fatalf("newSessionID: %v", err)
		}
		if len(id) != 43 { // 32 bytes, unpadded base64url
			t.Fatalf("unexpected id length %d: %q", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}
}

func TestSessionSigner_RoundTrip(t *testing.T) {
	s := sessionSigner{key: testSecret}
	now := time.Now()
	tok, err := s.issue("sid-1", now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sid, err := s.parse(tok)
	if err != nil || sid != "sid-1" {
		t.Fatalf("parse = %q, %v", sid, err)
	}
}

func TestSessionSigner_Rejects(t *testing.T) {
	s := sessionSigner{key: testSecret}
	now := time.Now()

	expired, _ := s.issue("sid", now.Add(-2*time.Hour), now.Add(-time.Hour))
	otherKey, _ := sessionSigner{key: []byte("nope")}.issue("sid", now, now.Add(time.Hour))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "sid"}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	noID, _ := s.issue("", now, now.Add(time.Hour))
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ID:        "sid",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	cases := map[string]string{
		"empty":     "",
		"garbage":   "abc.def.ghi",
		"expired":   expired,
		"other key": otherKey,
		"no exp":    noExp,
		"no id":     noID,
		"alg none":  none,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := s.parse(tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
