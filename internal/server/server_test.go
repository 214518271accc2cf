package server

import (
	"context"
	"testing"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":               ":5000",
		"8080":           ":8080",
		":8080":          ":8080",
		" 9000 ":         ":9000",
		"127.0.0.1:8080": "127.0.0.1:8080",
	}
	for in, want := range cases {
		if got := NormalizeAddr(in); got != want {
			t.Errorf("NormalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShutdown_BeforeRunIsNoop(t *testing.T) {
	var s Server
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown on idle server: %v", err)
	}
}
