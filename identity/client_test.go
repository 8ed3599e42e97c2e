package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPClient(Config{BaseURL: srv.URL}, srv.Client())
}

func TestWhoAmIResolvesProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token pat-1" {
			t.Errorf("unexpected authorization header %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"login":      "Alice",
			"avatar_url": "https://example.test/alice.png",
		})
	})

	profile, err := client.WhoAmI(context.Background(), "pat-1")
	if err != nil {
		t.Fatalf("WhoAmI failed: %v", err)
	}
	if profile.Username != "Alice" {
		t.Fatalf("expected Alice, got %q", profile.Username)
	}
	if profile.AvatarURL == "" {
		t.Fatal("expected avatar url")
	}
}

func TestWhoAmIRejectsBadCredential(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := client.WhoAmI(context.Background(), "bad"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestWhoAmIRejectsEmptyCredentialWithoutNetworkCall(t *testing.T) {
	called := false
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		called = true
	})

	if _, err := client.WhoAmI(context.Background(), ""); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if called {
		t.Fatal("empty credential must not reach the endpoint")
	}
}

func TestWhoAmIUnexpectedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := client.WhoAmI(context.Background(), "pat"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestExists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/alice":
			_ = json.NewEncoder(w).Encode(map[string]string{"login": "alice"})
		case "/users/ghost":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	ok, err := client.Exists(context.Background(), "alice", "")
	if err != nil || !ok {
		t.Fatalf("expected alice to exist, got ok=%v err=%v", ok, err)
	}

	ok, err = client.Exists(context.Background(), "ghost", "")
	if err != nil || ok {
		t.Fatalf("expected ghost to be absent, got ok=%v err=%v", ok, err)
	}

	if _, err := client.Exists(context.Background(), "broken", ""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
