package coachvault

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	fs := newFakeStore()
	seedRegistry(t, fs, AdminRegistry{SuperAdmins: []string{"root"}})
	fi := newFakeIdentity()
	fi.addUser("root", "root-cred")

	cfg := DefaultConfig()
	cfg.Session.PrivateKey = []byte("test-secret")
	cfg.Session.TTL = time.Millisecond

	engine, err := New().WithConfig(cfg).WithStore(fs).WithIdentity(fi).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	result, err := engine.Login(context.Background(), "root", "root-cred")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	// Signature is still valid; only expiry has passed.
	if _, err := engine.Authenticate(result.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := env.engine.Authenticate(token); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("token %q: expected ErrUnauthenticated, got %v", token, err)
		}
	}
}

func TestRequireRoleOrdering(t *testing.T) {
	env := newTestEnv(t)

	expired := adminSession("alice", RoleAdmin)
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	cases := []struct {
		name string
		sess *Session
		min  Role
		want error
	}{
		{"nil session", nil, RoleAdmin, ErrUnauthenticated},
		{"expired before forbidden", expired, RoleSuperAdmin, ErrUnauthenticated},
		{"admin satisfies admin", adminSession("alice", RoleAdmin), RoleAdmin, nil},
		{"admin lacks super", adminSession("alice", RoleAdmin), RoleSuperAdmin, ErrForbidden},
		{"super satisfies admin", adminSession("root", RoleSuperAdmin), RoleAdmin, nil},
		{"super satisfies super", adminSession("root", RoleSuperAdmin), RoleSuperAdmin, nil},
		{"unknown role", adminSession("x", Role("viewer")), RoleAdmin, ErrForbidden},
	}

	for _, tc := range cases {
		err := env.engine.RequireRole(tc.sess, tc.min)
		if !errors.Is(err, tc.want) && !(err == nil && tc.want == nil) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
