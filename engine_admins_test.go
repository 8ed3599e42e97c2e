package coachvault

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestAddAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.identity.addUser("bob", "")
	ctx := context.Background()
	sess := adminSession("root", RoleSuperAdmin)

	update, err := env.engine.AddAdmin(ctx, sess, "bob", "root-cred")
	if err != nil {
		t.Fatalf("AddAdmin failed: %v", err)
	}
	if !update.Registry.IsAdmin("bob") {
		t.Fatalf("expected bob in admins, got %+v", update.Registry)
	}
	if update.Version == "" {
		t.Fatal("expected a new version token")
	}

	// Written object reflects the mutation.
	obj, err := env.store.Get(ctx, "admins/admins.json", "root-cred")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	written, err := decodeAdminRegistry(obj.Content)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !written.IsAdmin("bob") || !written.IsSuperAdmin("root") {
		t.Fatalf("unexpected stored registry %+v", written)
	}
}

func TestAddAdminGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.engine.AddAdmin(ctx, nil, "bob", "cred"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for nil session, got %v", err)
	}

	sess := adminSession("alice", RoleAdmin)
	if _, err := env.engine.AddAdmin(ctx, sess, "bob", "alice-cred"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain admin, got %v", err)
	}
}

func TestAddAdminValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := adminSession("root", RoleSuperAdmin)

	if _, err := env.engine.AddAdmin(ctx, sess, "  ", "root-cred"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank target, got %v", err)
	}

	// Nonexistent upstream user.
	if _, err := env.engine.AddAdmin(ctx, sess, "ghost", "root-cred"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown user, got %v", err)
	}

	// Membership checks are case-insensitive in both sets.
	env.identity.addUser("ALICE", "")
	if _, err := env.engine.AddAdmin(ctx, sess, "ALICE", "root-cred"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for existing admin, got %v", err)
	}
	if _, err := env.engine.AddAdmin(ctx, sess, "root", "root-cred"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for existing super admin, got %v", err)
	}
}

func TestAddAdminStaleVersionConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.identity.addUser("bob", "")
	env.identity.addUser("carol", "")
	ctx := context.Background()
	sess := adminSession("root", RoleSuperAdmin)

	registry, version, err := env.engine.fetchRegistry(ctx, "root-cred")
	if err != nil {
		t.Fatalf("fetchRegistry failed: %v", err)
	}

	// A concurrent writer advances the version.
	if _, err := env.engine.AddAdmin(ctx, sess, "carol", "root-cred"); err != nil {
		t.Fatalf("AddAdmin failed: %v", err)
	}

	// Writing with the stale token must lose.
	registry.Admins = append(registry.Admins, "bob")
	_, err = env.engine.writeRegistry(ctx, registry, version, "stale write", "root-cred")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for stale version, got %v", err)
	}
}

func TestRemoveAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := adminSession("root", RoleSuperAdmin)

	update, err := env.engine.RemoveAdmin(ctx, sess, "alice", "root-cred")
	if err != nil {
		t.Fatalf("RemoveAdmin failed: %v", err)
	}
	if update.Registry.IsAdmin("alice") {
		t.Fatalf("expected alice removed, got %+v", update.Registry)
	}
}

func TestRemoveAdminProtectsSuperAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Super-admin caller: policy check fires.
	sess := adminSession("root", RoleSuperAdmin)
	_, err := env.engine.RemoveAdmin(ctx, sess, "root", "root-cred")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if !strings.Contains(err.Error(), "super admin") {
		t.Fatalf("expected policy message, got %q", err.Error())
	}

	// Non-privileged caller: the guard fires first, before the policy.
	plain := adminSession("alice", RoleAdmin)
	_, err = env.engine.RemoveAdmin(ctx, plain, "root", "alice-cred")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden from guard, got %v", err)
	}
	if strings.Contains(err.Error(), "super admin") {
		t.Fatal("guard must reject before the policy check runs")
	}
}

func TestRemoveAdminNotAnAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := adminSession("root", RoleSuperAdmin)

	_, err := env.engine.RemoveAdmin(ctx, sess, "nobody", "root-cred")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRegistryDisjointness(t *testing.T) {
	reg := AdminRegistry{SuperAdmins: []string{"Root"}, Admins: []string{"root"}}
	if err := reg.Validate(); err == nil {
		t.Fatal("expected disjointness violation across case variants")
	}

	ok := AdminRegistry{SuperAdmins: []string{"root"}, Admins: []string{"alice"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
