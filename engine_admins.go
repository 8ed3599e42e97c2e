package coachvault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futurepoint/coachvault/store"
)

// fetchRegistry reads the roster object and returns it with its current
// version token for CAS.
func (e *Engine) fetchRegistry(ctx context.Context, credential string) (AdminRegistry, string, error) {
	obj, err := e.store.Get(ctx, e.config.Store.RegistryPath, credential)
	if err != nil {
		return AdminRegistry{}, "", fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	registry, err := decodeAdminRegistry(obj.Content)
	if err != nil {
		return AdminRegistry{}, "", fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	return registry, obj.Version, nil
}

func (e *Engine) writeRegistry(
	ctx context.Context,
	registry AdminRegistry,
	version string,
	message string,
	credential string,
) (*RegistryUpdate, error) {
	content, err := encodeAdminRegistry(registry)
	if err != nil {
		return nil, err
	}

	result, err := e.store.Put(ctx, e.config.Store.RegistryPath, store.PutRequest{
		Content:         content,
		Message:         message,
		ExpectedVersion: version,
	}, credential)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &RegistryUpdate{
		Registry: registry,
		Version:  result.Object.Version,
		Commit:   result.Commit,
	}, nil
}

// AddAdmin appends a username to the admins set via a read-modify-write
// against the current registry version. A stale version yields
// [ErrConflict]; the caller must re-fetch and retry explicitly.
// Requires [RoleSuperAdmin].
func (e *Engine) AddAdmin(ctx context.Context, sess *Session, targetUsername, credential string) (*RegistryUpdate, error) {
	if e == nil || e.store == nil || e.identity == nil {
		return nil, ErrEngineNotReady
	}

	caller := sessionUsername(sess)
	if err := e.guard(sess, RoleSuperAdmin); err != nil {
		e.emitAudit(ctx, auditEventAdminAddFailed, false, caller, sessionID(sess), err, nil)
		return nil, err
	}

	target := strings.TrimSpace(targetUsername)
	if target == "" {
		e.metricInc(MetricValidationRejected)
		err := newValidationError("target username is required")
		e.emitAudit(ctx, auditEventAdminAddFailed, false, caller, sess.SessionID, err, nil)
		return nil, err
	}

	exists, err := e.identity.Exists(ctx, target, credential)
	if err != nil {
		e.metricInc(MetricAdminMutationFailure)
		e.emitAudit(ctx, auditEventAdminAddFailed, false, caller, sess.SessionID, ErrUnavailable, func() map[string]string {
			return map[string]string{"target": target, "reason": "identity_lookup_failed"}
		})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !exists {
		e.metricInc(MetricValidationRejected)
		verr := newValidationError(fmt.Sprintf("user %q not found", target))
		e.emitAudit(ctx, auditEventAdminAddFailed, false, caller, sess.SessionID, verr, func() map[string]string {
			return map[string]string{"target": target}
		})
		return nil, verr
	}

	registry, version, err := e.fetchRegistry(ctx, credential)
	if err != nil {
		e.metricInc(MetricAdminMutationFailure)
		e.emitAudit(ctx, auditEventAdminAddFailed, false, caller, sess.SessionID, err, nil)
		return nil, err
	}

	if registry.Contains(target) {
		e.metricInc(MetricValidationRejected)
		verr := newValidationError(fmt.Sprintf("%q is already an admin", target))
		e.emitAudit(ctx, auditEventAdminAddFailed, false, caller, sess.SessionID, verr, func() map[string]string {
			return map[string]string{"target": target}
		})
		return nil, verr
	}

	registry.Admins = append(registry.Admins, target)

	message := fmt.Sprintf("Update admins.json: add %s (by %s)", target, caller)
	update, err := e.writeRegistry(ctx, registry, version, message, credential)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			e.metricInc(MetricCASConflict)
		} else {
			e.metricInc(MetricAdminMutationFailure)
		}
		e.emitAudit(ctx, auditEventAdminAddFailed, false, caller, sess.SessionID, err, func() map[string]string {
			return map[string]string{"target": target}
		})
		return nil, err
	}

	e.metricInc(MetricAdminAdded)
	e.emitAudit(ctx, auditEventAdminAdded, true, caller, sess.SessionID, nil, func() map[string]string {
		return map[string]string{"target": target}
	})

	return update, nil
}

// RemoveAdmin removes a username from the admins set. Super admins are
// immutable through this path: targeting one yields [ErrForbidden]
// regardless of caller. Requires [RoleSuperAdmin].
func (e *Engine) RemoveAdmin(ctx context.Context, sess *Session, targetUsername, credential string) (*RegistryUpdate, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	caller := sessionUsername(sess)
	if err := e.guard(sess, RoleSuperAdmin); err != nil {
		e.emitAudit(ctx, auditEventAdminRemoveFailed, false, caller, sessionID(sess), err, nil)
		return nil, err
	}

	target := strings.TrimSpace(targetUsername)
	if target == "" {
		e.metricInc(MetricValidationRejected)
		err := newValidationError("target username is required")
		e.emitAudit(ctx, auditEventAdminRemoveFailed, false, caller, sess.SessionID, err, nil)
		return nil, err
	}

	registry, version, err := e.fetchRegistry(ctx, credential)
	if err != nil {
		e.metricInc(MetricAdminMutationFailure)
		e.emitAudit(ctx, auditEventAdminRemoveFailed, false, caller, sess.SessionID, err, nil)
		return nil, err
	}

	if registry.IsSuperAdmin(target) {
		ferr := fmt.Errorf("%w: cannot remove a super admin", ErrForbidden)
		e.emitAudit(ctx, auditEventAdminRemoveFailed, false, caller, sess.SessionID, ferr, func() map[string]string {
			return map[string]string{"target": target}
		})
		return nil, ferr
	}
	if !registry.IsAdmin(target) {
		e.metricInc(MetricValidationRejected)
		verr := newValidationError(fmt.Sprintf("%q is not an admin", target))
		e.emitAudit(ctx, auditEventAdminRemoveFailed, false, caller, sess.SessionID, verr, func() map[string]string {
			return map[string]string{"target": target}
		})
		return nil, verr
	}

	registry.Admins = removeFold(registry.Admins, target)

	message := fmt.Sprintf("Update admins.json: remove %s (by %s)", target, caller)
	update, err := e.writeRegistry(ctx, registry, version, message, credential)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			e.metricInc(MetricCASConflict)
		} else {
			e.metricInc(MetricAdminMutationFailure)
		}
		e.emitAudit(ctx, auditEventAdminRemoveFailed, false, caller, sess.SessionID, err, func() map[string]string {
			return map[string]string{"target": target}
		})
		return nil, err
	}

	e.metricInc(MetricAdminRemoved)
	e.emitAudit(ctx, auditEventAdminRemoved, true, caller, sess.SessionID, nil, func() map[string]string {
		return map[string]string{"target": target}
	})

	return update, nil
}

func sessionUsername(sess *Session) string {
	if sess == nil {
		return ""
	}
	return sess.Username
}

func sessionID(sess *Session) string {
	if sess == nil {
		return ""
	}
	return sess.SessionID
}
