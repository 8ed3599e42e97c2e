package coachvault

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess      = "login_success"
	auditEventLoginFailure      = "login_failure"
	auditEventLoginRateLimited  = "login_rate_limited"
	auditEventAdminAdded        = "admin_added"
	auditEventAdminAddFailed    = "admin_add_failure"
	auditEventAdminRemoved      = "admin_removed"
	auditEventAdminRemoveFailed = "admin_remove_failure"
	auditEventNoteUploaded      = "note_uploaded"
	auditEventNoteUploadFailed  = "note_upload_failure"
	auditEventNoteDeleted       = "note_deleted"
	auditEventNoteDeleteFailed  = "note_delete_failure"
	auditEventListingServed     = "listing_served"
	auditEventListingFailed     = "listing_failure"
	auditEventRateLimitHit      = "rate_limit_triggered"
)

// AuditErrorCode is the stable error label carried in audit events.
type AuditErrorCode string

const (
	auditErrValidation      AuditErrorCode = "validation"
	auditErrInvalidCred     AuditErrorCode = "invalid_credential"
	auditErrNameMismatch    AuditErrorCode = "username_mismatch"
	auditErrNotAuthorized   AuditErrorCode = "not_authorized"
	auditErrUnauthenticated AuditErrorCode = "unauthenticated"
	auditErrForbidden       AuditErrorCode = "forbidden"
	auditErrConflict        AuditErrorCode = "conflict"
	auditErrNotFound        AuditErrorCode = "not_found"
	auditErrTooLarge        AuditErrorCode = "listing_too_large"
	auditErrRateLimited     AuditErrorCode = "rate_limited"
	auditErrUnavailable     AuditErrorCode = "upstream_unavailable"
	auditErrInternal        AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	username string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Username:  username,
		SessionID: sessionID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitRateLimit(ctx context.Context, scope, username string) {
	e.metricInc(MetricRateLimitHit)
	e.emitAudit(ctx, auditEventRateLimitHit, false, username, "", nil, func() map[string]string {
		return map[string]string{
			"scope": scope,
		}
	})
}

// auditErrorCode maps errors onto stable labels. Only sentinel identity is
// recorded, never the wrapped detail.
func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrValidation):
		return auditErrValidation
	case errors.Is(err, ErrInvalidCredential):
		return auditErrInvalidCred
	case errors.Is(err, ErrUsernameMismatch):
		return auditErrNameMismatch
	case errors.Is(err, ErrNotAuthorized):
		return auditErrNotAuthorized
	case errors.Is(err, ErrUnauthenticated):
		return auditErrUnauthenticated
	case errors.Is(err, ErrForbidden):
		return auditErrForbidden
	case errors.Is(err, ErrConflict):
		return auditErrConflict
	case errors.Is(err, ErrNotFound):
		return auditErrNotFound
	case errors.Is(err, ErrListingTooLarge):
		return auditErrTooLarge
	case errors.Is(err, ErrLoginRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrRegistryUnavailable),
		errors.Is(err, ErrUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
