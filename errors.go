package coachvault

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is wrapped by every [ValidationError]. Match with errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredential reports that the identity endpoint rejected the credential.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrUsernameMismatch reports that the claimed username does not match the
	// canonical one behind the credential. Distinct from ErrInvalidCredential so
	// callers can explain the discrepancy.
	ErrUsernameMismatch = errors.New("username mismatch")
	// ErrRegistryUnavailable reports that the admin roster could not be fetched.
	ErrRegistryUnavailable = errors.New("admin registry unavailable")
	// ErrNotAuthorized reports that the canonical username is in neither roster set.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrUnauthenticated reports a missing, invalid, or expired session token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden reports a valid session with insufficient role, or a
	// policy-protected target.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict reports a CAS version mismatch. The caller must re-fetch and
	// retry explicitly; nothing retries automatically.
	ErrConflict = errors.New("modified concurrently, retry")
	// ErrNotFound reports that the target object is absent.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable reports that the remote store or identity endpoint could not
	// be reached or answered with an unexpected status.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrListingTooLarge reports that the namespace walk exceeded the configured
	// depth or entry bounds.
	ErrListingTooLarge = errors.New("listing exceeds configured bounds")
	// ErrLoginRateLimited reports that the login attempt budget is exhausted.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrEngineNotReady reports a call on a partially initialized engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// ValidationError carries the full list of violated rules for one call.
// Validation is not fail-fast: callers need every violation at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(violations ...string) error {
	return &ValidationError{Violations: violations}
}

// violations accumulates rule failures across a whole validation pass.
type violations struct {
	list []string
}

func (v *violations) add(msg string) {
	v.list = append(v.list, msg)
}

func (v *violations) addf(format string, args ...any) {
	v.list = append(v.list, fmt.Sprintf(format, args...))
}

func (v *violations) err() error {
	if len(v.list) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.list}
}
