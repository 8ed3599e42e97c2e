package coachvault

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/futurepoint/coachvault/internal/rate"
	"github.com/google/uuid"
)

// Login turns a claimed username and a bearer credential into a signed,
// time-boxed session. The credential is used for the identity check and
// the registry fetch, then discarded: it is not embedded in the session
// and not retained anywhere.
func (e *Engine) Login(ctx context.Context, claimedUsername, credential string) (*LoginResult, error) {
	if e == nil || e.jwtManager == nil || e.identity == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	// Validation runs before any external call.
	var v violations
	if strings.TrimSpace(claimedUsername) == "" {
		v.add("username is required")
	}
	if credential == "" {
		v.add("credential is required")
	}
	if err := v.err(); err != nil {
		e.metricInc(MetricValidationRejected)
		e.emitAudit(ctx, auditEventLoginFailure, false, claimedUsername, "", err, func() map[string]string {
			return map[string]string{"reason": "invalid_input"}
		})
		return nil, err
	}

	ip := clientIPFromContext(ctx)
	if e.rateLimiter != nil {
		if err := e.rateLimiter.CheckLogin(ctx, claimedUsername, ip); err != nil {
			e.metricInc(MetricLoginRateLimited)
			e.emitAudit(ctx, auditEventLoginRateLimited, false, claimedUsername, "", ErrLoginRateLimited, nil)
			e.emitRateLimit(ctx, "login", claimedUsername)
			return nil, ErrLoginRateLimited
		}
	}

	profile, err := e.identity.WhoAmI(ctx, credential)
	if err != nil {
		e.recordLoginFailure(ctx, claimedUsername, ip, "credential_rejected")
		return nil, ErrInvalidCredential
	}

	if !strings.EqualFold(profile.Username, claimedUsername) {
		e.recordLoginFailure(ctx, claimedUsername, ip, "username_mismatch")
		return nil, ErrUsernameMismatch
	}
	canonical := profile.Username

	registry, _, err := e.fetchRegistry(ctx, credential)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, canonical, "", ErrRegistryUnavailable, func() map[string]string {
			return map[string]string{"reason": "registry_fetch_failed"}
		})
		return nil, ErrRegistryUnavailable
	}

	role, ok := registry.RoleOf(canonical)
	if !ok {
		e.recordLoginFailure(ctx, canonical, ip, "not_in_roster")
		return nil, ErrNotAuthorized
	}

	sessionID := uuid.NewString()
	now := time.Now()

	token, err := e.jwtManager.CreateSession(canonical, string(role), sessionID, profile.AvatarURL)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, canonical, sessionID, err, func() map[string]string {
			return map[string]string{"reason": "token_mint_failed"}
		})
		return nil, fmt.Errorf("mint session: %w", err)
	}

	if e.rateLimiter != nil {
		// Counter reset is best-effort; a failure must not undo the login.
		if err := e.rateLimiter.ResetLogin(ctx, claimedUsername, ip); err != nil {
			log.Print("coachvault: login limiter reset failed")
		}
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, canonical, sessionID, nil, func() map[string]string {
		return map[string]string{"role": string(role)}
	})

	return &LoginResult{
		Token: token,
		Session: Session{
			Username:  canonical,
			Role:      role,
			SessionID: sessionID,
			AvatarURL: profile.AvatarURL,
			IssuedAt:  now,
			ExpiresAt: now.Add(e.config.Session.TTL),
		},
		Profile: UserProfile{
			Username:  canonical,
			Role:      role,
			AvatarURL: profile.AvatarURL,
		},
	}, nil
}

func (e *Engine) recordLoginFailure(ctx context.Context, username, ip, reason string) {
	if e.rateLimiter != nil {
		if err := e.rateLimiter.IncrementLogin(ctx, username, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
			} else {
				log.Print("coachvault: login limiter increment failed")
			}
		}
	}
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, username, "", loginFailureError(reason), func() map[string]string {
		return map[string]string{"reason": reason}
	})
}

func loginFailureError(reason string) error {
	switch reason {
	case "username_mismatch":
		return ErrUsernameMismatch
	case "not_in_roster":
		return ErrNotAuthorized
	default:
		return ErrInvalidCredential
	}
}
