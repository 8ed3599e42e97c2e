package coachvault

import "time"

// Authenticate verifies a session token's signature and expiry and returns
// the decoded session. Any failure, including an expired but
// signature-valid token, yields [ErrUnauthenticated]. Verification is
// CPU-only: no store or network access.
func (e *Engine) Authenticate(token string) (*Session, error) {
	if e == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := e.jwtManager.ParseSession(token)
	if err != nil {
		e.metricInc(MetricSessionRejected)
		return nil, ErrUnauthenticated
	}

	sess := &Session{
		Username:  claims.Username,
		Role:      Role(claims.Role),
		SessionID: claims.SessionID,
		AvatarURL: claims.AvatarURL,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}

	return sess, nil
}

// RequireRole enforces the role floor on an authenticated session.
// Returns [ErrUnauthenticated] for a missing or expired session and
// [ErrForbidden] for an insufficient role, in that order.
func (e *Engine) RequireRole(sess *Session, min Role) error {
	if sess == nil || sess.Username == "" {
		return ErrUnauthenticated
	}
	if !sess.ExpiresAt.IsZero() && !time.Now().Before(sess.ExpiresAt) {
		return ErrUnauthenticated
	}
	if !sess.Role.Satisfies(min) {
		return ErrForbidden
	}
	return nil
}

// guard runs the unauthenticated-before-forbidden ordering every mutator
// relies on.
func (e *Engine) guard(sess *Session, min Role) error {
	return e.RequireRole(sess, min)
}
