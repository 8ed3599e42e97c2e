package middleware

import (
	"context"
	"net/http"

	coachvault "github.com/futurepoint/coachvault"
)

type sessionContextKey struct{}

// SessionFromContext returns the session injected by a guard.
func SessionFromContext(ctx context.Context) (*coachvault.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*coachvault.Session)
	return sess, ok
}

// Guard admits any authenticated session.
func Guard(engine *coachvault.Engine) func(http.Handler) http.Handler {
	return RequireRole(engine, coachvault.RoleAdmin)
}

// RequireRole admits sessions meeting the role floor. Missing or expired
// sessions are 401; insufficient role is 403.
func RequireRole(engine *coachvault.Engine, min coachvault.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := sessionToken(r, engine.SessionCookieName())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			sess, err := engine.Authenticate(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := engine.RequireRole(sess, min); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request, cookieName string) (string, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
