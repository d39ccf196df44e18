package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/trailmatch/backend/internal/domain"
)

// SessionCookie is the cookie the session token rides in.
const SessionCookie = "trailmatch_session"

// SessionParser validates a session token and resolves the current user.
// Implemented by service.AuthService.
type SessionParser interface {
	ParseSession(ctx context.Context, token string) (domain.User, error)
}

type contextKey string

const userKey contextKey = "current_user"

// NewAuthenticator returns two middlewares sharing one token parser:
// optional attaches the user to the context when a valid token is present
// and passes through otherwise; required rejects the request with 401 when
// no valid session exists.
//
// The token is read from the session cookie first, then from a bearer
// Authorization header, so both browser and API clients work.
func NewAuthenticator(parser SessionParser) (optional, required func(http.Handler) http.Handler) {
	attach := func(next http.Handler, enforce bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token != "" {
				if user, err := parser.ParseSession(r.Context(), token); err == nil {
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
					return
				}
			}
			if enforce {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"authentication required"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	optional = func(next http.Handler) http.Handler { return attach(next, false) }
	required = func(next http.Handler) http.Handler { return attach(next, true) }
	return optional, required
}

// UserFromContext returns the authenticated user attached by the
// authenticator, if any.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey).(domain.User)
	return user, ok
}

// ContextWithUser attaches a user to the context the same way the
// authenticator does. Exported for handler tests.
func ContextWithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
