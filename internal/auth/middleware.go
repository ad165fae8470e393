package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/byteserenity/blog/internal/model"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "session"

// LoginPath is where the gate sends anonymous callers.
const LoginPath = "/auth/login"

// IdentityResolver turns a session token into the user it is bound to.
// Implemented by service.AuthService. A missing, expired, or unknown token
// resolves to (nil, nil) - anonymous is not an error.
type IdentityResolver interface {
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the identity value.
type contextKey string

const identityKey contextKey = "identity"

// WithIdentity resolves the request's identity exactly once and stores it in
// the context for the rest of the request. Every route sits behind this
// middleware; handlers and the gate only ever read the resolved value - they
// never trigger a second lookup.
//
// Resolution is a single sessions→users read with no side effects. If the
// store is unreachable the request proceeds as anonymous with the failure
// logged; gated routes then bounce to login rather than acting on a guessed
// identity.
func WithIdentity(resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				// No session cookie - anonymous request.
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.CurrentUser(r.Context(), cookie.Value)
			if err != nil {
				logger.Error("resolving session identity",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				// Token unknown or expired - anonymous.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireIdentity is the authorization gate for identity-requiring routes.
//
// Anonymous callers are redirected to the login page and the wrapped handler
// never runs - not even partially. Authenticated callers pass through with
// the resolved user already in the context.
//
// This is the ONLY place identity is enforced. Handlers under this gate may
// assume UserFromContext succeeds; none of them re-check on their own.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a context carrying the resolved user. Exported so tests
// can seed an identity without a real session.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns (nil, false) for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(identityKey).(*model.User)
	return user, ok && user != nil
}
