package middleware

import (
	"context"
	"net/http"

	"blogg/internal/common"
	"blogg/internal/common/security"
	"blogg/internal/platform/session"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const identityCtxKey contextKey = "identity"

// SessionCookieName carries the opaque session token for browser traffic.
const SessionCookieName = "blogg_session"

// Identify resolves the caller's identity, if any, and stores it in the
// request context. A session cookie wins over a bearer token. Anonymous
// requests pass through untouched; the guards below decide what that means
// per route.
func Identify(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if id, err := store.Get(r.Context(), cookie.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
					return
				}
			}

			// Bearer token from jwtauth.Verifier, for API clients.
			if token, claims, err := jwtauth.FromContext(r.Context()); err == nil && token != nil {
				userID, uidErr := security.GetUserIDFromClaims(claims)
				username, nameErr := security.GetUsernameFromClaims(claims)
				if uidErr == nil && nameErr == nil {
					id := session.Identity{UserID: userID, Username: username}
					next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPI rejects anonymous requests with a 401 JSON body. The store is
// never touched on the rejection path.
func RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentityFromContext(r.Context()); !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage sends anonymous browsers to the login form. Same short-circuit
// contract as RequireAPI, different outcome.
func RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentityFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, id session.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// GetIdentityFromContext returns the authenticated identity, if the request
// has one. Handlers pass it down to services explicitly.
func GetIdentityFromContext(ctx context.Context) (session.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(session.Identity)
	return id, ok
}
