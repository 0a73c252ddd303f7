package auth

import (
	"context"
	"net/http"

	"github.com/taskloop/todo-api/internal/httputil"
	"github.com/taskloop/todo-api/internal/user"
)

// AuthHeader carries the session token inbound on protected routes and
// outbound on register/login responses.
const AuthHeader = "x-auth"

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey  ContextKey = "user"
	TokenContextKey ContextKey = "token"
)

// Middleware is the authorization gate for protected routes
type Middleware struct {
	resolver TokenResolver
}

func NewMiddleware(resolver TokenResolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// RequireAuth resolves the x-auth header into an authenticated user and
// attaches the user plus the raw token to the request context. A missing,
// invalid or revoked token rejects the request before any handler runs.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(AuthHeader)
		if token == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		u, err := m.resolver.FindByToken(r.Context(), token)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, u)
		ctx = context.WithValue(ctx, TokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*user.User)
	return u, ok
}

// GetTokenFromContext extracts the presenting token from the request context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenContextKey).(string)
	return token, ok
}
