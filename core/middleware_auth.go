package core

import (
	"context"
	"net/http"

	"github.com/aquanorma/credentials/db"
)

type contextKey string

const userKey contextKey = "user"

// RequireAuth rejects unauthenticated requests and stores the user in the
// request context for the handler.
func (a *App) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err, resp := a.Auth().Authenticate(r)
		if err != nil {
			writeJsonError(w, resp)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the user stored by RequireAuth.
func userFromContext(ctx context.Context) (*db.User, bool) {
	user, ok := ctx.Value(userKey).(*db.User)
	return user, ok && user != nil
}

// withUser is the inverse of userFromContext, for tests and callers that
// authenticate by other means.
func withUser(ctx context.Context, user *db.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
