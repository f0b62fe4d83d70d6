package middleware

import (
	"net/http"
	"strings"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/auth"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/handler"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/logging"
)

// Auth validates the Bearer token and stores the verified claims in the
// request context. Handlers downstream trust these claims completely.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			claims, err := auth.ValidateToken(token, secret)
			if err != nil {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			ctx := auth.ContextWithClaims(r.Context(), claims)
			// Rebind the request logger so downstream lines carry the caller.
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("user_id", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly guards routes that read outside the caller's own ledger.
// Non-admins get a 404 rather than a 403 so the route does not leak.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := auth.RoleFromContext(r.Context())
		if !ok {
			handler.RespondAppError(w, handler.ErrMissingToken, nil)
			return
		}
		if role != domain.RoleAdmin {
			handler.RespondAppError(w, handler.ErrResourceNotFound, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
