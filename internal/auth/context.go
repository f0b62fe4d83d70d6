package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
)

type claimsKey struct{}

func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// UserIDFromContext returns the authenticated owner id. Every ledger
// operation scopes itself to this value.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return c.UserID, true
}

func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return c.Role, true
}
