package auth

import (
	"context"

	"github.com/dmitrymomot/authkit/pkg/jwt"
)

// ClaimsFromContext returns the access claims stored by the bearer
// middleware when it was configured with an *AccessClaims factory.
func ClaimsFromContext(ctx context.Context) (*AccessClaims, bool) {
	claims, ok := jwt.GetClaims[*AccessClaims](ctx)
	return claims, ok && claims != nil
}
