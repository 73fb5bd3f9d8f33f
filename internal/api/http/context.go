package http

import (
	"context"

	"github.com/ruddypp/Paramata-System/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the authenticated identity.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the authenticated identity set by the auth
// middleware. The second return is false on unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}
