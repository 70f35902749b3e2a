package socialauth

import "context"

type principalContextKey struct{}

// SetPrincipalToContext stores the authenticated principal for downstream handlers.
func SetPrincipalToContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// GetPrincipalFromContext returns the stored principal or nil.
func GetPrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
