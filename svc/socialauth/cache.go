package socialauth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dmitrymomot/socialbridge/pkg/cache"
	"github.com/dmitrymomot/socialbridge/pkg/gigya"
)

// CachingResolver memoizes resolved identities per access token for a short
// time. Tokens are stored hashed. Failures are never cached.
type CachingResolver struct {
	next  IdentityResolver
	cache *cache.LRU[string, *gigya.Identity]
}

var _ IdentityResolver = (*CachingResolver)(nil)

// NewCachingResolver wraps next. A capacity of zero or less disables
// caching and every call goes to next.
func NewCachingResolver(next IdentityResolver, capacity int, ttl time.Duration) *CachingResolver {
	r := &CachingResolver{next: next}
	if capacity > 0 {
		r.cache = cache.NewLRU[string, *gigya.Identity](capacity, ttl)
	}
	return r
}

func (r *CachingResolver) ResolveUser(ctx context.Context, token string) (*gigya.Identity, error) {
	if r.cache == nil {
		return r.next.ResolveUser(ctx, token)
	}

	sum := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(sum[:])

	if id, ok := r.cache.Get(key); ok {
		return id, nil
	}
	id, err := r.next.ResolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	r.cache.Put(key, id)
	return id, nil
}
