package socialauth

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/socialbridge/pkg/gigya"
)

// IdentityReloader fetches an identity by its provider UID.
// *gigya.Socializer satisfies it.
type IdentityReloader interface {
	ReloadUser(ctx context.Context, uid string) (*gigya.Identity, error)
}

// SnapshotStore is the part of a user store the Refresher writes to.
type SnapshotStore interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*User, error)
	Refresh(ctx context.Context, userID uuid.UUID, id *gigya.Identity) error
}

var (
	_ IdentityReloader = (*gigya.Socializer)(nil)
	_ SnapshotStore    = (*RedisUserProvider)(nil)
)

// Refresher re-reads a local user's identity from the provider without an
// access token and stores the new snapshot.
type Refresher struct {
	reloader IdentityReloader
	store    SnapshotStore
}

func NewRefresher(reloader IdentityReloader, store SnapshotStore) *Refresher {
	return &Refresher{reloader: reloader, store: store}
}

// Refresh reloads the identity linked to userID.
func (r *Refresher) Refresh(ctx context.Context, userID uuid.UUID) (*gigya.Identity, error) {
	user, err := r.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	id, err := r.reloader.ReloadUser(ctx, user.ProviderUserID)
	if err != nil {
		return nil, err
	}
	if err := r.store.Refresh(ctx, userID, id); err != nil {
		return nil, err
	}
	return id, nil
}
