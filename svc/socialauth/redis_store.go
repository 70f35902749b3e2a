package socialauth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/socialbridge/pkg/gigya"
)

const defaultKeyPrefix = "socialbridge:"

// RedisUserProvider keeps one local user per provider identity. Users are
// created on first login; every login refreshes the stored identity snapshot.
type RedisUserProvider struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// RedisOption configures a RedisUserProvider.
type RedisOption func(*RedisUserProvider)

// WithKeyPrefix namespaces every key written by the provider.
func WithKeyPrefix(prefix string) RedisOption {
	return func(p *RedisUserProvider) {
		p.prefix = prefix
	}
}

// WithSnapshotTTL expires identity snapshots; zero keeps them forever.
func WithSnapshotTTL(ttl time.Duration) RedisOption {
	return func(p *RedisUserProvider) {
		p.ttl = ttl
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) RedisOption {
	return func(p *RedisUserProvider) {
		if now != nil {
			p.now = now
		}
	}
}

func NewRedisUserProvider(client redis.UniversalClient, opts ...RedisOption) *RedisUserProvider {
	p := &RedisUserProvider{
		client: client,
		prefix: defaultKeyPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ UserProvider = (*RedisUserProvider)(nil)

// LoadUser returns the user linked to id, creating it when missing.
func (p *RedisUserProvider) LoadUser(ctx context.Context, id *gigya.Identity) (*User, error) {
	if id == nil || id.ID == "" || id.Provider == "" {
		return nil, ErrNoIdentity
	}

	candidate := &User{
		ID:             uuid.New(),
		Provider:       id.Provider,
		ProviderUserID: id.ID,
		Email:          gigya.Value(id.Email),
		CreatedAt:      p.now().UTC(),
	}
	raw, err := json.Marshal(candidate)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	linkKey := p.linkKey(id.Provider, id.ID)
	created, err := p.client.SetNX(ctx, linkKey, raw, 0).Result()
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	user := candidate
	if !created {
		if user, err = p.readUser(ctx, linkKey); err != nil {
			return nil, err
		}
	}
	if err := p.save(ctx, user, linkKey, id); err != nil {
		return nil, err
	}
	return user, nil
}

// Refresh replaces the stored snapshot of a known user with id, as returned
// by a gateway reload.
func (p *RedisUserProvider) Refresh(ctx context.Context, userID uuid.UUID, id *gigya.Identity) error {
	if id == nil || id.ID == "" || id.Provider == "" {
		return ErrNoIdentity
	}
	user, err := p.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Provider != id.Provider || user.ProviderUserID != id.ID {
		return errors.Join(ErrStoreFailure, errors.New("identity belongs to another user"))
	}
	return p.save(ctx, user, p.linkKey(user.Provider, user.ProviderUserID), id)
}

// save writes the reverse index and the identity snapshot. Both writes are
// idempotent, so a login after a partial failure repairs the index.
func (p *RedisUserProvider) save(ctx context.Context, user *User, linkKey string, id *gigya.Identity) error {
	snapshot, err := json.Marshal(id)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, p.userKey(user.ID), linkKey, 0)
		pipe.Set(ctx, p.snapshotKey(user.ID), snapshot, p.ttl)
		return nil
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// GetUser returns a previously created user or ErrUserNotFound.
func (p *RedisUserProvider) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	linkKey, err := p.client.Get(ctx, p.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return p.readUser(ctx, linkKey)
}

// Snapshot returns the identity stored at the user's last login.
func (p *RedisUserProvider) Snapshot(ctx context.Context, userID uuid.UUID) (*gigya.Identity, error) {
	raw, err := p.client.Get(ctx, p.snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var id gigya.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &id, nil
}

func (p *RedisUserProvider) readUser(ctx context.Context, linkKey string) (*User, error) {
	raw, err := p.client.Get(ctx, linkKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &user, nil
}

func (p *RedisUserProvider) linkKey(provider, uid string) string {
	return p.prefix + "link:" + provider + ":" + uid
}

func (p *RedisUserProvider) userKey(id uuid.UUID) string {
	return p.prefix + "user:" + id.String()
}

func (p *RedisUserProvider) snapshotKey(id uuid.UUID) string {
	return p.prefix + "identity:" + id.String()
}
