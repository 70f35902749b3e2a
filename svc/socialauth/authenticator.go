package socialauth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/socialbridge/pkg/gigya"
	"github.com/dmitrymomot/socialbridge/pkg/logger"
)

// User is the local account linked to a social identity.
type User struct {
	ID             uuid.UUID `json:"id"`
	Provider       string    `json:"provider"`
	ProviderUserID string    `json:"provider_user_id"`
	Email          string    `json:"email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Principal is the result of a successful authentication. User is nil when
// no UserProvider is configured.
type Principal struct {
	Identity *gigya.Identity `json:"identity"`
	User     *User           `json:"user,omitempty"`
}

// IdentityResolver turns an access token into a provider identity.
// *gigya.Socializer satisfies it.
type IdentityResolver interface {
	ResolveUser(ctx context.Context, token string) (*gigya.Identity, error)
}

// UserProvider loads (or creates) the local user for a resolved identity.
type UserProvider interface {
	LoadUser(ctx context.Context, id *gigya.Identity) (*User, error)
}

// UserChecker vetoes a loaded user before the principal is issued.
type UserChecker interface {
	CheckUser(ctx context.Context, user *User) error
}

// UserCheckerFunc adapts a function to UserChecker.
type UserCheckerFunc func(ctx context.Context, user *User) error

func (f UserCheckerFunc) CheckUser(ctx context.Context, user *User) error {
	return f(ctx, user)
}

var _ IdentityResolver = (*gigya.Socializer)(nil)

// Authenticator resolves tokens into principals, optionally decorated with a
// local user lookup and checker.
type Authenticator struct {
	resolver IdentityResolver
	users    UserProvider
	checker  UserChecker
	logger   *slog.Logger
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithUserProvider links resolved identities to local users.
func WithUserProvider(p UserProvider) AuthenticatorOption {
	return func(a *Authenticator) {
		a.users = p
	}
}

// WithUserChecker runs c on every loaded user. It has no effect without a
// UserProvider.
func WithUserChecker(c UserChecker) AuthenticatorOption {
	return func(a *Authenticator) {
		a.checker = c
	}
}

func WithLogger(l *slog.Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAuthenticator creates an Authenticator backed by resolver.
func NewAuthenticator(resolver IdentityResolver, opts ...AuthenticatorOption) *Authenticator {
	if resolver == nil {
		panic("socialauth: nil identity resolver")
	}
	a := &Authenticator{
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate resolves token and, when configured, loads and checks the
// local user. Gateway errors are returned unchanged so callers can match
// them with errors.Is.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	id, err := a.resolver.ResolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrNoIdentity
	}

	p := &Principal{Identity: id}
	if a.users == nil {
		return p, nil
	}

	user, err := a.users.LoadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.checker != nil {
		if err := a.checker.CheckUser(ctx, user); err != nil {
			a.logger.WarnContext(ctx, "user rejected",
				logger.UserID(user.ID.String()),
				logger.Provider(id.Provider),
				logger.Error(err),
			)
			return nil, errors.Join(ErrUserRejected, err)
		}
	}
	p.User = user

	a.logger.InfoContext(ctx, "user authenticated",
		logger.UserID(user.ID.String()),
		logger.Provider(id.Provider),
		logger.UID(id.ID),
	)
	return p, nil
}
