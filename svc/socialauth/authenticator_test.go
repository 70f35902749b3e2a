package socialauth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/socialbridge/pkg/gigya"
	"github.com/dmitrymomot/socialbridge/svc/socialauth"
)

func TestAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("identity only without user provider", func(t *testing.T) {
		t.Parallel()

		gw := &MockGateway{}
		gw.On("ResolveUser", ctx, "tok").Return(joe(), nil)

		p, err := socialauth.NewAuthenticator(gw).Authenticate(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "abc123", p.Identity.ID)
		assert.Nil(t, p.User)
		gw.AssertExpectations(t)
	})

	t.Run("loads and checks the local user", func(t *testing.T) {
		t.Parallel()

		user := &socialauth.User{ID: uuid.New(), Provider: "facebook", ProviderUserID: "abc123", CreatedAt: time.Now()}
		gw := &MockGateway{}
		gw.On("ResolveUser", ctx, "tok").Return(joe(), nil)
		users := &MockUserProvider{}
		users.On("LoadUser", ctx, mock.MatchedBy(func(id *gigya.Identity) bool { return id.ID == "abc123" })).Return(user, nil)

		var checked *socialauth.User
		a := socialauth.NewAuthenticator(gw,
			socialauth.WithUserProvider(users),
			socialauth.WithUserChecker(socialauth.UserCheckerFunc(func(_ context.Context, u *socialauth.User) error {
				checked = u
				return nil
			})),
		)

		p, err := a.Authenticate(ctx, "tok")
		require.NoError(t, err)
		assert.Same(t, user, p.User)
		assert.Same(t, user, checked)
		users.AssertExpectations(t)
	})

	t.Run("checker rejects the user", func(t *testing.T) {
		t.Parallel()

		gw := &MockGateway{}
		gw.On("ResolveUser", ctx, "tok").Return(joe(), nil)
		users := &MockUserProvider{}
		users.On("LoadUser", ctx, mock.Anything).Return(&socialauth.User{ID: uuid.New()}, nil)
		banned := errors.New("banned")

		a := socialauth.NewAuthenticator(gw,
			socialauth.WithUserProvider(users),
			socialauth.WithUserChecker(socialauth.UserCheckerFunc(func(context.Context, *socialauth.User) error {
				return banned
			})),
		)

		p, err := a.Authenticate(ctx, "tok")
		assert.Nil(t, p)
		assert.ErrorIs(t, err, socialauth.ErrUserRejected)
		assert.ErrorIs(t, err, banned)
	})

	t.Run("gateway errors pass through", func(t *testing.T) {
		t.Parallel()

		authErr := &gigya.AuthenticationError{Code: "403005", Message: "Unauthorized user"}
		gw := &MockGateway{}
		gw.On("ResolveUser", ctx, "tok").Return(nil, authErr)

		_, err := socialauth.NewAuthenticator(gw).Authenticate(ctx, "tok")
		assert.ErrorIs(t, err, gigya.ErrAuthentication)

		var target *gigya.AuthenticationError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "403005", target.Code)
	})

	t.Run("user provider errors pass through", func(t *testing.T) {
		t.Parallel()

		gw := &MockGateway{}
		gw.On("ResolveUser", ctx, "tok").Return(joe(), nil)
		users := &MockUserProvider{}
		users.On("LoadUser", ctx, mock.Anything).Return(nil, socialauth.ErrStoreFailure)

		_, err := socialauth.NewAuthenticator(gw, socialauth.WithUserProvider(users)).Authenticate(ctx, "tok")
		assert.ErrorIs(t, err, socialauth.ErrStoreFailure)
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		gw := &MockGateway{}
		_, err := socialauth.NewAuthenticator(gw).Authenticate(ctx, "")
		assert.ErrorIs(t, err, socialauth.ErrMissingToken)
		gw.AssertNotCalled(t, "ResolveUser", mock.Anything, mock.Anything)
	})

	t.Run("nil resolver panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { socialauth.NewAuthenticator(nil) })
	})
}

func TestPrincipalContext(t *testing.T) {
	t.Parallel()

	assert.Nil(t, socialauth.GetPrincipalFromContext(context.Background()))

	p := &socialauth.Principal{Identity: joe()}
	ctx := socialauth.SetPrincipalToContext(context.Background(), p)
	assert.Same(t, p, socialauth.GetPrincipalFromContext(ctx))
}
