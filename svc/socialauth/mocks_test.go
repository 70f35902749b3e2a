package socialauth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/socialbridge/pkg/gigya"
	"github.com/dmitrymomot/socialbridge/svc/socialauth"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SupportsProvider(provider string) bool {
	return m.Called(provider).Bool(0)
}

func (m *MockGateway) Login(ctx context.Context, provider string) (*gigya.Response, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gigya.Response), args.Error(1)
}

func (m *MockGateway) ExchangeToken(ctx context.Context, code string) (gigya.TokenResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(gigya.TokenResponse), args.Error(1)
}

func (m *MockGateway) ResolveUser(ctx context.Context, token string) (*gigya.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gigya.Identity), args.Error(1)
}

func (m *MockGateway) ReloadUser(ctx context.Context, uid string) (*gigya.Identity, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gigya.Identity), args.Error(1)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) LoadUser(ctx context.Context, id *gigya.Identity) (*socialauth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*socialauth.User), args.Error(1)
}

func ptr(s string) *string {
	return &s
}

func joe() *gigya.Identity {
	return &gigya.Identity{
		ID:       "abc123",
		Provider: "facebook",
		Nickname: ptr("joe"),
		Email:    ptr("j@x.com"),
	}
}
