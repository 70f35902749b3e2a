package gigya

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/dmitrymomot/socialbridge/pkg/logger"
)

// Operation names used in logs and metrics.
const (
	OpLogin         = "login"
	OpExchangeToken = "exchange_token"
	OpResolveUser   = "resolve_user"
	OpReloadUser    = "reload_user"
)

// Socializer is the gateway to the identity provider. Each call performs a
// single round trip and shares only the immutable config, so it is safe for
// concurrent use. The action registry is the only mutable state.
type Socializer struct {
	cfg     Config
	client  Client
	logger  *slog.Logger
	metrics *Metrics
	actions *Actions
}

// Option configures a Socializer during construction.
type Option func(*Socializer)

// WithClient replaces the default HTTP transport.
func WithClient(c Client) Option {
	return func(s *Socializer) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger configures the logger for the gateway.
func WithLogger(l *slog.Logger) Option {
	return func(s *Socializer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics enables call metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Socializer) {
		s.metrics = m
	}
}

// WithAction pre-registers an action.
func WithAction(key string, action Action) Option {
	return func(s *Socializer) {
		s.actions.Register(key, action)
	}
}

// New creates a gateway for cfg. The config is copied and normalized;
// later changes to the caller's value have no effect.
// Defaults: net/http transport with cfg.Timeout, logger discards by default.
func New(cfg Config, opts ...Option) (*Socializer, error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Socializer{
		cfg:     cfg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		actions: NewActions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = NewHTTPClient(nil, cfg.Timeout)
	}
	return s, nil
}

// APIKey returns the configured API key.
func (s *Socializer) APIKey() string {
	return s.cfg.APIKey
}

// Providers returns the accepted provider names.
func (s *Socializer) Providers() []string {
	return slices.Clone(s.cfg.Providers)
}

// SupportsProvider reports whether logins through provider are accepted.
func (s *Socializer) SupportsProvider(provider string) bool {
	return normalizeProvider(provider) != "" && s.cfg.accepts(provider)
}

// Login sends the authorization request for provider and returns the raw
// response, normally a redirect to the provider's consent page.
func (s *Socializer) Login(ctx context.Context, provider string) (resp *Response, err error) {
	defer s.track(ctx, OpLogin, time.Now(), &err, logger.Provider(provider))

	req, err := NewLoginRequest(s.cfg, provider)
	if err != nil {
		return nil, err
	}

	resp, err = s.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ExchangeToken trades an authorization code for an access token.
// When the provider reports an error entry the result is nil together with a
// *TokenExchangeError, so callers may treat a nil map as "no token".
func (s *Socializer) ExchangeToken(ctx context.Context, code string) (tok TokenResponse, err error) {
	defer s.track(ctx, OpExchangeToken, time.Now(), &err)

	req, err := NewTokenRequest(s.cfg, code)
	if err != nil {
		return nil, err
	}

	resp, err := s.send(ctx, req)
	if err != nil {
		return nil, err
	}

	tok, err = ParseTokenResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := classifyTokenResponse(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// ResolveUser fetches the user-info document for token and maps it onto an Identity.
func (s *Socializer) ResolveUser(ctx context.Context, token string) (id *Identity, err error) {
	defer s.track(ctx, OpResolveUser, time.Now(), &err)

	req, err := NewUserInfoRequest(s.cfg, token)
	if err != nil {
		return nil, err
	}
	return s.fetchIdentity(ctx, req)
}

// ReloadUser refreshes a previously resolved identity by its provider UID.
func (s *Socializer) ReloadUser(ctx context.Context, uid string) (id *Identity, err error) {
	defer s.track(ctx, OpReloadUser, time.Now(), &err, logger.UID(uid))

	req, err := NewUserReloadRequest(s.cfg, uid)
	if err != nil {
		return nil, err
	}
	return s.fetchIdentity(ctx, req)
}

// HasAction reports whether an action is registered under key.
func (s *Socializer) HasAction(key string) bool {
	return s.actions.Has(key)
}

// Action returns the action registered under key or ErrActionNotFound.
func (s *Socializer) Action(key string) (Action, error) {
	return s.actions.Get(key)
}

// RegisterAction stores action under key, replacing any previous one.
func (s *Socializer) RegisterAction(key string, action Action) {
	s.actions.Register(key, action)
}

func (s *Socializer) fetchIdentity(ctx context.Context, req *Request) (*Identity, error) {
	resp, err := s.send(ctx, req)
	if err != nil {
		return nil, err
	}

	doc, err := ParseUserInfoResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := classifyDocument(doc); err != nil {
		return nil, err
	}

	id := MapIdentity(doc)
	if id.ID == "" || id.Provider == "" {
		return nil, errors.Join(ErrParse, errors.New("user info response has no UID or login provider"))
	}

	s.logger.DebugContext(ctx, "identity resolved",
		logger.UID(id.ID),
		logger.Provider(id.Provider),
		logger.Component("gigya"),
	)
	return id, nil
}

func (s *Socializer) send(ctx context.Context, req *Request) (*Response, error) {
	resp, err := s.client.Send(ctx, req)
	if err != nil {
		if !errors.Is(err, ErrTransport) {
			err = errors.Join(ErrTransport, err)
		}
		return nil, err
	}
	if err := classifyStatus(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Socializer) track(ctx context.Context, op string, started time.Time, errp *error, attrs ...slog.Attr) {
	err := *errp
	s.metrics.observe(op, started, err)
	if err == nil {
		return
	}

	args := []any{
		logger.Operation(op),
		logger.Error(err),
		logger.Duration(time.Since(started)),
		logger.Component("gigya"),
	}
	for _, a := range attrs {
		args = append(args, a)
	}

	level := slog.LevelError
	if errors.Is(err, ErrAuthentication) || errors.Is(err, ErrTokenExchange) || errors.Is(err, ErrConfiguration) {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "identity provider call failed", args...)
}
