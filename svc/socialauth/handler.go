package socialauth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/socialbridge/pkg/gigya"
	"github.com/dmitrymomot/socialbridge/pkg/logger"
	"github.com/dmitrymomot/socialbridge/pkg/requestid"
)

// Gateway is the part of *gigya.Socializer the HTTP surface needs.
type Gateway interface {
	SupportsProvider(provider string) bool
	Login(ctx context.Context, provider string) (*gigya.Response, error)
	ExchangeToken(ctx context.Context, code string) (gigya.TokenResponse, error)
}

var _ Gateway = (*gigya.Socializer)(nil)

// Handler exposes the login flow over HTTP.
type Handler struct {
	gateway   Gateway
	auth      *Authenticator
	refresher *Refresher
	logger    *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRefresher enables POST /me/refresh.
func WithRefresher(r *Refresher) HandlerOption {
	return func(h *Handler) {
		h.refresher = r
	}
}

func NewHandler(gateway Gateway, auth *Authenticator, log *slog.Logger, opts ...HandlerOption) *Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &Handler{gateway: gateway, auth: auth, logger: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the login, callback and identity endpoints. The limits
// wrap only the endpoints that start or finish a login.
func (h *Handler) Routes(limits ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.With(limits...).Get("/login/{provider}", h.login)
	r.With(limits...).Get("/callback", h.callback)
	r.With(h.RequireToken).Get("/me", h.me)
	if h.refresher != nil {
		r.With(h.RequireToken).Post("/me/refresh", h.refresh)
	}
	return r
}

// RequireToken authenticates the bearer token (or the token query
// parameter) and stores the principal in the request context.
func (h *Handler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := h.auth.Authenticate(r.Context(), tokenFromRequest(r))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(SetPrincipalToContext(r.Context(), p)))
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !h.gateway.SupportsProvider(provider) {
		h.fail(w, r, errors.Join(gigya.ErrConfiguration, errors.New("unsupported provider "+provider)))
		return
	}

	resp, err := h.gateway.Login(r.Context(), provider)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if loc := resp.Location(); loc != "" {
		http.Redirect(w, r, loc, http.StatusFound)
		return
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

type tokenPayload struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type,omitempty"`
	Expiry      *time.Time `json:"expiry,omitempty"`
}

type callbackPayload struct {
	Principal *Principal   `json:"principal"`
	Token     tokenPayload `json:"token"`
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.fail(w, r, ErrMissingCode)
		return
	}

	tok, err := h.gateway.ExchangeToken(r.Context(), code)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if tok.AccessToken() == "" {
		h.fail(w, r, errors.Join(gigya.ErrTokenExchange, errors.New("token response has no access_token")))
		return
	}

	p, err := h.auth.Authenticate(r.Context(), tok.AccessToken())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ot := tok.OAuth2Token()
	payload := callbackPayload{
		Principal: p,
		Token:     tokenPayload{AccessToken: ot.AccessToken, TokenType: ot.TokenType},
	}
	if !ot.Expiry.IsZero() {
		payload.Token.Expiry = &ot.Expiry
	}
	writeJSON(w, http.StatusOK, response{Data: payload})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: GetPrincipalFromContext(r.Context())})
}

// refresh reloads the caller's identity by UID and stores the new snapshot.
// It needs a linked local user, so the Authenticator must have a UserProvider.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipalFromContext(r.Context())
	if p == nil || p.User == nil {
		h.fail(w, r, ErrUserNotFound)
		return
	}

	id, err := h.refresher.Refresh(r.Context(), p.User.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Data: &Principal{Identity: id, User: p.User}})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := StatusFromError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "social login request failed",
		logger.Error(err),
		logger.StatusCode(status),
		slog.String("path", r.URL.Path),
	)

	writeJSON(w, status, response{Error: &errorDetail{
		Code:     code,
		Message:  http.StatusText(status),
		Provider: providerErrorFrom(err),
	}})
}

// providerErrorFrom keeps the fields the identity provider reported verbatim.
func providerErrorFrom(err error) *providerError {
	var authErr *gigya.AuthenticationError
	if errors.As(err, &authErr) {
		return &providerError{Code: authErr.Code, Message: authErr.Message, Details: authErr.Details}
	}
	var tokErr *gigya.TokenExchangeError
	if errors.As(err, &tokErr) {
		return &providerError{Code: tokErr.Code, Message: tokErr.Description}
	}
	return nil
}

// StatusFromError maps gateway and store errors to an HTTP status and a
// stable error code.
func StatusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingCode), errors.Is(err, ErrMissingToken):
		return http.StatusBadRequest, "missing_credentials"
	case errors.Is(err, gigya.ErrConfiguration):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, gigya.ErrTokenExchange):
		return http.StatusUnauthorized, "token_exchange_failed"
	case errors.Is(err, gigya.ErrAuthentication):
		return http.StatusUnauthorized, "authentication_failed"
	case errors.Is(err, ErrUserRejected):
		return http.StatusForbidden, "user_rejected"
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrNoIdentity):
		return http.StatusUnauthorized, "unknown_user"
	case errors.Is(err, gigya.ErrTransport), errors.Is(err, gigya.ErrParse):
		return http.StatusBadGateway, "provider_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	return r.URL.Query().Get("token")
}

type response struct {
	Data  any          `json:"data,omitempty"`
	Error *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Provider *providerError `json:"provider,omitempty"`
}

type providerError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
