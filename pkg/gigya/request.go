package gigya

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// API methods of the socialize namespace.
const (
	methodLogin       = "socialize.login"
	methodGetToken    = "socialize.getToken"
	methodGetUserInfo = "socialize.getUserInfo"
)

// Grant types sent to socialize.getToken.
const (
	GrantAuthorizationCode = "authorization_code"
	GrantNone              = "none"
)

// Request is a transport-agnostic description of an outbound API call.
// Builders in this file only produce data; sending is the Client's job.
type Request struct {
	Method string
	URL    string
	Header http.Header
	// Form is sent as the query string for GET and as an urlencoded body otherwise.
	Form url.Values
}

// NewLoginRequest builds the authorization redirect request for the given provider.
func NewLoginRequest(cfg Config, provider string) (*Request, error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	provider = normalizeProvider(provider)
	if provider == "" {
		return nil, errors.Join(ErrConfiguration, errors.New("provider name is required"))
	}
	if !cfg.accepts(provider) {
		return nil, errors.Join(ErrConfiguration, errors.New("provider "+provider+" is not enabled"))
	}

	target, err := url.Parse(oauthConfig(cfg).AuthCodeURL("", oauth2.SetAuthURLParam("x_provider", provider)))
	if err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}
	form := target.Query()
	target.RawQuery = ""

	return &Request{
		Method: http.MethodGet,
		URL:    target.String(),
		Header: make(http.Header),
		Form:   form,
	}, nil
}

// NewTokenRequest builds the access token exchange request.
// An empty code requests a token with the "none" grant.
func NewTokenRequest(cfg Config, code string) (*Request, error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	conf := oauthConfig(cfg)
	form := url.Values{}
	form.Set("client_id", conf.ClientID)
	if conf.ClientSecret != "" {
		form.Set("client_secret", conf.ClientSecret)
	}

	code = strings.TrimSpace(code)
	if code != "" {
		form.Set("grant_type", GrantAuthorizationCode)
		form.Set("code", code)
		if conf.RedirectURL != "" {
			form.Set("redirect_uri", conf.RedirectURL)
		}
	} else {
		form.Set("grant_type", GrantNone)
	}

	req := &Request{
		Method: http.MethodPost,
		URL:    conf.Endpoint.TokenURL,
		Header: make(http.Header),
		Form:   form,
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// NewUserInfoRequest builds the user-info request for an access token.
func NewUserInfoRequest(cfg Config, token string) (*Request, error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.Join(ErrConfiguration, errors.New("access token is required"))
	}

	form := url.Values{}
	form.Set("apiKey", cfg.APIKey)
	form.Set("oauth_token", token)
	form.Set("format", "xml")

	return newRequest(http.MethodGet, cfg.BaseURL, methodGetUserInfo, form), nil
}

// NewUserReloadRequest builds a user-info request addressed by the provider-assigned UID
// instead of a token. It is used to refresh an identity resolved earlier.
func NewUserReloadRequest(cfg Config, uid string) (*Request, error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(uid) == "" {
		return nil, errors.Join(ErrConfiguration, errors.New("uid is required"))
	}

	form := url.Values{}
	form.Set("apiKey", cfg.APIKey)
	if cfg.Secret != "" {
		form.Set("secret", cfg.Secret)
	}
	form.Set("uid", uid)
	form.Set("format", "xml")

	return newRequest(http.MethodGet, cfg.BaseURL, methodGetUserInfo, form), nil
}

// oauthConfig describes the authorization-code endpoints of the socialize API.
// Credentials travel in the form body, never in a Basic auth header.
func oauthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.APIKey,
		ClientSecret: cfg.Secret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.BaseURL + "/" + methodLogin,
			TokenURL:  cfg.BaseURL + "/" + methodGetToken,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func newRequest(method, baseURL, apiMethod string, form url.Values) *Request {
	return &Request{
		Method: method,
		URL:    baseURL + "/" + apiMethod,
		Header: make(http.Header),
		Form:   form,
	}
}

// HTTPRequest converts r into a *http.Request bound to ctx.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	target, err := url.Parse(r.URL)
	if err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}

	var (
		body        *strings.Reader
		contentType string
	)
	if r.Method == http.MethodGet || r.Method == "" {
		target.RawQuery = r.Form.Encode()
	} else {
		body = strings.NewReader(r.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var req *http.Request
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, target.String(), body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target.String(), nil)
	}
	if err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}
