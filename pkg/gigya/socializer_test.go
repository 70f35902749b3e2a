package gigya

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSocializer(t *testing.T, client Client, opts ...Option) *Socializer {
	t.Helper()
	s, err := New(testConfig(), append([]Option{WithClient(client)}, opts...)...)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("normalizes config", func(t *testing.T) {
		t.Parallel()

		s, err := New(Config{APIKey: "k", Providers: []string{"Facebook", "facebook", " Twitter "}})
		require.NoError(t, err)
		assert.Equal(t, "k", s.APIKey())
		assert.Equal(t, []string{"facebook", "twitter"}, s.Providers())
		assert.Equal(t, DefaultBaseURL, s.cfg.BaseURL)
		assert.IsType(t, &HTTPClient{}, s.client)
		assert.NotNil(t, s.logger)
	})

	t.Run("requires api key", func(t *testing.T) {
		t.Parallel()

		_, err := New(Config{})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("providers copy is detached", func(t *testing.T) {
		t.Parallel()

		s := newTestSocializer(t, &MockClient{})
		p := s.Providers()
		p[0] = "mutated"
		assert.Equal(t, "facebook", s.Providers()[0])
	})

	t.Run("supports provider", func(t *testing.T) {
		t.Parallel()

		s := newTestSocializer(t, &MockClient{})
		assert.True(t, s.SupportsProvider("FACEBOOK"))
		assert.False(t, s.SupportsProvider("linkedin"))
		assert.False(t, s.SupportsProvider(""))
	})
}

func TestSocializer_Login(t *testing.T) {
	t.Parallel()

	t.Run("returns raw redirect response", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		resp := &Response{StatusCode: http.StatusFound, Header: http.Header{"Location": {"https://facebook.example/dialog"}}}
		client.On("Send", mock.Anything, mock.MatchedBy(func(r *Request) bool {
			return r.Form.Get("x_provider") == "facebook"
		})).Return(resp, nil).Once()

		s := newTestSocializer(t, client)
		got, err := s.Login(context.Background(), "Facebook")
		require.NoError(t, err)
		assert.Equal(t, "https://facebook.example/dialog", got.Location())
		client.AssertExpectations(t)
	})

	t.Run("rejects empty provider without I/O", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		s := newTestSocializer(t, client)
		_, err := s.Login(context.Background(), "")
		assert.ErrorIs(t, err, ErrConfiguration)
		client.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		client.On("Send", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		s := newTestSocializer(t, client)
		_, err := s.Login(context.Background(), "twitter")
		assert.ErrorIs(t, err, ErrTransport)
	})
}

func TestSocializer_ExchangeToken(t *testing.T) {
	t.Parallel()

	t.Run("returns token map", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		client.On("Send", mock.Anything, mock.MatchedBy(func(r *Request) bool {
			return r.Form.Get("code") == "c-1"
		})).Return(okResponse(`{"access_token":"at-1","expires_in":3600}`), nil)

		s := newTestSocializer(t, client)
		tok, err := s.ExchangeToken(context.Background(), "c-1")
		require.NoError(t, err)
		assert.Equal(t, "at-1", tok.AccessToken())
	})

	t.Run("error entry yields no token", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		client.On("Send", mock.Anything, mock.Anything).
			Return(&Response{StatusCode: http.StatusBadRequest, Body: []byte(`{"error":"invalid_grant","error_description":"expired","access_token":"x"}`)}, nil)

		s := newTestSocializer(t, client)
		tok, err := s.ExchangeToken(context.Background(), "c-1")
		assert.Nil(t, tok)
		require.ErrorIs(t, err, ErrTokenExchange)

		var tokErr *TokenExchangeError
		require.ErrorAs(t, err, &tokErr)
		assert.Equal(t, "invalid_grant", tokErr.Code)
		assert.Equal(t, "expired", tokErr.Description)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		client.On("Send", mock.Anything, mock.Anything).Return(okResponse(`<html>`), nil)

		s := newTestSocializer(t, client)
		_, err := s.ExchangeToken(context.Background(), "c-1")
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("server error is a transport failure", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		client.On("Send", mock.Anything, mock.Anything).Return(&Response{StatusCode: http.StatusBadGateway}, nil)

		s := newTestSocializer(t, client)
		_, err := s.ExchangeToken(context.Background(), "c-1")
		assert.ErrorIs(t, err, ErrTransport)
		assert.NotErrorIs(t, err, ErrParse)
	})
}

func TestSocializer_ResolveUser(t *testing.T) {
	t.Parallel()

	t.Run("maps the login provider identity", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		client.On("Send", mock.Anything, mock.MatchedBy(func(r *Request) bool {
			return r.Form.Get("oauth_token") == "at-1"
		})).Return(okResponse(facebookDocument), nil)

		s := newTestSocializer(t, client)
		id, err := s.ResolveUser(context.Background(), "at-1")
		require.NoError(t, err)
		assert.Equal(t, &Identity{
			ID:           "abc123",
			Provider:     "facebook",
			Nickname:     ptr("joe"),
			Email:        ptr("j@x.com"),
			ThumbnailURL: ptr("http://x/t.png"),
		}, id)
	})

	t.Run("error code raises authentication error", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		client.On("Send", mock.Anything, mock.Anything).Return(okResponse(
			`<r><errorCode>403005</errorCode><errorMessage>Unauthorized user</errorMessage>`+
				`<errorDetails>token expired</errorDetails><UID>abc</UID><loginProvider>facebook</loginProvider></r>`), nil)

		s := newTestSocializer(t, client)
		id, err := s.ResolveUser(context.Background(), "at-1")
		assert.Nil(t, id)
		require.ErrorIs(t, err, ErrAuthentication)

		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, AuthenticationError{Message: "Unauthorized user", Details: "token expired", Code: "403005"}, *authErr)
	})

	t.Run("document without UID", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		client.On("Send", mock.Anything, mock.Anything).Return(okResponse(`<r><loginProvider>facebook</loginProvider></r>`), nil)

		s := newTestSocializer(t, client)
		_, err := s.ResolveUser(context.Background(), "at-1")
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("undecodable body", func(t *testing.T) {
		t.Parallel()

		client := &MockClient{}
		client.On("Send", mock.Anything, mock.Anything).Return(okResponse(""), nil)

		s := newTestSocializer(t, client)
		_, err := s.ResolveUser(context.Background(), "at-1")
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		s := newTestSocializer(t, &MockClient{})
		_, err := s.ResolveUser(context.Background(), "")
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestSocializer_ReloadUser(t *testing.T) {
	t.Parallel()

	client := &MockClient{}
	client.On("Send", mock.Anything, mock.MatchedBy(func(r *Request) bool {
		return r.Form.Get("uid") == "abc123"
	})).Return(okResponse(facebookDocument), nil)

	s := newTestSocializer(t, client)
	id, err := s.ReloadUser(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id.ID)
	assert.Equal(t, "joe", Value(id.Nickname))
}

func TestSocializer_Actions(t *testing.T) {
	t.Parallel()

	type shareAction struct{ Title string }
	a := &shareAction{Title: "A"}
	b := &shareAction{Title: "B"}

	s := newTestSocializer(t, &MockClient{}, WithAction("preset", a))
	assert.True(t, s.HasAction("preset"))

	s.RegisterAction("k", a)
	got, err := s.Action("k")
	require.NoError(t, err)
	assert.Same(t, a, got)

	s.RegisterAction("k", b)
	got, err = s.Action("k")
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = s.Action("missing")
	assert.ErrorIs(t, err, ErrActionNotFound)
	assert.False(t, s.HasAction("missing"))
}

func TestActions_Concurrent(t *testing.T) {
	t.Parallel()

	actions := NewActions()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			actions.Register("k", i)
		}()
		go func() {
			defer wg.Done()
			_ = actions.Has("k")
		}()
	}
	wg.Wait()

	_, err := actions.Get("k")
	assert.NoError(t, err)
}

func TestIsShareValid(t *testing.T) {
	t.Parallel()

	assert.True(t, IsShareValid("simpleShare"))
	assert.True(t, IsShareValid("multiSelect"))
	assert.False(t, IsShareValid(""))
	assert.False(t, IsShareValid("SimpleShare"))
	assert.False(t, IsShareValid("Simple Share"))

	choices := ShareChoices()
	assert.Len(t, choices, 2)
	choices[ShareSimple] = "changed"
	assert.Equal(t, "Simple Share", ShareSimple.Label())
	assert.Equal(t, "", ShareMode("other").Label())
}

func TestSocializer_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	again, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, metrics.calls, again.calls)

	client := &MockClient{}
	client.On("Send", mock.Anything, mock.Anything).Return(okResponse(`<r><errorCode>500001</errorCode></r>`), nil)

	s := newTestSocializer(t, client, WithMetrics(metrics))
	_, err = s.ResolveUser(context.Background(), "at-1")
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.calls.WithLabelValues(OpResolveUser, "authentication_error")))
}

func TestHTTPClient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/socialize.login":
			http.Redirect(w, r, "https://provider.example/consent?p="+r.URL.Query().Get("x_provider"), http.StatusFound)
		case "/socialize.getToken":
			_ = r.ParseForm()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"tok-for-` + r.PostForm.Get("code") + `"}`))
		case "/socialize.getUserInfo":
			_, _ = w.Write([]byte(facebookDocument))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.BaseURL = srv.URL
	s, err := New(cfg, WithClient(NewHTTPClient(srv.Client(), 0)))
	require.NoError(t, err)

	ctx := context.Background()

	resp, err := s.Login(ctx, "facebook")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://provider.example/consent?p=facebook", resp.Location())

	tok, err := s.ExchangeToken(ctx, "c-9")
	require.NoError(t, err)
	assert.Equal(t, "tok-for-c-9", tok.AccessToken())

	id, err := s.ResolveUser(ctx, tok.AccessToken())
	require.NoError(t, err)
	assert.Equal(t, "facebook", id.Provider)

	srv.Close()
	_, err = s.ResolveUser(ctx, "at")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestHTTPClient_ResponseSizeLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(r.URL.Query().Get("size"))
		_, _ = w.Write(bytes.Repeat([]byte("a"), n))
	}))
	t.Cleanup(srv.Close)

	client := NewHTTPClient(srv.Client(), 0)
	send := func(size int) (*Response, error) {
		return client.Send(context.Background(), &Request{
			Method: http.MethodGet,
			URL:    srv.URL,
			Form:   url.Values{"size": {strconv.Itoa(size)}},
		})
	}

	resp, err := send(maxResponseSize)
	require.NoError(t, err)
	assert.Len(t, resp.Body, maxResponseSize)

	_, err = send(maxResponseSize + 1)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorContains(t, err, "response too large")
	assert.NotErrorIs(t, err, ErrParse)
}
