package gigya

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 1 << 20

// Response is the raw outcome of a sent Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Location returns the redirect target of a login response, if any.
func (r *Response) Location() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Location")
}

// Client sends a Request and returns the raw response.
// Implementations own connection pooling, TLS, retries and timeouts.
type Client interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// ClientFunc adapts an ordinary function to the Client interface.
type ClientFunc func(ctx context.Context, req *Request) (*Response, error)

// Send calls f(ctx, req).
func (f ClientFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPClient is the default Client backed by net/http.
// It never follows redirects so the login redirect reaches the caller intact.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient wraps hc. When hc is nil a client with the given timeout is created.
func NewHTTPClient(hc *http.Client, timeout time.Duration) *HTTPClient {
	if hc == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	// Copy so the caller's client keeps its own redirect policy.
	c := *hc
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &HTTPClient{client: &c}
}

// Send performs the request. Network and read failures are reported as ErrTransport.
func (c *HTTPClient) Send(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	if len(body) > maxResponseSize {
		return nil, errors.Join(ErrTransport, fmt.Errorf("response too large: more than %d bytes", maxResponseSize))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil
}

// Compile-time interface assertions
var (
	_ Client = (*HTTPClient)(nil)
	_ Client = ClientFunc(nil)
)
