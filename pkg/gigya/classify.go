package gigya

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// classifyStatus rejects responses the provider failed to serve.
// Client-side statuses fall through so their error payload can be classified.
func classifyStatus(resp *Response) error {
	if resp == nil {
		return errors.Join(ErrTransport, errors.New("no response"))
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Join(ErrTransport, fmt.Errorf("provider returned status %d", resp.StatusCode))
	}
	return nil
}

// classifyTokenResponse turns an error entry into a *TokenExchangeError.
func classifyTokenResponse(tok TokenResponse) error {
	if code, desc, ok := tok.Err(); ok {
		return &TokenExchangeError{Code: code, Description: desc}
	}
	return nil
}

// classifyDocument turns a reported error code into an *AuthenticationError.
// A zero code is the provider's success marker.
func classifyDocument(doc *Document) error {
	code := strings.TrimSpace(doc.ErrorCode)
	if code == "" || code == "0" {
		return nil
	}
	return &AuthenticationError{
		Message: doc.ErrorMessage,
		Details: doc.ErrorDetails,
		Code:    doc.ErrorCode,
	}
}
