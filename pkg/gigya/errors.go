package gigya

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when a request cannot be built from the supplied input.
	ErrConfiguration = errors.New("gigya: invalid configuration")

	// ErrTransport is returned when the transport client fails to deliver a request
	// or the provider answers with a server-side failure status.
	ErrTransport = errors.New("gigya: transport failure")

	// ErrParse is returned when a response body cannot be decoded at all.
	ErrParse = errors.New("gigya: invalid response")

	// ErrTokenExchange is returned when the token endpoint reports an error entry.
	ErrTokenExchange = errors.New("gigya: token exchange failed")

	// ErrAuthentication is returned when a user-info document carries an error code.
	ErrAuthentication = errors.New("gigya: authentication failed")

	// ErrActionNotFound is returned when looking up an action that was never registered.
	ErrActionNotFound = errors.New("gigya: action not found")
)

// AuthenticationError carries the error fields reported by the provider verbatim.
type AuthenticationError struct {
	Message string
	Details string
	Code    string
}

func (e *AuthenticationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("gigya: authentication failed: %s (code %s): %s", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("gigya: authentication failed: %s (code %s)", e.Message, e.Code)
}

// Is reports ErrAuthentication as the error kind.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// TokenExchangeError describes the error entry of a token endpoint response.
type TokenExchangeError struct {
	Code        string
	Description string
}

func (e *TokenExchangeError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("gigya: token exchange failed: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("gigya: token exchange failed: %s", e.Code)
}

// Is reports ErrTokenExchange as the error kind.
func (e *TokenExchangeError) Is(target error) bool {
	return target == ErrTokenExchange
}
