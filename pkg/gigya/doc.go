// Package gigya resolves social-login tokens into a canonical user identity
// using the Gigya socialize API.
//
// The package is split along the protocol steps:
//
//   - request.go builds the three outbound requests (login redirect, token
//     exchange, user info) from a Config without doing any I/O.
//   - client.go defines the Client capability used to send them. HTTPClient
//     is the net/http implementation; tests and hosts may plug their own via
//     ClientFunc.
//   - parser.go decodes the JSON token payload and the XML user-info document.
//   - classify.go turns provider-reported failures into typed errors.
//   - mapper.go projects the sub-record of the login provider onto an Identity.
//
// Socializer ties the steps together:
//
//	s, err := gigya.New(cfg,
//	    gigya.WithLogger(log),
//	    gigya.WithMetrics(metrics),
//	)
//	if err != nil {
//	    return err
//	}
//
//	tok, err := s.ExchangeToken(ctx, code)
//	if err != nil {
//	    return err // *TokenExchangeError when the provider refused the code
//	}
//
//	id, err := s.ResolveUser(ctx, tok.AccessToken())
//	var authErr *gigya.AuthenticationError
//	if errors.As(err, &authErr) {
//	    // authErr.Code, authErr.Message and authErr.Details come from the provider
//	}
//
// # Identity fields
//
// Identity.ID and Identity.Provider are always set. Every profile field is a
// *string that is nil when the provider did not send it. Birthday is set only
// when day, month and year are all present.
//
// # Errors
//
// All failures match one of ErrConfiguration, ErrTransport, ErrParse,
// ErrTokenExchange, ErrAuthentication or ErrActionNotFound with errors.Is.
// Nothing is retried; retry policy belongs to the Client or the caller.
package gigya
