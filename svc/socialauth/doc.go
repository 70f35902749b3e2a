// Package socialauth plugs the gigya gateway into an application's
// authentication pipeline.
//
// An Authenticator resolves an access token into a Principal. Without a
// UserProvider the principal carries only the provider identity; with one,
// the identity is linked to a local User (RedisUserProvider keeps that link
// in Redis) and an optional UserChecker may veto it.
//
// Handler serves the HTTP side of the flow:
//
//	GET /login/{provider}   redirect to the provider consent page
//	GET /callback?code=...  exchange the code and authenticate
//	GET /me                 resolve the bearer token into a principal
//
// Failures are answered as JSON with the status chosen by StatusFromError.
package socialauth
