// Package clientip resolves the caller's address behind reverse proxies.
//
// Mount Middleware ahead of handlers that key on the caller, such as the
// login rate limiter, and register LoggerExtractor with pkg/logger so every
// request-scoped record carries the address.
package clientip
