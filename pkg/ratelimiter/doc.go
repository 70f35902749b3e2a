// Package ratelimiter throttles login attempts per caller using fixed
// windows counted in Redis.
//
//	l, err := ratelimiter.New(rdb, ratelimiter.Config{Limit: 20, Window: time.Minute}, "")
//	r.With(ratelimiter.Middleware(l, ratelimiter.ByClientIP, log)).Get("/login/{provider}", h)
//
// Responses carry X-RateLimit-* headers; rejected requests get 429 with Retry-After.
package ratelimiter
