// Package cache provides a generic in-process LRU cache with per-entry TTL.
//
// The bridge uses it to short-circuit repeated user-info lookups for the same
// access token:
//
//	c := cache.NewLRU[string, *gigya.Identity](1024, time.Minute)
//	c.Put(token, id)
//	if id, ok := c.Get(token); ok {
//	    ...
//	}
package cache
