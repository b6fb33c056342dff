// Package ratelimiter implements a token bucket limiter.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each allowed call takes one token; a call against an empty
// bucket is denied and leaves the bucket unchanged.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: 10 * time.Second,
//	})
//	res, err := limiter.Allow(ctx, "login:"+ip)
//	if !res.Allowed() { ... }
package ratelimiter
