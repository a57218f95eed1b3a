// Package ratelimiter implements token bucket rate limiting with an in-memory
// store for single instances, a Redis store for shared limits and HTTP
// middleware that answers 429 once a key runs out of tokens.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: 6 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.Composite(
//		ratelimiter.ByIP(resolver),
//		ratelimiter.ByPath(),
//	))).Post("/auth/login", login)
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every response and Retry-After on rejected ones.
package ratelimiter
