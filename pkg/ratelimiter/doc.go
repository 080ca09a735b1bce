// Package ratelimiter implements token bucket rate limiting for HTTP routes.
//
// A Bucket applies one Config to any number of keys. Bucket state lives in a
// Store: MemoryStore for a single process and RedisStore when several
// instances must share limits. Denied requests do not consume tokens.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
//	if err != nil {
//		return err
//	}
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP)).Post("/login", login)
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every response and Retry-After on denied ones.
package ratelimiter
