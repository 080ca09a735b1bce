package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid rate limiter configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrStoreUnavailable  = errors.New("rate limiter store unavailable")
)
