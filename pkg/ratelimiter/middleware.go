package ratelimiter

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/authkit/pkg/clientip"
)

const maxKeyLength = 64

// KeyFunc derives the bucket key from a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys requests by the caller's address.
func ByClientIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

// ByRoute keys requests by method and path, usually combined with ByClientIP.
func ByRoute(r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

// Composite joins the non-empty keys of fns. Keys longer than 64 bytes are
// replaced by their FNV-1a hash.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}

		key := strings.Join(parts, ":")
		if len(key) > maxKeyLength {
			h := fnv.New64a()
			_, _ = h.Write([]byte(key))
			return strconv.FormatUint(h.Sum64(), 36)
		}
		return key
	}
}

type middlewareConfig struct {
	onDenied func(w http.ResponseWriter, r *http.Request, err error)
	onError  func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareOption func(*middlewareConfig)

// WithDeniedHandler writes the response for a limited request. err is ErrRateLimited.
func WithDeniedHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.onDenied = fn
		}
	}
}

// WithErrorHandler writes the response when the store fails.
func WithErrorHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.onError = fn
		}
	}
}

// Middleware limits requests by keyFunc.
func Middleware(l Limiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		onDenied: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		},
		onError: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := l.Allow(r.Context(), key)
			if err != nil {
				cfg.onError(w, r, err)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if secs := int((result.RetryAfter() + time.Second - 1) / time.Second); secs > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				cfg.onDenied(w, r, ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
