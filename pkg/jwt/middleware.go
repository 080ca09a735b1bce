package jwt

import (
	"net/http"
	"strings"
)

// BearerScheme is the authorization scheme marker prepended to access tokens.
const BearerScheme = "Bearer"

// TokenExtractorFunc defines a function that extracts a token from an HTTP request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// SkipFunc defines a function that determines whether to skip JWT validation for a request.
type SkipFunc func(r *http.Request) bool

// ErrorHandlerFunc writes the response for a request that failed authentication.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// TokenParser verifies a token and decodes it into claims. *Service
// satisfies it.
type TokenParser interface {
	Parse(token string, claims Claims) error
}

// MiddlewareConfig configures JWT middleware behavior.
type MiddlewareConfig struct {
	Service      TokenParser        // Verifies extracted tokens
	Extractor    TokenExtractorFunc // Token extraction strategy (defaults to Bearer)
	Skip         SkipFunc           // Optional request filter to bypass validation
	NewClaims    func() Claims      // Claims factory, defaults to MapClaims
	ErrorHandler ErrorHandlerFunc   // Defaults to a plain 401 response
}

// Middleware creates JWT middleware with default Bearer token extraction.
// Verified claims are stored as MapClaims.
func Middleware(service TokenParser) func(next http.Handler) http.Handler {
	return MiddlewareWithConfig(MiddlewareConfig{Service: service})
}

// MiddlewareWithConfig creates JWT middleware with custom configuration.
func MiddlewareWithConfig(config MiddlewareConfig) func(next http.Handler) http.Handler {
	if config.Extractor == nil {
		config.Extractor = BearerTokenExtractor
	}
	if config.NewClaims == nil {
		config.NewClaims = func() Claims { return MapClaims{} }
	}
	if config.ErrorHandler == nil {
		config.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Skip != nil && config.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := config.Extractor(r)
			if err != nil {
				config.ErrorHandler(w, r, err)
				return
			}

			claims := config.NewClaims()
			if err := config.Service.Parse(tokenString, claims); err != nil {
				config.ErrorHandler(w, r, err)
				return
			}

			ctx := r.Context()
			ctx = SetToken(ctx, tokenString)
			ctx = SetClaims(ctx, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerTokenExtractor extracts JWT tokens from "Authorization: Bearer <token>" headers.
func BearerTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, BearerScheme) || token == "" {
		return "", ErrInvalidToken
	}

	return token, nil
}

// HeaderTokenExtractor creates a token extractor for custom headers.
func HeaderTokenExtractor(headerName string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		token := r.Header.Get(headerName)
		if token == "" {
			return "", ErrInvalidToken
		}
		return token, nil
	}
}
