package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Config describes how access tokens are signed.
type Config struct {
	Secret    string `env:"JWT_SECRET,required"`
	Algorithm string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	Issuer    string `env:"JWT_ISSUER"`
}

// Claims is re-exported so callers can declare claim types without
// importing the underlying library directly.
type Claims = gojwt.Claims

// RegisteredClaims mirrors the RFC 7519 registered claim set.
type RegisteredClaims = gojwt.RegisteredClaims

// MapClaims is an untyped claim set.
type MapClaims = gojwt.MapClaims

// NewNumericDate converts t to a JWT numeric date.
func NewNumericDate(t time.Time) *gojwt.NumericDate {
	return gojwt.NewNumericDate(t)
}

// Supported HMAC signing methods keyed by their JOSE name.
var signingMethods = map[string]gojwt.SigningMethod{
	gojwt.SigningMethodHS256.Alg(): gojwt.SigningMethodHS256,
	gojwt.SigningMethodHS384.Alg(): gojwt.SigningMethodHS384,
	gojwt.SigningMethodHS512.Alg(): gojwt.SigningMethodHS512,
}

// Service signs and verifies HMAC JWTs. The algorithm is fixed per instance
// and tokens signed with any other algorithm are rejected.
type Service struct {
	signingKey []byte
	method     gojwt.SigningMethod
	issuer     string
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithAlgorithm selects the signing algorithm by JOSE name (HS256, HS384, HS512).
// Unknown names are reported by New.
func WithAlgorithm(alg string) Option {
	return func(s *Service) {
		if m, ok := signingMethods[strings.ToUpper(alg)]; ok {
			s.method = m
			return
		}
		s.method = nil
	}
}

// WithIssuer sets the iss claim checked during parsing.
func WithIssuer(iss string) Option {
	return func(s *Service) {
		s.issuer = iss
	}
}

// WithTimeFunc overrides the clock used for temporal claim validation.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// New creates a Service with the given signing key. HS256 is used unless
// WithAlgorithm selects another method.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	s := &Service{
		signingKey: signingKey,
		method:     gojwt.SigningMethodHS256,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.method == nil {
		return nil, ErrInvalidSigningMethod
	}

	return s, nil
}

// NewFromString is a convenience wrapper around New for string keys.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// NewFromConfig builds a Service from Config.
func NewFromConfig(cfg Config, opts ...Option) (*Service, error) {
	base := []Option{WithAlgorithm(cfg.Algorithm)}
	if cfg.Issuer != "" {
		base = append(base, WithIssuer(cfg.Issuer))
	}
	return New([]byte(cfg.Secret), append(base, opts...)...)
}

// Algorithm returns the JOSE name of the signing method in use.
func (s *Service) Algorithm() string {
	return s.method.Alg()
}

// Issuer returns the configured iss value, empty when none is enforced.
func (s *Service) Issuer() string {
	return s.issuer
}

// Generate signs claims and returns the compact token string. MapClaims
// without an iss entry get the configured issuer. Typed claims must carry
// it themselves, see Issuer.
func (s *Service) Generate(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}
	if mc, ok := claims.(MapClaims); ok && s.issuer != "" {
		if _, set := mc["iss"]; !set {
			mc["iss"] = s.issuer
		}
	}

	token, err := gojwt.NewWithClaims(s.method, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Parse verifies tokenString and decodes its payload into claims.
// Signature, algorithm and temporal claims are all checked.
func (s *Service) Parse(tokenString string, claims Claims) error {
	if claims == nil {
		return ErrMissingClaims
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	_, err := gojwt.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (any, error) {
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	case errors.Is(err, gojwt.ErrTokenUnverifiable):
		return errors.Join(ErrUnexpectedSigningMethod, err)
	case errors.Is(err, gojwt.ErrTokenInvalidClaims),
		errors.Is(err, gojwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, gojwt.ErrTokenInvalidIssuer),
		errors.Is(err, gojwt.ErrTokenNotValidYet):
		return errors.Join(ErrInvalidClaims, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
