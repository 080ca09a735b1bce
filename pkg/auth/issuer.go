package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
)

const (
	bearerPrefix       = jwt.BearerScheme + " "
	refreshTokenLength = 32
)

// TokenConfig controls token lifetimes.
type TokenConfig struct {
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRES_IN" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRES_IN" envDefault:"720h"`
}

// TokenSigner signs and verifies access token claims.
// *jwt.Service satisfies it.
type TokenSigner interface {
	Generate(claims jwt.Claims) (string, error)
	Parse(token string, claims jwt.Claims) error
}

// issuerNamer is implemented by signers that enforce an iss claim.
type issuerNamer interface {
	Issuer() string
}

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints access/refresh token pairs and records the refresh half.
type TokenIssuer struct {
	signer     TokenSigner
	store      RefreshStore
	clock      Clock
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
}

// IssuerOption configures a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithIssuerClock sets the time source used for iat, exp and IssuedAt.
func WithIssuerClock(c Clock) IssuerOption {
	return func(i *TokenIssuer) {
		if c != nil {
			i.clock = c
		}
	}
}

// WithAccessTokenTTL sets the access token lifetime.
func WithAccessTokenTTL(ttl time.Duration) IssuerOption {
	return func(i *TokenIssuer) {
		if ttl > 0 {
			i.accessTTL = ttl
		}
	}
}

// WithRefreshTTL sets how long a refresh record stays valid.
func WithRefreshTTL(ttl time.Duration) IssuerOption {
	return func(i *TokenIssuer) {
		if ttl > 0 {
			i.refreshTTL = ttl
		}
	}
}

// WithTokenConfig applies both lifetimes from cfg.
func WithTokenConfig(cfg TokenConfig) IssuerOption {
	return func(i *TokenIssuer) {
		WithAccessTokenTTL(cfg.AccessTokenTTL)(i)
		WithRefreshTTL(cfg.RefreshTokenTTL)(i)
	}
}

// WithIssuerLogger sets a custom logger.
func WithIssuerLogger(l *slog.Logger) IssuerOption {
	return func(i *TokenIssuer) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewTokenIssuer creates a TokenIssuer. Access tokens live 15 minutes and
// refresh records 30 days unless overridden.
func NewTokenIssuer(signer TokenSigner, store RefreshStore, opts ...IssuerOption) *TokenIssuer {
	i := &TokenIssuer{
		signer:     signer,
		store:      store,
		clock:      SystemClock,
		accessTTL:  15 * time.Minute,
		refreshTTL: 30 * 24 * time.Hour,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// RefreshTTL returns the configured refresh record lifetime.
func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// Issue signs a new access token for user, generates a refresh token and
// persists the pair. No tokens are returned unless the record was stored.
func (i *TokenIssuer) Issue(ctx context.Context, user *User) (TokenPair, error) {
	now := i.clock.Now()

	var iss string
	if n, ok := i.signer.(issuerNamer); ok {
		iss = n.Issuer()
	}

	accessToken, err := i.signer.Generate(AccessClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    iss,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := randomToken(refreshTokenLength)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := i.store.Put(ctx, RefreshRecord{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		IssuedAt:     now,
	}); err != nil {
		i.logger.ErrorContext(ctx, "failed to persist refresh record",
			logger.UserID(user.ID.String()),
			logger.Error(err),
			logger.Component("token_issuer"),
		)
		return TokenPair{}, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	return TokenPair{
		AccessToken:  bearerPrefix + accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Verify parses an access token, with or without the scheme marker.
func (i *TokenIssuer) Verify(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.signer.Parse(StripScheme(token), claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// StripScheme removes a leading "Bearer " marker if present.
func StripScheme(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(token[len(bearerPrefix):])
	}
	return token
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
