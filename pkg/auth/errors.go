package auth

import "errors"

// Account lifecycle errors
var (
	ErrAlreadyRegistered = errors.New("this user has already been registered")
	ErrAlreadyVerified   = errors.New("email already confirmed")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Token errors
var (
	ErrInvalidToken          = errors.New("invalid verification token")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")
	ErrRefreshTokenNotFound  = errors.New("refresh token not found")
)

// Infrastructure errors. Both are combined with the underlying cause,
// so errors.Is matches the category and the original error.
var (
	ErrNotificationFailure = errors.New("failed to send notification")
	ErrPersistenceFailure  = errors.New("persistence failure")
)

// OAuth errors
var (
	ErrUnknownProvider = errors.New("unknown OAuth provider")
	ErrInvalidState    = errors.New("invalid OAuth state")
	ErrStateNotFound   = errors.New("OAuth state not found or expired")
	ErrInvalidCode     = errors.New("invalid OAuth code")
	ErrNoProviderID    = errors.New("provider returned no user id")
)

// Configuration errors
var (
	ErrUnsupportedDigest = errors.New("unsupported hash algorithm")
	ErrInvalidHasherConf = errors.New("invalid credential hasher config")
)
