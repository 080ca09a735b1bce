package auth

import (
	"time"

	"github.com/google/uuid"
)

// OAuth provider identifiers.
const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"
)

// User is a local account. A non-empty VerificationToken marks the account
// as pending email confirmation; there is no separate verified flag.
type User struct {
	ID                uuid.UUID   `json:"id"`
	Email             string      `json:"email"`
	DisplayName       string      `json:"displayName"`
	PasswordHash      string      `json:"-"`
	Salt              string      `json:"-"`
	VerificationToken string      `json:"-"`
	OAuthLinks        []OAuthLink `json:"oauth,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// IsVerified reports whether the account passed email confirmation.
func (u *User) IsVerified() bool {
	return u.VerificationToken == ""
}

// HasPassword reports whether the account was registered locally.
func (u *User) HasPassword() bool {
	return u.PasswordHash != "" && u.Salt != ""
}

// OAuthLink associates a local user with an external identity.
type OAuthLink struct {
	ProviderUserID string `json:"id"`
	Provider       string `json:"provider"`
	AccessToken    string `json:"-"`
	RefreshToken   string `json:"-"`
}

// ExternalIdentity is the normalized result of an OAuth callback exchange.
// Email may be empty when the provider does not expose one.
type ExternalIdentity struct {
	ProviderUserID string
	Username       string
	DisplayName    string
	Email          string
	AccessToken    string
	RefreshToken   string
	Provider       string
}

// RefreshRecord is the server-side half of a refresh token.
// AccessToken holds the raw signed token, without the scheme marker.
type RefreshRecord struct {
	AccessToken  string
	RefreshToken string
	UserID       uuid.UUID
	IssuedAt     time.Time
}

// Expired reports whether the record is older than ttl at the given moment.
func (r RefreshRecord) Expired(now time.Time, ttl time.Duration) bool {
	return !r.IssuedAt.Add(ttl).After(now)
}

// TokenPair is returned to clients on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ConfirmationReceipt is returned once an email address is confirmed.
// It is informational only and can not be used as a credential.
type ConfirmationReceipt struct {
	UserID      uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// RegisterInput carries the fields needed to create a local account.
type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
}
