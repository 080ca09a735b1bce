package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserDirectory defines the user persistence operations the service relies on.
// Lookups return ErrUserNotFound when no record matches and the raw error
// for any other failure. Create returns ErrAlreadyRegistered on a duplicate email.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	FindByOAuthIdentity(ctx context.Context, provider, providerUserID string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

// RefreshStore persists refresh records.
type RefreshStore interface {
	Put(ctx context.Context, record RefreshRecord) error

	// Consume atomically finds the record matching both tokens and deletes it.
	// Under concurrent calls with the same pair at most one caller gets the record,
	// the rest get ErrRefreshTokenNotFound. Expired records are never returned.
	Consume(ctx context.Context, accessToken, refreshToken string) (*RefreshRecord, error)
}

// StateStore keeps OAuth state values between the redirect and the callback.
type StateStore interface {
	StoreState(ctx context.Context, state string, expiresAt time.Time) error

	// ConsumeState atomically checks that state exists and removes it.
	// Returns ErrStateNotFound if it is unknown, expired or already used.
	ConsumeState(ctx context.Context, state string) error
}
