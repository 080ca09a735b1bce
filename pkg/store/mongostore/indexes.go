package mongostore

import (
	"context"
	"fmt"
)

// EnsureIndexes creates the indexes both stores rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, users *Users, tokens *RefreshTokens) error {
	if users != nil {
		if _, err := users.coll.Indexes().CreateMany(ctx, users.indexes()); err != nil {
			return fmt.Errorf("failed to create user indexes: %w", err)
		}
	}
	if tokens != nil {
		if _, err := tokens.coll.Indexes().CreateMany(ctx, tokens.indexes()); err != nil {
			return fmt.Errorf("failed to create refresh token indexes: %w", err)
		}
	}
	return nil
}
