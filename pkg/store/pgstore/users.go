package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/pg"
)

const selectUser = `
SELECT id, COALESCE(email, ''), display_name, COALESCE(password_hash, ''),
       COALESCE(salt, ''), COALESCE(verification_token, ''), created_at, updated_at
FROM users`

// Users is a PostgreSQL auth.UserDirectory. OAuth links live in their own
// table and are rewritten together with the user row.
type Users struct {
	pool *pgxpool.Pool
}

func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{pool: pool}
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (s *Users) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.findOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (s *Users) FindByVerificationToken(ctx context.Context, token string) (*auth.User, error) {
	if token == "" {
		return nil, auth.ErrUserNotFound
	}
	return s.findOne(ctx, selectUser+` WHERE verification_token = $1`, token)
}

func (s *Users) FindByOAuthIdentity(ctx context.Context, provider, providerUserID string) (*auth.User, error) {
	return s.findOne(ctx, selectUser+`
WHERE id = (SELECT user_id FROM oauth_links WHERE provider = $1 AND provider_user_id = $2)`,
		provider, providerUserID)
}

func (s *Users) Create(ctx context.Context, user *auth.User) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
INSERT INTO users (id, email, display_name, password_hash, salt, verification_token, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)`,
			user.ID, user.Email, user.DisplayName, user.PasswordHash, user.Salt,
			user.VerificationToken, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			return err
		}
		return insertLinks(ctx, tx, user)
	})
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Users) Update(ctx context.Context, user *auth.User) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
UPDATE users SET email = NULLIF($2, ''), display_name = $3, password_hash = NULLIF($4, ''),
       salt = NULLIF($5, ''), verification_token = NULLIF($6, ''), updated_at = $7
WHERE id = $1`,
			user.ID, user.Email, user.DisplayName, user.PasswordHash, user.Salt,
			user.VerificationToken, user.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return auth.ErrUserNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM oauth_links WHERE user_id = $1`, user.ID); err != nil {
			return err
		}
		return insertLinks(ctx, tx, user)
	})
	switch {
	case err == nil:
		return nil
	case pg.IsDuplicateKeyError(err):
		return auth.ErrAlreadyRegistered
	case errors.Is(err, auth.ErrUserNotFound):
		return err
	default:
		return fmt.Errorf("failed to update user: %w", err)
	}
}

func (s *Users) findOne(ctx context.Context, query string, args ...any) (*auth.User, error) {
	u := &auth.User{}
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash,
		&u.Salt, &u.VerificationToken, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
SELECT provider_user_id, provider, access_token, refresh_token
FROM oauth_links WHERE user_id = $1 ORDER BY position`, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load oauth links: %w", err)
	}
	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (auth.OAuthLink, error) {
		var l auth.OAuthLink
		err := row.Scan(&l.ProviderUserID, &l.Provider, &l.AccessToken, &l.RefreshToken)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan oauth links: %w", err)
	}
	if len(links) > 0 {
		u.OAuthLinks = links
	}

	return u, nil
}

func insertLinks(ctx context.Context, tx pgx.Tx, user *auth.User) error {
	for i, l := range user.OAuthLinks {
		_, err := tx.Exec(ctx, `
INSERT INTO oauth_links (provider, provider_user_id, user_id, access_token, refresh_token, position)
VALUES ($1, $2, $3, $4, $5, $6)`,
			l.Provider, l.ProviderUserID, user.ID, l.AccessToken, l.RefreshToken, i)
		if err != nil {
			return err
		}
	}
	return nil
}

var _ auth.UserDirectory = (*Users)(nil)
