package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
)

const verificationTokenLength = 32

// Service implements account registration, email confirmation,
// password login, token refresh and OAuth account linking.
type Service struct {
	users    UserDirectory
	hasher   *CredentialHasher
	issuer   *TokenIssuer
	notifier Notifier
	clock    Clock
	logger   *slog.Logger

	confirmURL    string
	afterRegister func(ctx context.Context, user *User) error
	sealer        Sealer
}

// Sealer encrypts provider credentials before they are stored.
// *secrets.Cipher satisfies it.
type Sealer interface {
	EncryptString(plaintext string) (string, error)
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source.
func WithClock(c Clock) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithConfirmURL sets the format of the link placed in verification emails.
// The format receives the verification token as its only argument,
// e.g. "https://example.com/auth/confirm/%s".
func WithConfirmURL(format string) ServiceOption {
	return func(s *Service) {
		s.confirmURL = format
	}
}

// WithProviderTokenSealer encrypts OAuth access and refresh tokens kept in
// user links. Without it they are stored as received.
func WithProviderTokenSealer(sealer Sealer) ServiceOption {
	return func(s *Service) {
		s.sealer = sealer
	}
}

// WithAfterRegister sets a hook that runs asynchronously after successful registration.
func WithAfterRegister(fn func(context.Context, *User) error) ServiceOption {
	return func(s *Service) {
		s.afterRegister = fn
	}
}

// NewService creates an authentication service.
func NewService(users UserDirectory, hasher *CredentialHasher, issuer *TokenIssuer, notifier Notifier, opts ...ServiceOption) *Service {
	s := &Service{
		users:      users,
		hasher:     hasher,
		issuer:     issuer,
		notifier:   notifier,
		clock:      SystemClock,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		confirmURL: "/auth/confirm/%s",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register creates a pending account and sends the verification email.
// If the email can not be delivered the account is kept and the error wraps
// ErrNotificationFailure; ResendVerification retries delivery.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := strings.TrimSpace(in.Email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("%w: failed to check existing user: %w", ErrPersistenceFailure, err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	token, err := randomToken(verificationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	now := s.clock.Now()
	user := &User{
		ID:                uuid.New(),
		Email:             email,
		DisplayName:       strings.TrimSpace(in.DisplayName),
		PasswordHash:      s.hasher.Derive(in.Password, salt),
		Salt:              salt,
		VerificationToken: token,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("%w: failed to create user: %w", ErrPersistenceFailure, err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return user, err
	}

	s.runAfterRegister(user)

	return user, nil
}

// ConfirmEmail clears the verification token of the matching account.
func (s *Service) ConfirmEmail(ctx context.Context, token string) (*ConfirmationReceipt, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: failed to find user by token: %w", ErrPersistenceFailure, err)
	}

	now := s.clock.Now()
	user.VerificationToken = ""
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: failed to confirm email: %w", ErrPersistenceFailure, err)
	}

	s.logger.InfoContext(ctx, "email confirmed",
		logger.UserID(user.ID.String()),
		logger.Event("email_confirmed"),
		logger.Component("auth"),
	)

	return &ConfirmationReceipt{
		UserID:      user.ID,
		Email:       user.Email,
		ConfirmedAt: now,
	}, nil
}

// ResendVerification sends the existing verification token again.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified() {
		return ErrAlreadyVerified
	}
	return s.sendVerification(ctx, user)
}

// ValidateUser checks credentials. The account must exist, the password must
// match, and the email must be confirmed, in that order.
func (s *Service) ValidateUser(ctx context.Context, email, password string) (*User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() || !s.hasher.Verify(password, user.Salt, user.PasswordHash) {
		return nil, ErrIncorrectPassword
	}

	if !user.IsVerified() {
		return nil, ErrEmailNotConfirmed
	}

	return user, nil
}

// Login validates credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.ValidateUser(ctx, email, password)
	if err != nil {
		return TokenPair{}, err
	}

	pair, err := s.issuer.Issue(ctx, user)
	if err != nil {
		return TokenPair{}, err
	}

	s.logger.InfoContext(ctx, "user logged in",
		logger.UserID(user.ID.String()),
		logger.Event("login"),
		logger.Component("auth"),
	)

	return pair, nil
}

// Refresh exchanges a token pair for a new one. The presented pair is
// consumed even if issuing the new pair fails afterwards.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (TokenPair, error) {
	accessToken = StripScheme(accessToken)
	refreshToken = strings.TrimSpace(refreshToken)
	if accessToken == "" || refreshToken == "" {
		return TokenPair{}, ErrInvalidOrExpiredToken
	}

	record, err := s.issuer.store.Consume(ctx, accessToken, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return TokenPair{}, ErrInvalidOrExpiredToken
		}
		return TokenPair{}, fmt.Errorf("%w: failed to consume refresh token: %w", ErrPersistenceFailure, err)
	}
	if record.Expired(s.clock.Now(), s.issuer.RefreshTTL()) {
		return TokenPair{}, ErrInvalidOrExpiredToken
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return TokenPair{}, ErrUserNotFound
		}
		return TokenPair{}, fmt.Errorf("%w: failed to load user: %w", ErrPersistenceFailure, err)
	}

	return s.issuer.Issue(ctx, user)
}

// LinkOrCreateOAuthUser returns the account linked to identity,
// creating a verified one on first sign in.
func (s *Service) LinkOrCreateOAuthUser(ctx context.Context, identity ExternalIdentity) (*User, error) {
	if identity.ProviderUserID == "" {
		return nil, ErrNoProviderID
	}

	user, err := s.users.FindByOAuthIdentity(ctx, identity.Provider, identity.ProviderUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("%w: failed to find linked user: %w", ErrPersistenceFailure, err)
	}

	displayName := identity.DisplayName
	if displayName == "" {
		displayName = identity.Username
	}

	link := OAuthLink{
		ProviderUserID: identity.ProviderUserID,
		Provider:       identity.Provider,
		AccessToken:    identity.AccessToken,
		RefreshToken:   identity.RefreshToken,
	}
	if s.sealer != nil {
		if link.AccessToken, err = s.sealer.EncryptString(identity.AccessToken); err != nil {
			return nil, fmt.Errorf("failed to seal provider access token: %w", err)
		}
		if link.RefreshToken, err = s.sealer.EncryptString(identity.RefreshToken); err != nil {
			return nil, fmt.Errorf("failed to seal provider refresh token: %w", err)
		}
	}

	now := s.clock.Now()
	user = &User{
		ID:          uuid.New(),
		Email:       strings.TrimSpace(identity.Email),
		DisplayName: displayName,
		OAuthLinks:  []OAuthLink{link},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			// A concurrent first sign in may have created the link meanwhile.
			if linked, ferr := s.users.FindByOAuthIdentity(ctx, identity.Provider, identity.ProviderUserID); ferr == nil {
				return linked, nil
			}
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("%w: failed to create oauth user: %w", ErrPersistenceFailure, err)
	}

	s.logger.InfoContext(ctx, "oauth user created",
		logger.UserID(user.ID.String()),
		logger.Provider(identity.Provider),
		logger.Component("auth"),
	)

	return user, nil
}

// IssueTokens issues a token pair for an already authenticated user.
func (s *Service) IssueTokens(ctx context.Context, user *User) (TokenPair, error) {
	return s.issuer.Issue(ctx, user)
}

// Authenticate verifies an access token and returns its claims.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*AccessClaims, error) {
	claims, err := s.issuer.Verify(accessToken)
	if err != nil {
		s.logger.DebugContext(ctx, "access token rejected",
			logger.Error(err),
			logger.Component("auth"),
		)
		return nil, errors.Join(ErrUnauthorized, err)
	}
	return claims, nil
}

// Parse verifies an access token, with or without the scheme marker, into
// claims. Failures wrap ErrUnauthorized. It lets the service back
// jwt.MiddlewareWithConfig directly.
func (s *Service) Parse(token string, claims jwt.Claims) error {
	if err := s.issuer.signer.Parse(StripScheme(token), claims); err != nil {
		return errors.Join(ErrUnauthorized, err)
	}
	return nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: failed to find user: %w", ErrPersistenceFailure, err)
	}
	return user, nil
}

func (s *Service) sendVerification(ctx context.Context, user *User) error {
	err := s.notifier.Send(ctx, Notification{
		To:       user.Email,
		Subject:  "Confirm your email",
		Template: TemplateEmailVerification,
		Variables: map[string]any{
			"displayName": user.DisplayName,
			"token":       user.VerificationToken,
			"confirmUrl":  fmt.Sprintf(s.confirmURL, user.VerificationToken),
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification email",
			logger.UserID(user.ID.String()),
			logger.Error(err),
			logger.Component("auth"),
		)
		return fmt.Errorf("%w: %w", ErrNotificationFailure, err)
	}
	return nil
}

func (s *Service) runAfterRegister(user *User) {
	if s.afterRegister == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("afterRegister hook panicked",
					logger.UserID(user.ID.String()),
					slog.Any("panic", r),
					logger.Component("auth"),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.afterRegister(ctx, user); err != nil {
			s.logger.Error("afterRegister hook failed",
				logger.UserID(user.ID.String()),
				logger.Error(err),
				logger.Component("auth"),
			)
		}
	}()
}

var _ jwt.TokenParser = (*Service)(nil)
