// Package auth implements account registration with email confirmation,
// password login, rotating refresh tokens and OAuth account linking.
//
// The package depends only on interfaces for persistence (UserDirectory,
// RefreshStore, StateStore) and delivery (Notifier). Concrete adapters live
// under pkg/store and pkg/email.
//
// # Accounts
//
// A User with a non-empty VerificationToken is pending. Register creates
// pending users and mails the token; ConfirmEmail clears it. Password login
// is refused until then:
//
//	svc := auth.NewService(users, hasher, issuer, notifier,
//		auth.WithConfirmURL("https://example.com/auth/confirm/%s"),
//	)
//	user, err := svc.Register(ctx, auth.RegisterInput{
//		Email:       "a@x.com",
//		DisplayName: "Alice",
//		Password:    "secret1",
//	})
//
// If the verification email can not be sent Register returns the created
// user together with an error matching ErrNotificationFailure. Calling
// ResendVerification later retries delivery with the same token.
//
// # Tokens
//
// TokenIssuer signs short lived access tokens through a TokenSigner
// (normally *jwt.Service) and stores an opaque refresh token next to each
// one. Access tokens are returned with a "Bearer " prefix. A refresh pair is
// consumed atomically by Service.Refresh and can be used exactly once:
//
//	pair, err := svc.Login(ctx, email, password)
//	next, err := svc.Refresh(ctx, pair.AccessToken, pair.RefreshToken)
//
// Issuance fails with ErrPersistenceFailure when the refresh record can not
// be stored, so callers never hold a pair that can not be refreshed.
//
// # OAuth
//
// OAuthFlow drives GitHub and Google sign in through ProviderAdapter
// implementations. State values are single use and expire after
// DefaultStateTTL. Repeated sign ins with the same provider account resolve
// to the same local user.
//
// # Errors
//
// All failures are reported through the sentinel errors in errors.go.
// Infrastructure failures are joined with their cause so both can be
// matched with errors.Is.
package auth
