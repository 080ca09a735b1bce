package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuthConfig holds configuration for the Google OAuth client.
type GoogleOAuthConfig struct {
	ClientID     string   `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	CallbackURL  string   `env:"GOOGLE_CALLBACK_URL"`
	Scopes       []string `env:"GOOGLE_SCOPES" envSeparator:"," envDefault:"openid,email,profile"`
}

// Enabled reports whether client credentials are configured.
func (c GoogleOAuthConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type googleAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGoogleAdapter creates a Google OAuth provider adapter.
func NewGoogleAdapter(cfg GoogleOAuthConfig) ProviderAdapter {
	return &googleAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *googleAdapter) ProviderID() string {
	return ProviderGoogle
}

func (a *googleAdapter) AuthURL(state string) (string, error) {
	return a.conf.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (a *googleAdapter) ResolveIdentity(ctx context.Context, code string) (ExternalIdentity, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return ExternalIdentity{}, ErrInvalidCode
	}

	var u gUser
	if err := getJSON(ctx, a.httpClient, googleUserInfoURL, tok.AccessToken, &u); err != nil {
		return ExternalIdentity{}, fmt.Errorf("failed to fetch google user: %w", err)
	}
	if u.ID == "" {
		return ExternalIdentity{}, ErrNoProviderID
	}

	email := u.Email
	if !u.VerifiedEmail {
		email = ""
	}

	return ExternalIdentity{
		ProviderUserID: u.ID,
		Username:       u.Email,
		DisplayName:    u.Name,
		Email:          email,
		AccessToken:    tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
		Provider:       ProviderGoogle,
	}, nil
}

type gUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

var _ ProviderAdapter = (*googleAdapter)(nil)
