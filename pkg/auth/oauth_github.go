package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

// GitHubOAuthConfig holds configuration for the GitHub OAuth app.
type GitHubOAuthConfig struct {
	ClientID     string   `env:"GITHUB_CLIENT_ID"`
	ClientSecret string   `env:"GITHUB_CLIENT_SECRET"`
	CallbackURL  string   `env:"GITHUB_CALLBACK_URL"`
	Scopes       []string `env:"GITHUB_SCOPES" envSeparator:"," envDefault:"read:user,user:email"`
}

// Enabled reports whether client credentials are configured.
func (c GitHubOAuthConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type githubAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGitHubAdapter creates a GitHub OAuth provider adapter.
func NewGitHubAdapter(cfg GitHubOAuthConfig) ProviderAdapter {
	return &githubAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *githubAdapter) ProviderID() string {
	return ProviderGitHub
}

func (a *githubAdapter) AuthURL(state string) (string, error) {
	return a.conf.AuthCodeURL(state), nil
}

// ResolveIdentity loads /user, falling back to /user/emails when the profile
// has no public address. The display name falls back to the login.
func (a *githubAdapter) ResolveIdentity(ctx context.Context, code string) (ExternalIdentity, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return ExternalIdentity{}, ErrInvalidCode
	}

	var u ghUser
	if err := getJSON(ctx, a.httpClient, githubUserURL, tok.AccessToken, &u, "Accept", "application/vnd.github+json"); err != nil {
		return ExternalIdentity{}, fmt.Errorf("failed to fetch github user: %w", err)
	}
	if u.ID == 0 {
		return ExternalIdentity{}, ErrNoProviderID
	}

	email := u.Email
	if email == "" {
		var emails []ghEmail
		if err := getJSON(ctx, a.httpClient, githubEmailsURL, tok.AccessToken, &emails, "Accept", "application/vnd.github+json"); err != nil {
			return ExternalIdentity{}, fmt.Errorf("failed to fetch github emails: %w", err)
		}
		email = pickGitHubEmail(emails)
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}

	return ExternalIdentity{
		ProviderUserID: strconv.FormatInt(u.ID, 10),
		Username:       u.Login,
		DisplayName:    name,
		Email:          email,
		AccessToken:    tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
		Provider:       ProviderGitHub,
	}, nil
}

// pickGitHubEmail prefers the primary verified address, then any verified one.
func pickGitHubEmail(emails []ghEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}

type ghUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ghEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

var _ ProviderAdapter = (*githubAdapter)(nil)
