package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ProviderAdapter hides provider specific details of the OAuth code flow.
type ProviderAdapter interface {
	// ProviderID returns the provider name used as link key, e.g. "github".
	ProviderID() string

	// AuthURL builds the consent page URL carrying state.
	AuthURL(state string) (string, error)

	// ResolveIdentity exchanges the callback code and loads the profile.
	// Exchange failures are reported as ErrInvalidCode.
	ResolveIdentity(ctx context.Context, code string) (ExternalIdentity, error)
}

// getJSON performs an authenticated GET against a provider API and decodes the body into dst.
func getJSON(ctx context.Context, client *http.Client, url, accessToken string, dst any, headers ...string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
