package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/authkit/pkg/logger"
)

// DefaultStateTTL bounds the time between the redirect and the callback.
const DefaultStateTTL = 10 * time.Minute

// OAuthFlow runs the authorization code flow for a set of providers:
// it issues single use state values, resolves callbacks into identities
// and signs the linked user in.
type OAuthFlow struct {
	states   StateStore
	svc      *Service
	adapters map[string]ProviderAdapter
	stateTTL time.Duration
}

// NewOAuthFlow registers adapters by their ProviderID.
func NewOAuthFlow(states StateStore, svc *Service, adapters ...ProviderAdapter) *OAuthFlow {
	f := &OAuthFlow{
		states:   states,
		svc:      svc,
		adapters: make(map[string]ProviderAdapter, len(adapters)),
		stateTTL: DefaultStateTTL,
	}
	for _, a := range adapters {
		if a != nil {
			f.adapters[a.ProviderID()] = a
		}
	}
	return f
}

// Providers lists the registered provider names.
func (f *OAuthFlow) Providers() []string {
	names := make([]string, 0, len(f.adapters))
	for name := range f.adapters {
		names = append(names, name)
	}
	return names
}

// AuthURL stores a fresh state value and returns the provider consent URL.
func (f *OAuthFlow) AuthURL(ctx context.Context, provider string) (string, error) {
	adapter, err := f.adapter(provider)
	if err != nil {
		return "", err
	}

	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	if err := f.states.StoreState(ctx, state, f.svc.clock.Now().Add(f.stateTTL)); err != nil {
		return "", fmt.Errorf("%w: failed to store state: %w", ErrPersistenceFailure, err)
	}

	url, err := adapter.AuthURL(state)
	if err != nil {
		return "", fmt.Errorf("failed to build auth url: %w", err)
	}
	return url, nil
}

// Callback validates state, resolves the identity behind code, links or
// creates the local user and issues a token pair for it.
func (f *OAuthFlow) Callback(ctx context.Context, provider, code, state string) (*User, TokenPair, error) {
	adapter, err := f.adapter(provider)
	if err != nil {
		return nil, TokenPair{}, err
	}

	if strings.TrimSpace(state) == "" {
		return nil, TokenPair{}, ErrInvalidState
	}
	if err := f.states.ConsumeState(ctx, state); err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, TokenPair{}, ErrInvalidState
		}
		return nil, TokenPair{}, fmt.Errorf("%w: failed to validate state: %w", ErrPersistenceFailure, err)
	}

	if strings.TrimSpace(code) == "" {
		return nil, TokenPair{}, ErrInvalidCode
	}
	identity, err := adapter.ResolveIdentity(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, TokenPair{}, ErrInvalidCode
		}
		f.svc.logger.ErrorContext(ctx, "failed to resolve oauth identity",
			logger.Provider(provider),
			logger.Error(err),
			logger.Component("oauth"),
		)
		return nil, TokenPair{}, fmt.Errorf("failed to resolve %s identity: %w", provider, err)
	}
	if identity.Provider == "" {
		identity.Provider = adapter.ProviderID()
	}

	user, err := f.svc.LinkOrCreateOAuthUser(ctx, identity)
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := f.svc.IssueTokens(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	return user, pair, nil
}

func (f *OAuthFlow) adapter(provider string) (ProviderAdapter, error) {
	a, ok := f.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	return a, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
