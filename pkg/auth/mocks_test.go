package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserDirectory) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserDirectory) FindByOAuthIdentity(ctx context.Context, provider, providerUserID string) (*User, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserDirectory) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserDirectory) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type mockRefreshStore struct {
	mock.Mock
}

func (m *mockRefreshStore) Put(ctx context.Context, record RefreshRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRefreshStore) Consume(ctx context.Context, accessToken, refreshToken string) (*RefreshRecord, error) {
	args := m.Called(ctx, accessToken, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RefreshRecord), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type mockStateStore struct {
	mock.Mock
}

func (m *mockStateStore) StoreState(ctx context.Context, state string, expiresAt time.Time) error {
	args := m.Called(ctx, state, expiresAt)
	return args.Error(0)
}

func (m *mockStateStore) ConsumeState(ctx context.Context, state string) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

type mockAdapter struct {
	mock.Mock
	id string
}

func (m *mockAdapter) ProviderID() string {
	return m.id
}

func (m *mockAdapter) AuthURL(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *mockAdapter) ResolveIdentity(ctx context.Context, code string) (ExternalIdentity, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(ExternalIdentity), args.Error(1)
}
