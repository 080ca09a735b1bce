package email_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/authkit/pkg/email"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
