package email_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/email"
)

func verificationNotification() auth.Notification {
	return auth.Notification{
		To:       "jane@example.com",
		Subject:  "Confirm your email",
		Template: auth.TemplateEmailVerification,
		Variables: map[string]any{
			"displayName": "Jane <admin>",
			"token":       "abc123",
			"confirmUrl":  "https://app.example.com/auth/confirm/abc123",
		},
	}
}

func TestNotifier_Send(t *testing.T) {
	t.Parallel()

	t.Run("renders verification template", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		var sent email.SendEmailParams
		sender.On("SendEmail", mock.Anything, mock.AnythingOfType("email.SendEmailParams")).
			Run(func(args mock.Arguments) {
				sent = args.Get(1).(email.SendEmailParams)
			}).
			Return(nil)

		n := email.NewNotifier(sender, email.WithAppName("Acme"))
		require.NoError(t, n.Send(context.Background(), verificationNotification()))

		sender.AssertExpectations(t)
		assert.Equal(t, "jane@example.com", sent.SendTo)
		assert.Equal(t, "Confirm your email", sent.Subject)
		assert.Equal(t, auth.TemplateEmailVerification, sent.Tag)
		assert.Contains(t, sent.BodyHTML, `href="https://app.example.com/auth/confirm/abc123"`)
		assert.Contains(t, sent.BodyHTML, "Acme")
		assert.Contains(t, sent.BodyHTML, "<code>abc123</code>")
		assert.Contains(t, sent.BodyHTML, "Jane &lt;admin&gt;")
		assert.NotContains(t, sent.BodyHTML, "<admin>")
	})

	t.Run("unsafe link is replaced", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		var sent email.SendEmailParams
		sender.On("SendEmail", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				sent = args.Get(1).(email.SendEmailParams)
			}).
			Return(nil)

		msg := verificationNotification()
		msg.Variables["confirmUrl"] = "javascript:alert(1)"

		require.NoError(t, email.NewNotifier(sender).Send(context.Background(), msg))
		assert.NotContains(t, sent.BodyHTML, "javascript:")
	})

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		msg := verificationNotification()
		msg.Template = "password_reset"

		err := email.NewNotifier(sender).Send(context.Background(), msg)
		require.ErrorIs(t, err, email.ErrUnknownTemplate)
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("custom template", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
			return p.BodyHTML == "<p>reset xyz</p>" && p.Tag == "password_reset"
		})).Return(nil)

		n := email.NewNotifier(sender, email.WithTemplate("password_reset", func(vars map[string]any) templ.Component {
			return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "<p>reset "+vars["token"].(string)+"</p>")
				return err
			})
		}))

		err := n.Send(context.Background(), auth.Notification{
			To:        "jane@example.com",
			Subject:   "Reset",
			Template:  "password_reset",
			Variables: map[string]any{"token": "xyz"},
		})
		require.NoError(t, err)
		sender.AssertExpectations(t)
	})

	t.Run("sender error is returned", func(t *testing.T) {
		t.Parallel()

		sendErr := errors.New("smtp down")
		sender := &MockEmailSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(sendErr)

		err := email.NewNotifier(sender).Send(context.Background(), verificationNotification())
		require.ErrorIs(t, err, sendErr)
	})
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{SendTo: "a@example.com", Subject: "Hi", BodyHTML: "<p>hi</p>"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(p *email.SendEmailParams)
	}{
		{"missing recipient", func(p *email.SendEmailParams) { p.SendTo = "" }},
		{"bad recipient", func(p *email.SendEmailParams) { p.SendTo = "not-an-email" }},
		{"missing subject", func(p *email.SendEmailParams) { p.Subject = "" }},
		{"missing body", func(p *email.SendEmailParams) { p.BodyHTML = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := valid
			tt.modify(&p)
			assert.ErrorIs(t, p.Validate(), email.ErrInvalidParams)
		})
	}
}
