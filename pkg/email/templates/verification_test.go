package templates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/email/templates"
)

func TestVerification(t *testing.T) {
	t.Parallel()

	t.Run("escapes user input", func(t *testing.T) {
		t.Parallel()

		body, err := templates.Render(context.Background(), templates.Verification(templates.VerificationParams{
			AppName:     "authkit",
			DisplayName: "Jane <admin>",
			ConfirmURL:  "https://app.example.com/auth/confirm/abc?x=1&y=2",
			Token:       "abc",
		}))
		require.NoError(t, err)

		assert.Contains(t, body, "<p>Hello Jane &lt;admin&gt;,</p>")
		assert.Contains(t, body, "signing up for authkit.")
		assert.Contains(t, body, `href="https://app.example.com/auth/confirm/abc?x=1&amp;y=2"`)
		assert.Contains(t, body, "<code>abc</code>")
	})

	t.Run("without display name", func(t *testing.T) {
		t.Parallel()

		body, err := templates.Render(context.Background(), templates.Verification(templates.VerificationParams{
			AppName:    "authkit",
			ConfirmURL: "/auth/confirm/abc",
			Token:      "abc",
		}))
		require.NoError(t, err)
		assert.Contains(t, body, "<p>Hello,</p>")
	})

	t.Run("unsafe link is replaced", func(t *testing.T) {
		t.Parallel()

		body, err := templates.Render(context.Background(), templates.Verification(templates.VerificationParams{
			ConfirmURL: "javascript:alert(1)",
			Token:      "abc",
		}))
		require.NoError(t, err)
		assert.NotContains(t, body, "javascript:")
	})
}
