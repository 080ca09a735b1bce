package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/email/templates"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
)

// TemplateFunc builds the email body from notification variables.
type TemplateFunc func(vars map[string]any) templ.Component

// Notifier implements auth.Notifier on top of an EmailSender.
type Notifier struct {
	sender    EmailSender
	templates map[string]TemplateFunc
	appName   string
	logger    *slog.Logger
}

type NotifierOption func(*Notifier)

// WithTemplate registers or replaces the component for a template name.
func WithTemplate(name string, fn TemplateFunc) NotifierOption {
	return func(n *Notifier) {
		n.templates[name] = fn
	}
}

// WithAppName sets the product name shown in message bodies.
func WithAppName(name string) NotifierOption {
	return func(n *Notifier) {
		if name != "" {
			n.appName = name
		}
	}
}

func WithNotifierLogger(l *slog.Logger) NotifierOption {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

func NewNotifier(sender EmailSender, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		sender:    sender,
		templates: make(map[string]TemplateFunc),
		appName:   "authkit",
		logger:    logger.Discard(),
	}
	n.templates[auth.TemplateEmailVerification] = func(vars map[string]any) templ.Component {
		return templates.Verification(templates.VerificationParams{
			AppName:     n.appName,
			DisplayName: stringVar(vars, "displayName"),
			ConfirmURL:  stringVar(vars, "confirmUrl"),
			Token:       stringVar(vars, "token"),
		})
	}

	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Send renders the template named by msg.Template and hands it to the sender.
func (n *Notifier) Send(ctx context.Context, msg auth.Notification) error {
	tpl, ok := n.templates[msg.Template]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, msg.Template)
	}

	body, err := templates.Render(ctx, tpl(msg.Variables))
	if err != nil {
		return fmt.Errorf("failed to render %s email: %w", msg.Template, err)
	}

	if err := n.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   msg.To,
		Subject:  msg.Subject,
		BodyHTML: body,
		Tag:      msg.Template,
	}); err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "email sent",
		slog.String("to", sanitizer.MaskEmail(msg.To)),
		slog.String("template", msg.Template),
		logger.Component("email"),
	)
	return nil
}

func stringVar(vars map[string]any, key string) string {
	s, _ := vars[key].(string)
	return s
}

var _ auth.Notifier = (*Notifier)(nil)
