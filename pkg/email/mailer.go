package email

import (
	"context"
	"errors"

	"github.com/dmitrymomot/authkit/pkg/validator"
)

// EmailSender delivers a rendered message.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Validate requires a valid recipient, a subject and a body.
func (p SendEmailParams) Validate() error {
	err := validator.Apply(
		validator.ValidEmail("send_to", p.SendTo),
		validator.Required("subject", p.Subject),
		validator.Required("body_html", p.BodyHTML),
	)
	if err != nil {
		return errors.Join(ErrInvalidParams, err)
	}
	return nil
}
