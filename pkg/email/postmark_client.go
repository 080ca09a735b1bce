package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/authkit/pkg/validator"
)

// PostmarkClient sends through Postmark's transactional API.
type PostmarkClient struct {
	client *postmark.Client
	config Config
}

type PostmarkOption func(*PostmarkClient)

// WithPostmarkBaseURL points the client at another API root.
func WithPostmarkBaseURL(url string) PostmarkOption {
	return func(c *PostmarkClient) {
		if url != "" {
			c.client.BaseURL = url
		}
	}
}

func NewPostmarkClient(cfg Config, opts ...PostmarkOption) (*PostmarkClient, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if err := validator.Apply(validator.ValidEmail("SenderEmail", cfg.SenderEmail)); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if cfg.SupportEmail != "" {
		if err := validator.Apply(validator.ValidEmail("SupportEmail", cfg.SupportEmail)); err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
	}

	c := &PostmarkClient{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendEmail sends params with open tracking on and replies going to SupportEmail.
func (c *PostmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:       c.config.SenderEmail,
		ReplyTo:    c.config.SupportEmail,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
