package auth

import (
	"context"
	"time"
)

// Template names understood by Notifier implementations.
const (
	TemplateEmailVerification = "email_verification"
)

// Notification is a templated message addressed to a single recipient.
type Notification struct {
	To        string
	Subject   string
	Template  string
	Variables map[string]any
}

// Notifier delivers notifications to users.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification) error

// Send calls f(ctx, n).
func (f NotifierFunc) Send(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Clock is the time source used for token issuance and expiry checks.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f().
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })
