// Package mail holds the outbound mail implementations behind the auth
// service's Mailer port. Delivery transport is a deployment concern; the
// default implementation just records that a send would have happened.
package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes the reset notification to the structured log instead of
// sending it. Useful in development and as a safe default when no delivery
// provider is configured.
type LogMailer struct {
	log *slog.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendPasswordReset logs the reset request. The token itself is not logged;
// only its length, so operators can confirm issuance without the log
// becoming a credential store.
func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token, name string) error {
	m.log.InfoContext(ctx, "password reset email requested",
		"email", email,
		"name", name,
		"token_len", len(token),
	)
	return nil
}
