// Package mail defines the outbound email port. Delivery itself is an
// external collaborator; the server only needs somewhere to hand the
// password-reset message.
package mail

import (
	"context"
	"log/slog"
)

// Mailer sends transactional email for the storefront.
type Mailer interface {
	// SendPasswordReset delivers a reset link to the address.
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

// LogMailer writes outbound mail to the log instead of delivering it.
// Used in development and tests, and as a safe default when no delivery
// provider is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendPasswordReset implements Mailer.
func (m *LogMailer) SendPasswordReset(_ context.Context, email, resetURL string) error {
	if m.logger != nil {
		m.logger.Info("password reset requested", "email", email, "reset_url", resetURL)
	}
	return nil
}
