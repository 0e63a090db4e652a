// Package notify defines the outbound notification contracts consumed by
// the application services. Implementations are best-effort: delivery
// failures are logged by the caller and never fail the triggering
// operation.
package notify

import "context"

// Notifier sends a plain-text operational message (e.g. to a messaging
// channel). Fire-and-forget.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// EmailSender sends an email with an HTML body and an optional plain-text
// alternative. Fire-and-forget.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// NopNotifier discards messages. Useful when no channel is configured.
type NopNotifier struct{}

// Send implements Notifier
func (NopNotifier) Send(context.Context, string) error { return nil }

// NopEmailSender discards emails. Useful when SMTP is not configured.
type NopEmailSender struct{}

// Send implements EmailSender
func (NopEmailSender) Send(context.Context, string, string, string, string) error { return nil }
