package notification

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/notify"
	"github.com/shopcore/backend/internal/infrastructure/config"
)

// SMTPEmailSender sends transactional email over SMTP with a
// multipart/alternative body (plain text plus HTML).
type SMTPEmailSender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPEmailSender creates a new SMTPEmailSender
func NewSMTPEmailSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPEmailSender {
	return &SMTPEmailSender{cfg: cfg, logger: logger}
}

// Send sends one email. The context is consulted before dialing; net/smtp
// itself does not support cancellation mid-send.
func (s *SMTPEmailSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(s.cfg.From, to, subject, htmlBody, textBody)
	if err != nil {
		return fmt.Errorf("failed to build email message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.logger.Debug("Email sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, htmlBody, textBody string) ([]byte, error) {
	var buf strings.Builder
	writer := multipart.NewWriter(&buf)

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%q\r\n\r\n",
		from, to, subject, writer.Boundary())

	// Plain text first: mail clients pick the last part they can render.
	if textBody != "" {
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type": {"text/plain; charset=UTF-8"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := part.Write([]byte(textBody)); err != nil {
			return nil, err
		}
	}
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return []byte(headers + buf.String()), nil
}

// Ensure SMTPEmailSender implements notify.EmailSender
var _ notify.EmailSender = (*SMTPEmailSender)(nil)
