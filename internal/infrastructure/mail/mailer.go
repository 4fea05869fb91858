// Package mail delivers sign-in link emails.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/kudos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Mailer sends transactional email.
type Mailer interface {
	// SendMagicLink mails a one-time sign-in link to the address
	SendMagicLink(ctx context.Context, to, link string) error
}

// SMTPMailer sends mail over plain SMTP with optional auth.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer creates an SMTP-backed mailer from configuration
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

// SendMagicLink mails a one-time sign-in link
func (m *SMTPMailer) SendMagicLink(ctx context.Context, to, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your sign-in link\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString("Click the link below to sign in. The link expires shortly and can be used once.\r\n\r\n")
	b.WriteString(link + "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)

// LogMailer writes the link to the log instead of sending mail.
// Used in development where no SMTP server is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a logging mailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendMagicLink logs the sign-in link
func (m *LogMailer) SendMagicLink(_ context.Context, to, link string) error {
	m.logger.Info("magic link issued",
		zap.String("to", to),
		zap.String("link", link),
	)
	return nil
}

var _ Mailer = (*LogMailer)(nil)
