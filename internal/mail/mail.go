// Package mail sends outbound application mail. The only mail the server
// sends today is the password-reset message.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer sends application mail.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay with PLAIN auth over STARTTLS.
type SMTPMailer struct {
	cfg    Config
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer for the given SMTP relay.
func NewSMTPMailer(cfg Config, logger *slog.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg, logger: logger}, nil
}

// SendPasswordReset sends a reset link to the given address. The link is
// valid for a short window; the body says so rather than embedding the TTL,
// which only the auth layer knows.
func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	subject := "Password Reset - Book Notes"
	body := strings.Join([]string{
		"You requested a password reset for your Book Notes account.",
		"",
		"Click the link below to choose a new password. The link expires shortly, so use it soon:",
		"",
		resetURL,
		"",
		"If you didn't request this, you can ignore this message and your password will stay unchanged.",
	}, "\r\n")

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	m.logger.Info("sent password reset mail", "to", to)
	return nil
}

// NoopMailer logs instead of sending. Used in development when no SMTP relay
// is configured, so the reset flow stays testable end to end.
type NoopMailer struct {
	logger *slog.Logger
}

// NewNoopMailer creates a mailer that only logs.
func NewNoopMailer(logger *slog.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// SendPasswordReset logs the reset link at warn level so it stands out.
func (m *NoopMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	m.logger.Warn("mail disabled, logging reset link instead",
		"to", to,
		"url", resetURL,
	)
	return nil
}
