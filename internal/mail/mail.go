// Package mail is the outbound-message boundary. The rest of the application
// only knows the Send contract; whether a message actually travels over SMTP
// or just lands in the log is a deployment concern.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer sends a message to a single recipient. Delivery is fire-and-forget
// from the caller's perspective: a transport failure surfaces as the returned
// error and is not retried here.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds the transport credentials, read from the environment by
// the composition root.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer delivers messages over plain SMTP with AUTH PLAIN.
type SMTPMailer struct {
	config SMTPConfig
	logger *slog.Logger
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{config: cfg, logger: logger}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.config.From, to, subject, body)

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := m.config.Host + ":" + m.config.Port

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mail: sending to %s: %w", to, err)
	}

	m.logger.Info("mail sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used in
// development and tests when no SMTP credentials are configured - the server
// still works, reset links just show up in the log output.
type LogMailer struct {
	logger *slog.Logger
}

var _ Mailer = (*LogMailer)(nil)

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("mail (log-only delivery)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
