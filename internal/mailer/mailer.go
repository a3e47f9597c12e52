// Package mailer provides the outbound email capability used by the
// authentication engine's verification and password-reset flows. The
// identity pipeline never depends on a send outcome.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"rentora.org/internal/obs"
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig carries the connection settings for SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPSender sends mail through a configured SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender validates the relay configuration.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("mailer: SMTP host is not configured")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if strings.TrimSpace(cfg.From) == "" {
		cfg.From = "no-reply@localhost"
	}
	return &SMTPSender{cfg: cfg, send: smtp.SendMail}, nil
}

// Send delivers one message. Failures are logged and returned; the caller
// decides whether delivery matters for its flow.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("mailer: recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	msg := buildMessage(s.cfg.From, to, subject, body)

	if err := s.send(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		obs.LogEvent(map[string]any{
			"level": "error",
			"msg":   "email send failed",
			"to":    to,
			"error": err.Error(),
		})
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	obs.LogEvent(map[string]any{
		"level": "info",
		"msg":   "email sent",
		"to":    to,
	})
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// sanitizeHeader strips CRLF so user-supplied subjects cannot inject headers.
func sanitizeHeader(v string) string {
	v = strings.ReplaceAll(v, "\r", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.TrimSpace(v)
}

// LogSender writes messages to the log instead of delivering them. Used in
// development when no SMTP relay is configured.
type LogSender struct{}

var _ Sender = LogSender{}

func (LogSender) Send(ctx context.Context, to, subject, body string) error {
	obs.LogEvent(map[string]any{
		"level":   "info",
		"msg":     "email suppressed (no SMTP relay configured)",
		"to":      to,
		"subject": subject,
	})
	return nil
}
