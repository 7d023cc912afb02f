// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is one outbound message. TextBody is required; HTMLBody is
// attached as the preferred alternative when present.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP settings. A blank Host disables sending.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // e.g., "StaffHub <no-reply@example.com>"
}

// Mailer sends email over SMTP. A nil *Mailer is a valid no-op sender,
// so callers can hold one unconditionally.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

// New returns a Mailer for the given SMTP config, or nil when no host is
// configured.
func New(cfg Config, logger *zap.Logger) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Mailer{cfg: cfg, log: logger}
}

// Enabled reports whether this mailer will actually send.
func (m *Mailer) Enabled() bool {
	return m != nil
}

// Send delivers one message. On a nil Mailer it is a no-op.
func (m *Mailer) Send(email Email) error {
	if m == nil {
		return nil
	}
	if email.To == "" {
		return fmt.Errorf("mailer: empty recipient")
	}

	msg := m.buildMessage(email)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, envelopeFrom(m.cfg.From), []string{email.To}, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", email.To, err)
	}
	m.log.Debug("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject))
	return nil
}

// buildMessage assembles the RFC 5322 message, multipart/alternative when
// an HTML body is present.
func (m *Mailer) buildMessage(email Email) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.cfg.From + "\r\n")
	b.WriteString("To: " + email.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", email.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(email.TextBody)
		return []byte(b.String())
	}

	const boundary = "staffhub-alt-boundary"
	b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(email.TextBody)
	b.WriteString("\r\n--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(email.HTMLBody)
	b.WriteString("\r\n--" + boundary + "--\r\n")
	return []byte(b.String())
}

// envelopeFrom strips a display name, leaving the bare address for the
// SMTP envelope.
func envelopeFrom(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}
