package notification

import (
	"fmt"
	"net/smtp"

	"auction-platform/internal/config"
	"auction-platform/utils"
)

// SMTPMailer sends plain-text mail over an authenticated SMTP connection.
// It is the production implementation of the settlement engine's EmailSender.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer creates an SMTPMailer from configuration.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.Mail,
		auth: smtp.PlainAuth("", cfg.Mail, cfg.Password, cfg.Host),
	}
}

// Send delivers one message. The caller treats a failure as non-fatal.
func (m *SMTPMailer) Send(to, subject, message string) error {
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, message)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}

// LogMailer logs messages instead of delivering them; used when no SMTP
// host is configured.
type LogMailer struct{}

// Send records the message in the process log.
func (LogMailer) Send(to, subject, _ string) error {
	utils.Info("mailer: email suppressed, smtp not configured", map[string]any{
		"to":      to,
		"subject": subject,
	})
	return nil
}
