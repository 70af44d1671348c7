// Package mail sends room invitation emails and signs the join tokens
// embedded in their links. Delivery goes through the Mailer interface so
// tests and no-SMTP deployments can swap the transport out.
package mail

import (
	"fmt"
	"net/smtp"

	"github.com/teamchat/go-team-chat/internal/config"
)

// Mailer delivers a single plain-text email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail over a plain SMTP submission endpoint using
// net/smtp with optional PLAIN auth.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPMailer builds a mailer from the SMTP config section.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	}
}

// Send delivers one message. It fails when no SMTP host is configured so
// callers can surface a transport error instead of silently dropping mail.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}
