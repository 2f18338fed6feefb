// Package mail implements the outbound alert mailer. Alert delivery is an
// external-collaborator surface: the SMTP transport is used when credentials
// are configured, and delivery is simulated (logged only) when they are not.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg Config
	log zerolog.Logger
}

func NewSMTPMailer(cfg Config, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// Send delivers one plain-text message. Without configured credentials the
// message is logged and reported as sent.
func (m *SMTPMailer) Send(_ context.Context, recipient, subject, body string) error {
	if m.cfg.Username == "" {
		m.log.Info().
			Str("recipient", recipient).
			Str("subject", subject).
			Msg("smtp not configured, simulating alert delivery")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, recipient, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send alert mail: %w", err)
	}
	return nil
}
