// Package email delivers sign-in links.
package email

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

type Sender interface {
	Send(to, subject, html string) error
}

// StdoutSender logs emails instead of delivering them. Used when no SMTP
// server is configured.
type StdoutSender struct {
	Logger zerolog.Logger
}

func (s StdoutSender) Send(to, subject, html string) error {
	s.Logger.Info().Str("to", to).Str("subject", subject).Msg(html)
	return nil
}

const (
	defaultSMTPAddr = "localhost:1025"
	defaultFrom     = "no-reply@coachgpt.local"
)

// SMTPSender sends HTML mail through an unauthenticated relay such as MailHog.
type SMTPSender struct {
	Addr string
	From string
}

func NewSMTPSender(addr, from string) *SMTPSender {
	if addr == "" {
		addr = defaultSMTPAddr
	}
	if from == "" {
		from = defaultFrom
	}
	return &SMTPSender{Addr: addr, From: from}
}

func (s *SMTPSender) Send(to, subject, html string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("email: recipient required")
	}
	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		html,
	}, "\r\n")
	if err := smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("email: send to %s: %w", to, err)
	}
	return nil
}
