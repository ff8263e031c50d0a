package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text mail over SMTP. With no host configured it logs
// the message instead, which keeps the recovery flow usable in development.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func New(host string, port int, username, password, from string) *Mailer {
	if from == "" {
		from = username
	}
	return &Mailer{host: host, port: port, username: username, password: password, from: from}
}

// Send delivers one message. The context is honored only up to the SMTP
// dial; net/smtp has no per-command deadline hooks.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m.host == "" {
		log.Printf("[mail] smtp not configured, would send to %s: %s", to, subject)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
