package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"os"

	"sealpost/internal/sealpost"
)

// SMTPMailer sends messages through an SMTP relay. Delivery is one-shot:
// no retries, no timeout tuning beyond the platform dial defaults.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	username string
	password string
}

// NewSMTPMailer creates a mailer for the given relay. The password is read
// from the environment variable named by passwordEnv so it never appears in
// configuration files.
func NewSMTPMailer(host string, port int, from, username, passwordEnv string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		from:     from,
		username: username,
		password: os.Getenv(passwordEnv),
	}
}

// Send delivers the message. Authentication is used only when a username
// is configured.
func (m *SMTPMailer) Send(ctx context.Context, msg *sealpost.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := BuildMIME(m.from, msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.from, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("mail: sending to %s: %w", msg.To, err)
	}
	return nil
}

// Compile-time check that SMTPMailer implements the Mailer interface.
var _ sealpost.Mailer = (*SMTPMailer)(nil)
