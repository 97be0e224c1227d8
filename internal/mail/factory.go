package mail

import (
	"fmt"

	"sealpost/internal/config"
	"sealpost/internal/sealpost"
)

// NewMailerFromConfig creates a Mailer implementation based on the mail config type.
func NewMailerFromConfig(cfg config.MailConfig) (sealpost.Mailer, error) {
	switch cfg.Type {
	case "smtp", "":
		if cfg.Host == "" {
			return nil, fmt.Errorf("smtp mailer requires host to be set")
		}
		if cfg.From == "" {
			return nil, fmt.Errorf("smtp mailer requires from to be set")
		}
		port := cfg.Port
		if port == 0 {
			port = 25
		}
		return NewSMTPMailer(cfg.Host, port, cfg.From, cfg.Username, cfg.PasswordEnv), nil
	case "memory":
		return NewMemoryMailer(), nil
	default:
		return nil, fmt.Errorf("unknown mailer type: %s", cfg.Type)
	}
}
