// Package notify delivers the combined synchronization report by email.
// It is a thin SMTP wrapper; callers skip it entirely when the combined
// report body is empty
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Config holds the SMTP delivery settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Mailer sends report emails over SMTP
type Mailer struct {
	cfg Config
}

// NewMailer creates a new SMTP mailer
func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		cfg: cfg,
	}
}

// SendReport sends the given report body as a plain-text email
func (m *Mailer) SendReport(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()

	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}

	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}

	if m.cfg.Username != "" {
		opts = append(
			opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("unable to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("unable to send report email: %w", err)
	}

	return nil
}
