package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailer sends transactional mail. Services depend on the interface so tests
// can capture sends without network.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, code string) error
}

type mailgunMailer struct {
	mg   *mailgun.MailgunImpl
	from string
}

// NewMailgunMailer returns nil when the domain is not configured, which
// callers treat as "mail disabled".
func NewMailgunMailer(domain, apiKey, from string) Mailer {
	if domain == "" || apiKey == "" {
		return nil
	}
	return &mailgunMailer{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}
}

func (m *mailgunMailer) SendPasswordReset(ctx context.Context, to, code string) error {
	body := fmt.Sprintf(
		"Your password reset code is %s.\n\nIt expires in 1 hour. If you did not request a reset, ignore this email.",
		code,
	)
	msg := m.mg.NewMessage(m.from, "Password reset code", body, to)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, _, err := m.mg.Send(ctx, msg)
	return err
}
