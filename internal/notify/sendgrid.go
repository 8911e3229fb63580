package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"portfolio-news-alerts/internal/logger"
)

// SendGridConfig configures the mail transport. Host overrides https://api.sendgrid.com.
type SendGridConfig struct {
	APIKey string
	From   string
	To     string
	Host   string
}

// SendGridNotifier sends one plain-text mail per call through the v3 mail/send API.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
	to     *mail.Email
}

func NewSendGridNotifier(cfg SendGridConfig) *SendGridNotifier {
	client := sendgrid.NewSendClient(cfg.APIKey)
	if cfg.Host != "" {
		client.BaseURL = cfg.Host + "/v3/mail/send"
	}
	return &SendGridNotifier{
		client: client,
		from:   mail.NewEmail("", cfg.From),
		to:     mail.NewEmail("", cfg.To),
	}
}

// Notify sanitizes subject and body and sends them. A non-2xx status is an error.
func (n *SendGridNotifier) Notify(ctx context.Context, subject, body string) error {
	subject = ASCIISafe(subject)
	body = ASCIISafe(body)

	msg := mail.NewSingleEmailPlainText(n.from, subject, n.to, body)
	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}

	logger.Debug(ctx, "SendGrid accepted mail", "status", resp.StatusCode, "message_id", resp.Headers["X-Message-Id"])
	return nil
}
