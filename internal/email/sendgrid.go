package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/ruddypp/Paramata-System/internal/logger"
)

// Sender delivers reminder emails. Implementations are fire-and-forget
// from the dispatcher's point of view.
type Sender interface {
	Send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error
}

type sendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewSendGridSender returns a Sender backed by SendGrid. An empty API key
// returns a disabled sender that logs and drops every message.
func NewSendGridSender(apiKey, fromEmail, fromName string) Sender {
	if apiKey == "" {
		logger.Info("SendGrid not configured, email delivery disabled")
		return &noopSender{}
	}
	return &sendGridSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *sendGridSender) Send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

type noopSender struct{}

func (*noopSender) Send(_ context.Context, to, _, subject, _, _ string) error {
	logger.Debug("Email delivery disabled, dropping message", "to", to, "subject", subject)
	return nil
}
