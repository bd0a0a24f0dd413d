package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// The confirmation email is a fixed template; only the recipient varies.
const (
	emailSubject = "The file is successfully uploaded!"
	emailBody    = "The file has been successfully uploaded. Thank you!"
)

// Mailer sends the upload confirmation email to a recipient.
type Mailer interface {
	Send(ctx context.Context, to string) error
}

// SendGridMailer delivers confirmation emails through SendGrid.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridMailer creates a Mailer backed by the SendGrid API.
func NewSendGridMailer(apiKey, fromAddress, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

// Send delivers the fixed-template plaintext confirmation to the given address.
func (m *SendGridMailer) Send(ctx context.Context, to string) error {
	msg := mail.NewV3MailInit(m.from, emailSubject, mail.NewEmail("", to),
		mail.NewContent("text/plain", emailBody))

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send confirmation email: sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
