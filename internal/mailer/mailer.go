// server/internal/mailer/mailer.go
package mailer

import (
	"fmt"

	"devcamper-api-server/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional mail through SendGrid.
type EmailService struct {
	client      *sendgrid.Client
	fromAddress string
	fromName    string
}

func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{
		client:      sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

// SendEmail sends a plain-text email to the given recipient.
func (es *EmailService) SendEmail(toEmail, subject, body string) error {
	from := mail.NewEmail(es.fromName, es.fromAddress)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	response, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: sendgrid returned %d", response.StatusCode)
	}

	return nil
}

// SendResetPasswordEmail mails the raw reset token URL to the user.
func (es *EmailService) SendResetPasswordEmail(toEmail, resetURL string) error {
	body := fmt.Sprintf(
		"You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to: \n\n%s",
		resetURL,
	)
	return es.SendEmail(toEmail, "Password reset token", body)
}
