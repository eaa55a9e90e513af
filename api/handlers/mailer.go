package handlers

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const mailFromName = "CareBridge"
const mailFromAddress = "no-reply@carebridge.app"

// Mailer sends transactional email. Callers treat a send as best-effort: a
// failed send is logged and never fails the operation that triggered it.
type Mailer interface {
	Send(toEmail, subject, plainTextContent, htmlContent string) error
}

type sendgridMailer struct{}

// NewSendgridMailer returns the SendGrid-backed Mailer used in production
func NewSendgridMailer() Mailer {
	return sendgridMailer{}
}

func (sendgridMailer) Send(toEmail, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	from := mail.NewEmail(mailFromName, mailFromAddress)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}

// sendEmailBestEffort logs and swallows send failures so side-effect email
// never rolls back the primary operation.
func sendEmailBestEffort(m Mailer, toEmail, subject, plain, htmlBody string) {
	if m == nil {
		return
	}
	if err := m.Send(toEmail, subject, plain, htmlBody); err != nil {
		zap.S().Errorw("failed to send email",
			"to", toEmail,
			"subject", subject,
			"error", err,
		)
	}
}
