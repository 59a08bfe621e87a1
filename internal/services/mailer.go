package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
)

// Mailer delivers the email copy of pipeline notifications. Delivery is best
// effort; a mail failure never fails the pipeline.
type Mailer interface {
	Send(toEmail, subject, body string) error
}

type sendgridMailer struct {
	log       *logger.Logger
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewMailer returns a SendGrid-backed mailer, or a console mailer when
// SENDGRID_API_KEY is unset so local development works without credentials.
func NewMailer(baseLog *logger.Logger) Mailer {
	apiKey := strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	if apiKey == "" {
		return &consoleMailer{log: baseLog.With("service", "ConsoleMailer")}
	}
	fromName := strings.TrimSpace(os.Getenv("SENDGRID_FROM_NAME"))
	if fromName == "" {
		fromName = "CourseCraft"
	}
	fromEmail := strings.TrimSpace(os.Getenv("SENDGRID_FROM_EMAIL"))
	if fromEmail == "" {
		fromEmail = "no-reply@coursecraft.app"
	}
	return &sendgridMailer{
		log:       baseLog.With("service", "SendGridMailer"),
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *sendgridMailer) Send(toEmail, subject, body string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("mailer: missing recipient")
	}
	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail("", toEmail)
	msg := sgmail.NewSingleEmail(from, subject, to, body, body)
	resp, err := m.client.Send(msg)
	if err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mailer: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	m.log.Debug("notification email sent", "to", toEmail, "subject", subject)
	return nil
}

type consoleMailer struct {
	log *logger.Logger
}

func (m *consoleMailer) Send(toEmail, subject, body string) error {
	m.log.Info("notification email (console)", "to", toEmail, "subject", subject, "body", body)
	return nil
}
