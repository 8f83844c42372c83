package mailer

import (
	"fmt"

	"github.com/gamefit-dev/gamefit/config"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Mailer delivers the account confirmation mail. Delivery failures are the
// caller's to log; they must never fail the request that triggered them.
type Mailer interface {
	SendConfirmation(toEmail string, username string, confirmURL string) error
}

// New returns an SMTP-backed mailer, or a log-only one when no mail server
// is configured (local development).
func New(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return &logMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg config.MailConfig
}

func (m *smtpMailer) SendConfirmation(toEmail string, username string, confirmURL string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.cfg.Sender)
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", "Confirm your GameFit account")
	message.SetBody("text/plain", fmt.Sprintf("Hi %s, confirm here:\n\n%s", username, confirmURL))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(message)
}

type logMailer struct{}

func (m *logMailer) SendConfirmation(toEmail string, username string, confirmURL string) error {
	log.Info().
		Str("to", toEmail).
		Str("confirm_url", confirmURL).
		Msg("mail server not configured, confirmation link logged instead")
	return nil
}
