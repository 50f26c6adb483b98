package mail

import (
	"fmt"

	"github.com/teamtrackr/teamtrackr/pkg/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends plain-text mail. The worker depends on this interface so tests
// can record sends instead of talking to an SMTP server.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password),
		from:   fmt.Sprintf("%s <%s>", cfg.From, cfg.Email),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

var _ Mailer = (*SMTPMailer)(nil)
