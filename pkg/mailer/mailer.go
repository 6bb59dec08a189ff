package mailer

import (
	"io"

	"gopkg.in/gomail.v2"
)

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers a message. Callers treat delivery as best-effort: a
// committed business transaction is worth more than a guaranteed
// notification, so failures are logged by the caller and never propagated.
type Mailer interface {
	Send(msg Message) error
}

type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTP(host string, port int, user, password, from, fromName string) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(host, port, user, password),
		from:     from,
		fromName: fromName,
	}
}

func (s *SMTPMailer) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	for _, att := range msg.Attachments {
		content := att.Content
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	return s.dialer.DialAndSend(m)
}
