package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Mailer sends transactional mail. Delivery failures surface to the caller;
// security-sensitive flows decide what (not) to tell the end user.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends through a plain SMTP relay configured from the env.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func NewFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, using log-only mailer")
		return LogMailer{}
	}
	return &SMTPMailer{
		Host: host,
		Port: os.Getenv("SMTP_PORT"),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: os.Getenv("SMTP_FROM"),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.From, to, subject, body))
	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	return smtp.SendMail(addr, auth, m.From, []string{to}, msg)
}

// LogMailer writes the message to the log instead of sending it. Used in
// development and tests.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	log.Printf("📧 mail to=%s subject=%q\n%s", to, subject, body)
	return nil
}
