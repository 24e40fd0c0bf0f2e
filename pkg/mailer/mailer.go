package mailer

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

var ErrInvalidMessage = errors.New("invalid mail message")

// Config - параметры SMTP сервера
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Message - одно письмо; Body в text/plain, HTMLBody опционален
type Message struct {
	To       string
	Subject  string
	Body     string
	HTMLBody string
}

// Mailer отправляет транзакционные письма
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer отправляет письма через SMTP с помощью gomail
type SMTPMailer struct {
	from string
	send func(m *gomail.Message) error
}

// NewSMTPMailer создает mailer; соединение открывается на каждое письмо
func NewSMTPMailer(cfg Config) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	return newSMTPMailer(cfg, dialer.DialAndSend)
}

func newSMTPMailer(cfg Config, send func(m ...*gomail.Message) error) *SMTPMailer {
	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}

	return &SMTPMailer{
		from: from,
		send: func(m *gomail.Message) error {
			return send(m)
		},
	}
}

// Send собирает MIME сообщение и отправляет его
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" || msg.Subject == "" {
		return ErrInvalidMessage
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	if msg.HTMLBody != "" {
		gm.AddAlternative("text/html", msg.HTMLBody)
	}

	if err := m.send(gm); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
