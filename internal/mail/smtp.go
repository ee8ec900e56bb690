package mail

import (
	"bytes"

	gomail "github.com/wneessen/go-mail"
)

// SMTPMailer — доставка через SMTP
type SMTPMailer struct {
	client *gomail.Client
}

func NewSMTP(host string, port int, username, password string) (*SMTPMailer, error) {
	opts := []gomail.Option{gomail.WithPort(port)}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPMailer{client: client}, nil
}

func (m *SMTPMailer) Send(msg Message) error {
	mm, err := buildMsg(msg)
	if err != nil {
		return err
	}
	return m.client.DialAndSend(mm)
}

func buildMsg(msg Message) (*gomail.Msg, error) {
	mm := gomail.NewMsg()
	if err := mm.From(msg.From); err != nil {
		return nil, err
	}
	if err := mm.To(msg.To); err != nil {
		return nil, err
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(gomail.TypeTextPlain, msg.Body)

	// письмо без вложения бесполезно получателю экспорта,
	// сбой прикрепления отменяет отправку
	for _, a := range msg.Attachments {
		if err := mm.AttachReader(a.Name, bytes.NewReader(a.Data),
			gomail.WithFileContentType(gomail.ContentType(a.ContentType))); err != nil {
			return nil, err
		}
	}

	return mm, nil
}
