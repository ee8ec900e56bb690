package mail

import "log"

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Message struct {
	From        string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer отправляет письма
type Mailer interface {
	Send(msg Message) error
}

// SendAsync отправляет письмо в отдельной горутине, не блокируя запрос.
// Ошибка доставки только логируется.
func SendAsync(m Mailer, msg Message) {
	go func() {
		if err := m.Send(msg); err != nil {
			log.Printf("mail: send to %s: %v", msg.To, err)
		}
	}()
}
