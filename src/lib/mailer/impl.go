package mailer

import (
	"fmt"
	"hms/src/lib"
	"log"
	"os"

	"github.com/wneessen/go-mail"
)

type SendMailInput struct {
	From     string
	FromName string
	To       []string
	Cc       []string
	Subject  string
	Body     string
	Html     string
}

// NewMailerMessage sends mail fire-and-forget. Delivery failures are logged
// and never surfaced to the booking flow.
func NewMailerMessage(input *SendMailInput) error {
	c, err := lib.GetSMTPClient()
	if err != nil {
		return err
	}
	m := mail.NewMsg()
	from := input.From
	if from == "" {
		from = os.Getenv("MAIL_FROM")
	}
	if err := m.FromFormat(input.FromName, from); err != nil {
		return fmt.Errorf("invalid sender address: %s", err.Error())
	}
	if err := m.To(input.To...); err != nil {
		return fmt.Errorf("invalid recipient address: %s", err.Error())
	}
	if len(input.Cc) > 0 {
		if err := m.Cc(input.Cc...); err != nil {
			return fmt.Errorf("invalid cc address: %s", err.Error())
		}
	}
	m.Subject(input.Subject)
	if input.Html != "" {
		m.SetBodyString(mail.TypeTextHTML, input.Html)
	} else {
		m.SetBodyString(mail.TypeTextPlain, input.Body)
	}
	if err := c.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending mail: %s", err.Error())
	}
	return nil
}

// SendAsync fires the message off on its own goroutine.
func SendAsync(input *SendMailInput) {
	go func() {
		if err := NewMailerMessage(input); err != nil {
			log.Printf("[mailer] %s\n", err.Error())
		}
	}()
}
