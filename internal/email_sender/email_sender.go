package emailsender

import (
	"fmt"

	"little_lemon/internal/models"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (m *Mailer) Send(to, subject, body string) error {
	const op = "emailsender.Send"

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Username)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)

	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CreateMessage builds the administrator notice for a new reservation.
func CreateMessage(n models.Notification) (string, string) {
	subject := fmt.Sprintf("New reservation: %s at %s", n.Date, n.Time)

	body := fmt.Sprintf(
		"New reservation!\nReference: %s\nDate: %s\nTime: %s\nGuests: %d\nOccasion: %s\nSubmitted at: %s\n",
		n.Reference,
		n.Date,
		n.Time,
		n.Guests,
		n.Occasion,
		n.SubmittedAt.Format("02-01-2006 15:04:05"),
	)

	return subject, body
}
