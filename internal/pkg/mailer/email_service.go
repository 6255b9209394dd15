package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// IEmailService delivers escalations that must reach someone even when no
// client is connected.
type IEmailService interface {
	SendActionAlert(toEmail, topicTitle, severity, message string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendActionAlert(toEmail, topicTitle, severity, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("[%s] %s", severity, topicTitle))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>%s</p>
			<p style="color: #999;">Severity: %s</p>
		</div>
	`, topicTitle, message, severity)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return err
	}
	return nil
}
