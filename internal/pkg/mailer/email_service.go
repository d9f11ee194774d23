// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"html"

	"talentscout-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendScreeningConfirmation(toEmail, candidateName, candidateId string) error
}

// sender is the part of gomail.Dialer the service uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
	logger      logger.ILogger
}

// NewEmailService returns nil when no SMTP host is configured; callers treat a
// nil IEmailService as "mail disabled".
func NewEmailService(host string, port int, username, password, senderEmail, senderName string, log logger.ILogger) IEmailService {
	if host == "" {
		return nil
	}
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
		logger:      log,
	}
}

func (s *emailService) SendScreeningConfirmation(toEmail, candidateName, candidateId string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "We received your screening")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thank you, %s!</h2>
			<p>Your screening with %s is complete and our recruiters will review it shortly.</p>
			<p>Your reference is:</p>
			<h3 style="letter-spacing: 1px;">%s</h3>
			<p>Quote this reference if you want to see, export or delete your data.</p>
		</div>
	`, html.EscapeString(candidateName), html.EscapeString(s.senderName), candidateId)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send screening confirmation", map[string]interface{}{
			"candidate_id": candidateId,
			"error":        err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Screening confirmation sent", map[string]interface{}{
		"candidate_id": candidateId,
	})
	return nil
}
