package email

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/hemovault/bloodbank-api/internal/config"
)

// Service sends transactional notifications. Failures are the caller's
// to log; no send is ever load-bearing for a request.
type Service interface {
	SendWelcome(to, name string) error
	SendRequestFulfilled(to, name, bloodType string) error
	SendAppointmentReminder(to, name, when string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// noopService is used when email is disabled in config
type noopService struct{}

func NewService(cfg config.EmailConfig) Service {
	if !cfg.Enabled {
		return noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendWelcome(to, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour blood bank account has been created.\n", name)
	return s.send(to, "Welcome to the blood bank", body)
}

func (s *smtpService) SendRequestFulfilled(to, name, bloodType string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour request for %s blood has been fulfilled.\n", name, bloodType)
	return s.send(to, "Blood request fulfilled", body)
}

func (s *smtpService) SendAppointmentReminder(to, name, when string) error {
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder of your appointment on %s.\n", name, when)
	return s.send(to, "Appointment reminder", body)
}

func (noopService) SendWelcome(to, name string) error {
	log.Debug().Str("to", to).Msg("email disabled, skipping welcome")
	return nil
}

func (noopService) SendRequestFulfilled(to, name, bloodType string) error {
	log.Debug().Str("to", to).Msg("email disabled, skipping fulfillment notice")
	return nil
}

func (noopService) SendAppointmentReminder(to, name, when string) error {
	log.Debug().Str("to", to).Msg("email disabled, skipping reminder")
	return nil
}
