package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/afyahms/hms-api/internal/config"
	"github.com/afyahms/hms-api/internal/model"
)

// Service sends transactional mail over SMTP. When disabled in config it
// logs and drops every message, so callers never need their own gate.
type Service struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
	logger zerolog.Logger
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger.With().Str("component", "email").Logger(),
	}
}

func (s *Service) send(to, subject, body string) error {
	if !s.cfg.Enabled {
		s.logger.Debug().Str("to", to).Str("subject", subject).Msg("email disabled, dropping message")
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendAppointmentConfirmation mails the patient their booking details.
// Patients without an email address are skipped silently.
func (s *Service) SendAppointmentConfirmation(ctx context.Context, patient *model.Patient, appointment *model.Appointment) error {
	if patient.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Appointment %s confirmed", appointment.AppointmentNumber)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment has been scheduled.\n\nAppointment number: %s\nDate: %s\nTime: %s\n\nPlease arrive 15 minutes early and carry your patient card (%s).\n",
		patient.FullName(),
		appointment.AppointmentNumber,
		appointment.AppointmentDate.Format("02 Jan 2006"),
		appointment.AppointmentTime,
		patient.PatientNumber,
	)
	return s.send(patient.Email, subject, body)
}

// NotifyReorder mails the pharmacy desk the list of medicines at or
// below their reorder level.
func (s *Service) NotifyReorder(ctx context.Context, medicines []*model.Medicine) error {
	if len(medicines) == 0 || s.cfg.PharmacyTo == "" {
		return nil
	}
	var b strings.Builder
	b.WriteString("The following medicines have reached their reorder level:\n\n")
	for _, m := range medicines {
		fmt.Fprintf(&b, "- %s (%s): %d in stock, reorder at %d\n", m.Name, m.GenericName, m.CurrentStock, m.ReorderLevel)
	}
	subject := fmt.Sprintf("Pharmacy reorder alert: %d medicines low", len(medicines))
	return s.send(s.cfg.PharmacyTo, subject, b.String())
}
