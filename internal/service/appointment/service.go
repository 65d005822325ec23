package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

const defaultDurationMinutes = 30

// ConfirmationSender delivers booking confirmations out of band; a nil
// sender disables them.
type ConfirmationSender interface {
	SendAppointmentConfirmation(ctx context.Context, patient *model.Patient, appointment *model.Appointment) error
}

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	users        repository.UserRepository
	outbox       repository.OutboxRepository
	mailer       ConfirmationSender
}

func NewService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	mailer ConfirmationSender,
) *Service {
	return &Service{
		appointments: appointments,
		patients:     patients,
		users:        users,
		outbox:       outbox,
		mailer:       mailer,
	}
}

// Schedule books a slot. A doctor holds at most one live booking per
// (date, time); a clash is a conflict, mirrored by a unique index.
func (s *Service) Schedule(ctx context.Context, req *model.ScheduleAppointmentRequest, bookedBy uuid.UUID) (*model.Appointment, error) {
	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		return nil, apperrors.NotFound("patient not found")
	}

	doctor, err := s.users.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, apperrors.NotFound("doctor not found")
	}
	if !doctor.Role.IsDoctor() && !doctor.SecondaryRole.IsDoctor() {
		return nil, apperrors.BadRequest("appointments can only be booked with doctors")
	}

	taken, err := s.appointments.Exists(ctx, req.DoctorID, req.AppointmentDate, req.AppointmentTime, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, apperrors.Conflict("doctor already has an appointment at this time")
	}

	appointment := &model.Appointment{
		AppointmentNumber: newAppointmentNumber(),
		PatientID:         req.PatientID,
		DoctorID:          req.DoctorID,
		DepartmentID:      req.DepartmentID,
		AppointmentDate:   req.AppointmentDate,
		AppointmentTime:   req.AppointmentTime,
		EstimatedDuration: req.EstimatedDuration,
		AppointmentType:   req.AppointmentType,
		Status:            model.AppointmentScheduled,
		ChiefComplaint:    req.ChiefComplaint,
		UrgencyLevel:      req.UrgencyLevel,
		BookedBy:          bookedBy,
		BookingDate:       time.Now(),
		Notes:             req.Notes,
		ConsultationFee:   req.ConsultationFee,
		PaymentStatus:     model.PaymentPending,
	}
	if appointment.EstimatedDuration == 0 {
		appointment.EstimatedDuration = defaultDurationMinutes
	}
	if appointment.UrgencyLevel == "" {
		appointment.UrgencyLevel = model.UrgencyRoutine
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("doctor already has an appointment at this time")
		}
		return nil, apperrors.FromPg(err)
	}

	if s.mailer != nil && patient.Email != "" {
		_ = s.mailer.SendAppointmentConfirmation(ctx, patient, appointment)
	}

	s.emit(ctx, "appointment.scheduled", appointment)
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, filters)
}

func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.advance(ctx, id, model.AppointmentConfirmed, func(a *model.Appointment, now time.Time) {
		a.ConfirmedDate = &now
	})
}

func (s *Service) CheckIn(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.advance(ctx, id, model.AppointmentCheckedIn, func(a *model.Appointment, now time.Time) {
		a.CheckInTime = &now
	})
}

func (s *Service) StartConsultation(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.advance(ctx, id, model.AppointmentInProgress, func(a *model.Appointment, now time.Time) {
		a.ConsultationStartTime = &now
	})
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.advance(ctx, id, model.AppointmentCompleted, func(a *model.Appointment, now time.Time) {
		a.ConsultationEndTime = &now
	})
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.advance(ctx, id, model.AppointmentCancelled, nil)
}

func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.advance(ctx, id, model.AppointmentNoShow, nil)
}

// Reschedule marks the old booking rescheduled and creates a fresh one
// in the new slot.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newDate time.Time, newTime string) (*model.Appointment, error) {
	old, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}

	taken, err := s.appointments.Exists(ctx, old.DoctorID, newDate, newTime, &old.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, apperrors.Conflict("doctor already has an appointment at this time")
	}

	if err := old.Transition(model.AppointmentRescheduled); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	if err := s.appointments.Update(ctx, old); err != nil {
		return nil, apperrors.FromPg(err)
	}

	replacement := &model.Appointment{
		AppointmentNumber: newAppointmentNumber(),
		PatientID:         old.PatientID,
		DoctorID:          old.DoctorID,
		DepartmentID:      old.DepartmentID,
		AppointmentDate:   newDate,
		AppointmentTime:   newTime,
		EstimatedDuration: old.EstimatedDuration,
		AppointmentType:   old.AppointmentType,
		Status:            model.AppointmentScheduled,
		ChiefComplaint:    old.ChiefComplaint,
		UrgencyLevel:      old.UrgencyLevel,
		BookedBy:          old.BookedBy,
		BookingDate:       time.Now(),
		Notes:             old.Notes,
		ConsultationFee:   old.ConsultationFee,
		PaymentStatus:     old.PaymentStatus,
	}
	if err := s.appointments.Create(ctx, replacement); err != nil {
		return nil, apperrors.FromPg(err)
	}

	s.emit(ctx, "appointment.rescheduled", replacement)
	return replacement, nil
}

func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, amount float64) (*model.Appointment, error) {
	if amount <= 0 {
		return nil, apperrors.BadRequest("payment amount must be positive")
	}
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}

	appointment.PaidAmount += amount
	switch {
	case appointment.PaidAmount >= appointment.ConsultationFee:
		appointment.PaymentStatus = model.PaymentPaid
	case appointment.PaidAmount > 0:
		appointment.PaymentStatus = model.PaymentPartial
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return appointment, nil
}

func (s *Service) advance(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, stamp func(*model.Appointment, time.Time)) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if err := appointment.Transition(to); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	if stamp != nil {
		stamp(appointment, time.Now())
	}
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return appointment, nil
}

func newAppointmentNumber() string {
	return fmt.Sprintf("APT-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.outbox == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = s.outbox.Create(ctx, &model.OutboxEvent{EventType: eventType, Payload: data})
}
