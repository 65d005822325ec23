package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, appointment_number, patient_id, doctor_id, department_id,
			appointment_date, appointment_time, estimated_duration,
			appointment_type, status, chief_complaint, urgency_level,
			booked_by, booking_date, confirmed_date, check_in_time,
			consultation_start_time, consultation_end_time,
			notes, follow_up_required, follow_up_date, referral_required,
			referred_to_department_id, consultation_fee, paid_amount,
			payment_status,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :appointment_number, :patient_id, :doctor_id, :department_id,
			:appointment_date, :appointment_time, :estimated_duration,
			:appointment_type, :status, :chief_complaint, :urgency_level,
			:booked_by, :booking_date, :confirmed_date, :check_in_time,
			:consultation_start_time, :consultation_end_time,
			:notes, :follow_up_required, :follow_up_date, :referral_required,
			:referred_to_department_id, :consultation_fee, :paid_amount,
			:payment_status,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()
	appointment.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments SET
			appointment_date = :appointment_date,
			appointment_time = :appointment_time,
			estimated_duration = :estimated_duration,
			status = :status,
			confirmed_date = :confirmed_date,
			check_in_time = :check_in_time,
			consultation_start_time = :consultation_start_time,
			consultation_end_time = :consultation_end_time,
			notes = :notes,
			follow_up_required = :follow_up_required,
			follow_up_date = :follow_up_date,
			referral_required = :referral_required,
			referred_to_department_id = :referred_to_department_id,
			paid_amount = :paid_amount,
			payment_status = :payment_status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE appointments SET is_active = false, updated_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE is_active = true`
	args := []interface{}{}
	i := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", i)
			args = append(args, filters.PatientID)
			i++
		}
		if filters.DoctorID != uuid.Nil {
			query += fmt.Sprintf(" AND doctor_id = $%d", i)
			args = append(args, filters.DoctorID)
			i++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", i)
			args = append(args, filters.Status)
			i++
		}
		if filters.Date != nil {
			query += fmt.Sprintf(" AND appointment_date = $%d", i)
			args = append(args, *filters.Date)
		}
	}
	query += " ORDER BY appointment_date DESC, appointment_time"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Exists reports whether the doctor already holds a live booking for the
// exact date and slot. Cancelled, rescheduled and no-show bookings free
// the slot.
func (r *appointmentRepository) Exists(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND appointment_time = $3
		  AND status NOT IN ($4, $5, $6)
		  AND is_active = true
	`
	args := []interface{}{
		doctorID, date, slot,
		model.AppointmentCancelled, model.AppointmentRescheduled, model.AppointmentNoShow,
	}
	if excludeID != nil {
		query += " AND id != $7"
		args = append(args, *excludeID)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to check appointment slot: %w", err)
	}
	return count > 0, nil
}

func (r *appointmentRepository) ListForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND is_active = true
		ORDER BY appointment_time
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, date); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}
