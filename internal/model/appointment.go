package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentScheduled   AppointmentStatus = "scheduled"
	AppointmentConfirmed   AppointmentStatus = "confirmed"
	AppointmentCheckedIn   AppointmentStatus = "checked_in"
	AppointmentInProgress  AppointmentStatus = "in_progress"
	AppointmentCompleted   AppointmentStatus = "completed"
	AppointmentCancelled   AppointmentStatus = "cancelled"
	AppointmentNoShow      AppointmentStatus = "no_show"
	AppointmentRescheduled AppointmentStatus = "rescheduled"
)

// ActiveAppointmentStatuses count toward "today's appointments".
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentScheduled, AppointmentConfirmed, AppointmentCheckedIn, AppointmentInProgress,
}

type AppointmentType string

const (
	AppointmentConsultation   AppointmentType = "consultation"
	AppointmentFollowUp       AppointmentType = "follow_up"
	AppointmentSpecialist     AppointmentType = "specialist"
	AppointmentProcedure      AppointmentType = "procedure"
	AppointmentVaccination    AppointmentType = "vaccination"
	AppointmentAntenatal      AppointmentType = "antenatal"
	AppointmentFamilyPlanning AppointmentType = "family_planning"
	AppointmentCounseling     AppointmentType = "counseling"
	AppointmentEmergencyVisit AppointmentType = "emergency"
)

type UrgencyLevel string

const (
	UrgencyRoutine   UrgencyLevel = "routine"
	UrgencyUrgent    UrgencyLevel = "urgent"
	UrgencyEmergency UrgencyLevel = "emergency"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
	PaymentWaived  PaymentStatus = "waived"
)

// Appointment: (doctor_id, appointment_date, appointment_time) is unique,
// which rejects double-booking at the data layer.
type Appointment struct {
	Base
	AppointmentNumber string            `json:"appointment_number" db:"appointment_number"`
	PatientID         uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID          uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	DepartmentID      uuid.UUID         `json:"department_id" db:"department_id"`
	AppointmentDate   time.Time         `json:"appointment_date" db:"appointment_date"`
	AppointmentTime   string            `json:"appointment_time" db:"appointment_time"`
	EstimatedDuration int               `json:"estimated_duration" db:"estimated_duration"`
	AppointmentType   AppointmentType   `json:"appointment_type" db:"appointment_type"`
	Status            AppointmentStatus `json:"status" db:"status"`
	ChiefComplaint    string            `json:"chief_complaint" db:"chief_complaint"`
	UrgencyLevel      UrgencyLevel      `json:"urgency_level" db:"urgency_level"`

	BookedBy              uuid.UUID  `json:"booked_by" db:"booked_by"`
	BookingDate           time.Time  `json:"booking_date" db:"booking_date"`
	ConfirmedDate         *time.Time `json:"confirmed_date,omitempty" db:"confirmed_date"`
	CheckInTime           *time.Time `json:"check_in_time,omitempty" db:"check_in_time"`
	ConsultationStartTime *time.Time `json:"consultation_start_time,omitempty" db:"consultation_start_time"`
	ConsultationEndTime   *time.Time `json:"consultation_end_time,omitempty" db:"consultation_end_time"`

	Notes                  string     `json:"notes,omitempty" db:"notes"`
	FollowUpRequired       bool       `json:"follow_up_required" db:"follow_up_required"`
	FollowUpDate           *time.Time `json:"follow_up_date,omitempty" db:"follow_up_date"`
	ReferralRequired       bool       `json:"referral_required" db:"referral_required"`
	ReferredToDepartmentID *uuid.UUID `json:"referred_to_department_id,omitempty" db:"referred_to_department_id"`

	ConsultationFee float64       `json:"consultation_fee" db:"consultation_fee"`
	PaidAmount      float64       `json:"paid_amount" db:"paid_amount"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
}

type ScheduleAppointmentRequest struct {
	PatientID         uuid.UUID       `json:"patient_id" binding:"required"`
	DoctorID          uuid.UUID       `json:"doctor_id" binding:"required"`
	DepartmentID      uuid.UUID       `json:"department_id" binding:"required"`
	AppointmentDate   time.Time       `json:"appointment_date" binding:"required"`
	AppointmentTime   string          `json:"appointment_time" binding:"required,timeslot"`
	EstimatedDuration int             `json:"estimated_duration"`
	AppointmentType   AppointmentType `json:"appointment_type" binding:"required"`
	ChiefComplaint    string          `json:"chief_complaint" binding:"required"`
	UrgencyLevel      UrgencyLevel    `json:"urgency_level"`
	ConsultationFee   float64         `json:"consultation_fee"`
	Notes             string          `json:"notes" binding:"max=1000"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	Date      *time.Time
}
