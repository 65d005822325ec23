package model

import (
	"time"

	"github.com/google/uuid"
)

type AdmissionStatus string

const (
	AdmissionAdmitted    AdmissionStatus = "admitted"
	AdmissionDischarged  AdmissionStatus = "discharged"
	AdmissionTransferred AdmissionStatus = "transferred"
	AdmissionAbsconded   AdmissionStatus = "absconded"
	AdmissionDied        AdmissionStatus = "died"
	AdmissionReferred    AdmissionStatus = "referred"
)

type AdmissionType string

const (
	AdmissionEmergency   AdmissionType = "emergency"
	AdmissionElective    AdmissionType = "elective"
	AdmissionMaternity   AdmissionType = "maternity"
	AdmissionSurgical    AdmissionType = "surgical"
	AdmissionMedical     AdmissionType = "medical"
	AdmissionPediatric   AdmissionType = "pediatric"
	AdmissionPsychiatric AdmissionType = "psychiatric"
	AdmissionTransferIn  AdmissionType = "transfer_in"
)

type DischargeType string

const (
	DischargeNormal        DischargeType = "normal"
	DischargeAgainstAdvice DischargeType = "against_advice"
	DischargeReferred      DischargeType = "referred"
	DischargeTransferred   DischargeType = "transferred"
	DischargeAbsconded     DischargeType = "absconded"
	DischargeDied          DischargeType = "died"
)

type Admission struct {
	Base
	AdmissionNumber string          `json:"admission_number" db:"admission_number"`
	PatientID       uuid.UUID       `json:"patient_id" db:"patient_id"`
	AdmissionDate   time.Time       `json:"admission_date" db:"admission_date"`
	AdmissionType   AdmissionType   `json:"admission_type" db:"admission_type"`
	PrimaryDoctorID *uuid.UUID      `json:"primary_doctor_id,omitempty" db:"primary_doctor_id"`
	AssignedNurseID *uuid.UUID      `json:"assigned_nurse_id,omitempty" db:"assigned_nurse_id"`
	AssignedBedID   *uuid.UUID      `json:"assigned_bed_id,omitempty" db:"assigned_bed_id"`
	ChiefComplaint  string          `json:"chief_complaint" db:"chief_complaint"`
	ProvisionalDx   string          `json:"provisional_diagnosis" db:"provisional_diagnosis"`
	FinalDx         string          `json:"final_diagnosis,omitempty" db:"final_diagnosis"`
	Comorbidities   string          `json:"comorbidities,omitempty" db:"comorbidities"`
	ReferredFrom    string          `json:"referred_from,omitempty" db:"referred_from"`
	ReferringDoctor string          `json:"referring_doctor,omitempty" db:"referring_doctor"`
	AdmissionNotes  string          `json:"admission_notes,omitempty" db:"admission_notes"`
	Status          AdmissionStatus `json:"status" db:"status"`

	DischargeDate         *time.Time    `json:"discharge_date,omitempty" db:"discharge_date"`
	DischargeType         DischargeType `json:"discharge_type,omitempty" db:"discharge_type"`
	DischargeSummary      string        `json:"discharge_summary,omitempty" db:"discharge_summary"`
	DischargeInstructions string        `json:"discharge_instructions,omitempty" db:"discharge_instructions"`
	FollowUpInstructions  string        `json:"follow_up_instructions,omitempty" db:"follow_up_instructions"`
	ReferredTo            string        `json:"referred_to,omitempty" db:"referred_to"`

	TotalBillAmount        float64 `json:"total_bill_amount" db:"total_bill_amount"`
	InsuranceCoveredAmount float64 `json:"insurance_covered_amount" db:"insurance_covered_amount"`
	PatientPayableAmount   float64 `json:"patient_payable_amount" db:"patient_payable_amount"`

	// Consulting doctors are a many-to-many side table, loaded on demand.
	ConsultingDoctorIDs []uuid.UUID `json:"consulting_doctor_ids,omitempty" db:"-"`
}

// LengthOfStay is whole days from admission to discharge, or to now for
// patients still on the ward.
func (a *Admission) LengthOfStay(now time.Time) int {
	end := now
	if a.DischargeDate != nil {
		end = *a.DischargeDate
	}
	return int(end.Sub(a.AdmissionDate).Hours() / 24)
}

// BedTransfer is an append-only log of bed reassignments per admission.
type BedTransfer struct {
	Base
	AdmissionID  uuid.UUID  `json:"admission_id" db:"admission_id"`
	FromBedID    *uuid.UUID `json:"from_bed_id,omitempty" db:"from_bed_id"`
	ToBedID      uuid.UUID  `json:"to_bed_id" db:"to_bed_id"`
	TransferDate time.Time  `json:"transfer_date" db:"transfer_date"`
	Reason       string     `json:"reason_for_transfer" db:"reason_for_transfer"`
	AuthorizedBy uuid.UUID  `json:"authorized_by" db:"authorized_by"`
}

type AdmitPatientRequest struct {
	PatientID           uuid.UUID     `json:"patient_id" binding:"required"`
	AdmissionType       AdmissionType `json:"admission_type" binding:"required"`
	PrimaryDoctorID     *uuid.UUID    `json:"primary_doctor_id"`
	AssignedNurseID     *uuid.UUID    `json:"assigned_nurse_id"`
	ConsultingDoctorIDs []uuid.UUID   `json:"consulting_doctor_ids"`
	BedID               *uuid.UUID    `json:"bed_id"`
	ChiefComplaint      string        `json:"chief_complaint" binding:"required"`
	ProvisionalDx       string        `json:"provisional_diagnosis" binding:"required"`
	Comorbidities       string        `json:"comorbidities"`
	ReferredFrom        string        `json:"referred_from"`
	ReferringDoctor     string        `json:"referring_doctor"`
	AdmissionNotes      string        `json:"admission_notes"`
}

type DischargeRequest struct {
	DischargeType         DischargeType `json:"discharge_type" binding:"required"`
	DischargeSummary      string        `json:"discharge_summary"`
	DischargeInstructions string        `json:"discharge_instructions"`
	FollowUpInstructions  string        `json:"follow_up_instructions"`
	FinalDiagnosis        string        `json:"final_diagnosis"`
	ReferredTo            string        `json:"referred_to"`
}

type TransferBedRequest struct {
	ToBedID      uuid.UUID `json:"to_bed_id" binding:"required"`
	Reason       string    `json:"reason_for_transfer" binding:"required"`
	AuthorizedBy uuid.UUID `json:"authorized_by" binding:"required"`
}

type AdmissionFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    AdmissionStatus
	Limit     int
}

// MonthlyCount is a calendar-month trend bucket.
type MonthlyCount struct {
	Month string `json:"month" db:"month"`
	Count int    `json:"count" db:"count"`
}
