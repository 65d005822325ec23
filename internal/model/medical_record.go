package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type RecordType string

const (
	RecordConsultation RecordType = "consultation"
	RecordAdmission    RecordType = "admission"
	RecordProcedure    RecordType = "procedure"
	RecordEmergency    RecordType = "emergency"
	RecordDischarge    RecordType = "discharge"
	RecordReferral     RecordType = "referral"
)

type MedicalRecord struct {
	Base
	RecordNumber  string     `json:"record_number" db:"record_number"`
	PatientID     uuid.UUID  `json:"patient_id" db:"patient_id"`
	DoctorID      uuid.UUID  `json:"doctor_id" db:"doctor_id"`
	DepartmentID  uuid.UUID  `json:"department_id" db:"department_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty" db:"appointment_id"`
	AdmissionID   *uuid.UUID `json:"admission_id,omitempty" db:"admission_id"`
	RecordDate    time.Time  `json:"record_date" db:"record_date"`
	RecordType    RecordType `json:"record_type" db:"record_type"`

	ChiefComplaint     string `json:"chief_complaint" db:"chief_complaint"`
	HistoryOfIllness   string `json:"history_of_presenting_illness" db:"history_of_presenting_illness"`
	PastMedicalHistory string `json:"past_medical_history,omitempty" db:"past_medical_history"`
	FamilyHistory      string `json:"family_history,omitempty" db:"family_history"`
	SocialHistory      string `json:"social_history,omitempty" db:"social_history"`
	DrugHistory        string `json:"drug_history,omitempty" db:"drug_history"`
	Allergies          string `json:"allergies,omitempty" db:"allergies"`

	GeneralAppearance   string  `json:"general_appearance,omitempty" db:"general_appearance"`
	VitalSignsSnapshot  JSONMap `json:"vital_signs,omitempty" db:"-"`
	SystemicExamination string  `json:"systemic_examination,omitempty" db:"systemic_examination"`

	InvestigationsOrdered string `json:"investigations_ordered,omitempty" db:"investigations_ordered"`
	InvestigationResults  string `json:"investigation_results,omitempty" db:"investigation_results"`

	ProvisionalDiagnosis  string `json:"provisional_diagnosis" db:"provisional_diagnosis"`
	DifferentialDiagnosis string `json:"differential_diagnosis,omitempty" db:"differential_diagnosis"`
	FinalDiagnosis        string `json:"final_diagnosis,omitempty" db:"final_diagnosis"`
	ICD10Codes            string `json:"icd_10_codes,omitempty" db:"icd_10_codes"`

	TreatmentPlan         string `json:"treatment_plan" db:"treatment_plan"`
	MedicationsPrescribed string `json:"medications_prescribed,omitempty" db:"medications_prescribed"`
	ProceduresPerformed   string `json:"procedures_performed,omitempty" db:"procedures_performed"`

	FollowUpInstructions string     `json:"follow_up_instructions,omitempty" db:"follow_up_instructions"`
	FollowUpDate         *time.Time `json:"follow_up_date,omitempty" db:"follow_up_date"`
	ReferralsMade        string     `json:"referrals_made,omitempty" db:"referrals_made"`
	PatientEducation     string     `json:"patient_education,omitempty" db:"patient_education"`

	IsConfidential     bool   `json:"is_confidential" db:"is_confidential"`
	AccessRestrictions string `json:"access_restrictions,omitempty" db:"access_restrictions"`
}

type CreateMedicalRecordRequest struct {
	PatientID            uuid.UUID  `json:"patient_id" binding:"required"`
	DoctorID             uuid.UUID  `json:"doctor_id" binding:"required"`
	DepartmentID         uuid.UUID  `json:"department_id" binding:"required"`
	AppointmentID        *uuid.UUID `json:"appointment_id"`
	AdmissionID          *uuid.UUID `json:"admission_id"`
	RecordType           RecordType `json:"record_type" binding:"required"`
	ChiefComplaint       string     `json:"chief_complaint" binding:"required"`
	HistoryOfIllness     string     `json:"history_of_presenting_illness" binding:"required"`
	ProvisionalDiagnosis string     `json:"provisional_diagnosis" binding:"required"`
	TreatmentPlan        string     `json:"treatment_plan" binding:"required"`
	VitalSigns           JSONMap    `json:"vital_signs"`
	IsConfidential       bool       `json:"is_confidential"`
}

// VitalSigns is a point-in-time observation set for a patient.
type VitalSigns struct {
	Base
	PatientID       uuid.UUID  `json:"patient_id" db:"patient_id"`
	MedicalRecordID *uuid.UUID `json:"medical_record_id,omitempty" db:"medical_record_id"`
	AdmissionID     *uuid.UUID `json:"admission_id,omitempty" db:"admission_id"`
	RecordedBy      uuid.UUID  `json:"recorded_by" db:"recorded_by"`
	RecordedDate    time.Time  `json:"recorded_date" db:"recorded_date"`

	Temperature      *float64 `json:"temperature,omitempty" db:"temperature"`
	SystolicBP       *int     `json:"systolic_bp,omitempty" db:"systolic_bp"`
	DiastolicBP      *int     `json:"diastolic_bp,omitempty" db:"diastolic_bp"`
	PulseRate        *int     `json:"pulse_rate,omitempty" db:"pulse_rate"`
	RespiratoryRate  *int     `json:"respiratory_rate,omitempty" db:"respiratory_rate"`
	OxygenSaturation *int     `json:"oxygen_saturation,omitempty" db:"oxygen_saturation"`
	Weight           *float64 `json:"weight,omitempty" db:"weight"`
	Height           *float64 `json:"height,omitempty" db:"height"`
	BloodSugar       *float64 `json:"blood_sugar,omitempty" db:"blood_sugar"`
	PainScore        *int     `json:"pain_score,omitempty" db:"pain_score"`
	Notes            string   `json:"notes,omitempty" db:"notes"`
}

// BloodPressure renders "systolic/diastolic" when both readings exist.
func (v *VitalSigns) BloodPressure() string {
	if v.SystolicBP == nil || v.DiastolicBP == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", *v.SystolicBP, *v.DiastolicBP)
}

// BMI is weight(kg) over height(m) squared, height stored in cm, rounded to
// one decimal place. Zero when either measurement is missing.
func (v *VitalSigns) BMI() float64 {
	if v.Weight == nil || v.Height == nil || *v.Height == 0 {
		return 0
	}
	heightM := *v.Height / 100
	return math.Round(*v.Weight/(heightM*heightM)*10) / 10
}

type RecordVitalsRequest struct {
	PatientID        uuid.UUID  `json:"patient_id" binding:"required"`
	MedicalRecordID  *uuid.UUID `json:"medical_record_id"`
	AdmissionID      *uuid.UUID `json:"admission_id"`
	RecordedBy       uuid.UUID  `json:"recorded_by" binding:"required"`
	Temperature      *float64   `json:"temperature"`
	SystolicBP       *int       `json:"systolic_bp"`
	DiastolicBP      *int       `json:"diastolic_bp"`
	PulseRate        *int       `json:"pulse_rate"`
	RespiratoryRate  *int       `json:"respiratory_rate"`
	OxygenSaturation *int       `json:"oxygen_saturation"`
	Weight           *float64   `json:"weight"`
	Height           *float64   `json:"height"`
	BloodSugar       *float64   `json:"blood_sugar"`
	PainScore        *int       `json:"pain_score" binding:"omitempty,min=0,max=10"`
	Notes            string     `json:"notes"`
}
