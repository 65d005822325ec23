package model

import (
	"time"

	"github.com/google/uuid"
)

type MorgueDepartment struct {
	Base
	Name             string     `json:"name" db:"name"`
	LocationBuilding string     `json:"location_building" db:"location_building"`
	LocationFloor    string     `json:"location_floor" db:"location_floor"`
	Capacity         int        `json:"capacity" db:"capacity"`
	CurrentOccupancy int        `json:"current_occupancy" db:"current_occupancy"`
	ManagerID        *uuid.UUID `json:"manager_id,omitempty" db:"manager_id"`
	PhoneExtension   string     `json:"phone_extension,omitempty" db:"phone_extension"`
}

func (m *MorgueDepartment) AvailableSlots() int {
	return m.Capacity - m.CurrentOccupancy
}

type CompartmentStatus string

const (
	CompartmentAvailable   CompartmentStatus = "available"
	CompartmentOccupied    CompartmentStatus = "occupied"
	CompartmentMaintenance CompartmentStatus = "maintenance"
	CompartmentReserved    CompartmentStatus = "reserved"
)

// MorgueCompartment: (morgue_id, compartment_number) is unique.
type MorgueCompartment struct {
	Base
	CompartmentNumber string            `json:"compartment_number" db:"compartment_number"`
	MorgueID          uuid.UUID         `json:"morgue_id" db:"morgue_id"`
	Status            CompartmentStatus `json:"status" db:"status"`
	Temperature       *float64          `json:"temperature,omitempty" db:"temperature"`
	LastSanitized     *time.Time        `json:"last_sanitized,omitempty" db:"last_sanitized"`
}

type DeathType string

const (
	DeathNatural  DeathType = "natural"
	DeathAccident DeathType = "accident"
	DeathSuicide  DeathType = "suicide"
	DeathHomicide DeathType = "homicide"
	DeathUnknown  DeathType = "unknown"
	DeathMedical  DeathType = "medical"
)

type BodyStatus string

const (
	BodyStored      BodyStatus = "stored"
	BodyReleased    BodyStatus = "released"
	BodyBuried      BodyStatus = "buried"
	BodyTransferred BodyStatus = "transferred"
	BodyAutopsy     BodyStatus = "autopsy"
)

type MorgueAdmission struct {
	Base
	MorgueNumber        string     `json:"morgue_number" db:"morgue_number"`
	PatientID           uuid.UUID  `json:"patient_id" db:"patient_id"`
	HospitalAdmissionID *uuid.UUID `json:"hospital_admission_id,omitempty" db:"hospital_admission_id"`

	DateOfDeath       time.Time `json:"date_of_death" db:"date_of_death"`
	PlaceOfDeath      string    `json:"place_of_death" db:"place_of_death"`
	CauseOfDeath      string    `json:"cause_of_death" db:"cause_of_death"`
	DeathType         DeathType `json:"death_type" db:"death_type"`
	CertifyingDoctor  uuid.UUID `json:"certifying_doctor" db:"certifying_doctor"`

	AssignedCompartmentID *uuid.UUID `json:"assigned_compartment_id,omitempty" db:"assigned_compartment_id"`
	AdmissionToMorgueDate time.Time  `json:"admission_to_morgue_date" db:"admission_to_morgue_date"`

	BodyCondition       string `json:"body_condition,omitempty" db:"body_condition"`
	PersonalEffects     string `json:"personal_effects,omitempty" db:"personal_effects"`
	IdentificationMarks string `json:"identification_marks,omitempty" db:"identification_marks"`

	DeathCertificateIssued bool   `json:"death_certificate_issued" db:"death_certificate_issued"`
	DeathCertificateNumber string `json:"death_certificate_number,omitempty" db:"death_certificate_number"`
	PoliceCaseNumber       string `json:"police_case_number,omitempty" db:"police_case_number"`
	RequiresAutopsy        bool   `json:"requires_autopsy" db:"requires_autopsy"`
	AutopsyCompleted       bool   `json:"autopsy_completed" db:"autopsy_completed"`
	AutopsyReport          string `json:"autopsy_report,omitempty" db:"autopsy_report"`

	Status                 BodyStatus `json:"status" db:"status"`
	ReleaseDate            *time.Time `json:"release_date,omitempty" db:"release_date"`
	ReleasedToName         string     `json:"released_to_name,omitempty" db:"released_to_name"`
	ReleasedToRelationship string     `json:"released_to_relationship,omitempty" db:"released_to_relationship"`
	ReleasedToIDNumber     string     `json:"released_to_id_number,omitempty" db:"released_to_id_number"`
	ReleasedToPhone        string     `json:"released_to_phone,omitempty" db:"released_to_phone"`
	ReleaseAuthorization   string     `json:"release_authorization,omitempty" db:"release_authorization"`

	MorgueCharges      float64 `json:"morgue_charges" db:"morgue_charges"`
	AutopsyCharges     float64 `json:"autopsy_charges" db:"autopsy_charges"`
	CertificateCharges float64 `json:"certificate_charges" db:"certificate_charges"`
	TotalCharges       float64 `json:"total_charges" db:"total_charges"`
}

// DaysInMorgue is whole days from morgue admission to release or now.
func (m *MorgueAdmission) DaysInMorgue(now time.Time) int {
	end := now
	if m.ReleaseDate != nil {
		end = *m.ReleaseDate
	}
	return int(end.Sub(m.AdmissionToMorgueDate).Hours() / 24)
}

type MorgueAdmitRequest struct {
	PatientID           uuid.UUID  `json:"patient_id" binding:"required"`
	HospitalAdmissionID *uuid.UUID `json:"hospital_admission_id"`
	DateOfDeath         time.Time  `json:"date_of_death" binding:"required"`
	PlaceOfDeath        string     `json:"place_of_death" binding:"required"`
	CauseOfDeath        string     `json:"cause_of_death" binding:"required"`
	DeathType           DeathType  `json:"death_type" binding:"required"`
	CertifyingDoctor    uuid.UUID  `json:"certifying_doctor" binding:"required"`
	CompartmentID       *uuid.UUID `json:"compartment_id"`
	BodyCondition       string     `json:"body_condition"`
	PersonalEffects     string     `json:"personal_effects"`
	IdentificationMarks string     `json:"identification_marks"`
	RequiresAutopsy     bool       `json:"requires_autopsy"`
	PoliceCaseNumber    string     `json:"police_case_number"`
}

type MorgueReleaseRequest struct {
	ReleasedToName         string `json:"released_to_name" binding:"required"`
	ReleasedToRelationship string `json:"released_to_relationship" binding:"required"`
	ReleasedToIDNumber     string `json:"released_to_id_number" binding:"required"`
	ReleasedToPhone        string `json:"released_to_phone"`
	ReleaseAuthorization   string `json:"release_authorization"`
}
