package model

import (
	"time"

	"github.com/google/uuid"
)

type MaritalStatus string

const (
	MaritalSingle    MaritalStatus = "single"
	MaritalMarried   MaritalStatus = "married"
	MaritalDivorced  MaritalStatus = "divorced"
	MaritalWidowed   MaritalStatus = "widowed"
	MaritalSeparated MaritalStatus = "separated"
)

type PatientCategory string

const (
	PatientGeneral   PatientCategory = "general"
	PatientNHIF      PatientCategory = "nhif"
	PatientPrivate   PatientCategory = "private"
	PatientCorporate PatientCategory = "corporate"
	PatientCharity   PatientCategory = "charity"
	PatientStaff     PatientCategory = "staff"
	PatientEmergency PatientCategory = "emergency"
)

// Patient holds the demographic and medical profile, independent of User.
type Patient struct {
	Base
	PatientNumber string        `json:"patient_number" db:"patient_number"`
	FirstName     string        `json:"first_name" db:"first_name"`
	MiddleName    string        `json:"middle_name,omitempty" db:"middle_name"`
	LastName      string        `json:"last_name" db:"last_name"`
	DateOfBirth   *time.Time    `json:"date_of_birth,omitempty" db:"date_of_birth"`
	EstimatedAge  *int          `json:"estimated_age,omitempty" db:"estimated_age"`
	Gender        string        `json:"gender" db:"gender"`
	MaritalStatus MaritalStatus `json:"marital_status,omitempty" db:"marital_status"`

	NationalID             string `json:"national_id,omitempty" db:"national_id"`
	PassportNumber         string `json:"passport_number,omitempty" db:"passport_number"`
	BirthCertificateNumber string `json:"birth_certificate_number,omitempty" db:"birth_certificate_number"`

	PhonePrimary   string `json:"phone_primary,omitempty" db:"phone_primary"`
	PhoneSecondary string `json:"phone_secondary,omitempty" db:"phone_secondary"`
	Email          string `json:"email,omitempty" db:"email"`

	CountyID        *uuid.UUID `json:"county_id,omitempty" db:"county_id"`
	SubCountyID     *uuid.UUID `json:"sub_county_id,omitempty" db:"sub_county_id"`
	WardLocation    string     `json:"ward_location,omitempty" db:"ward_location"`
	Village         string     `json:"village,omitempty" db:"village"`
	PhysicalAddress string     `json:"physical_address,omitempty" db:"physical_address"`
	PostalAddress   string     `json:"postal_address,omitempty" db:"postal_address"`

	NextOfKinName     string `json:"next_of_kin_name" db:"next_of_kin_name"`
	NextOfKinRel      string `json:"next_of_kin_relationship" db:"next_of_kin_relationship"`
	NextOfKinPhone    string `json:"next_of_kin_phone" db:"next_of_kin_phone"`
	NextOfKinIDNumber string `json:"next_of_kin_id_number,omitempty" db:"next_of_kin_id_number"`
	NextOfKinAddress  string `json:"next_of_kin_address,omitempty" db:"next_of_kin_address"`

	BloodGroup        string   `json:"blood_group" db:"blood_group"`
	Weight            *float64 `json:"weight,omitempty" db:"weight"`
	Height            *float64 `json:"height,omitempty" db:"height"`
	ChronicConditions string   `json:"chronic_conditions,omitempty" db:"chronic_conditions"`
	Allergies         string   `json:"allergies,omitempty" db:"allergies"`
	Medications       string   `json:"medications,omitempty" db:"medications"`
	Disabilities      string   `json:"disabilities,omitempty" db:"disabilities"`

	PatientCategory  PatientCategory `json:"patient_category" db:"patient_category"`
	RegistrationDate time.Time       `json:"registration_date" db:"registration_date"`
	LastVisitDate    *time.Time      `json:"last_visit_date,omitempty" db:"last_visit_date"`
	IsDeceased       bool            `json:"is_deceased" db:"is_deceased"`
	DateOfDeath      *time.Time      `json:"date_of_death,omitempty" db:"date_of_death"`

	NHIFNumber          string     `json:"nhif_number,omitempty" db:"nhif_number"`
	InsuranceProvider   string     `json:"insurance_provider,omitempty" db:"insurance_provider"`
	InsuranceNumber     string     `json:"insurance_number,omitempty" db:"insurance_number"`
	InsuranceExpiryDate *time.Time `json:"insurance_expiry_date,omitempty" db:"insurance_expiry_date"`
}

func (p *Patient) FullName() string {
	if p.MiddleName != "" {
		return p.FirstName + " " + p.MiddleName + " " + p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// Age returns whole years at the given reference date, adjusted when the
// birthday has not yet been reached. Falls back to the recorded estimate
// when the date of birth is unknown.
func (p *Patient) Age(at time.Time) int {
	if p.DateOfBirth == nil {
		if p.EstimatedAge != nil {
			return *p.EstimatedAge
		}
		return 0
	}
	dob := *p.DateOfBirth
	years := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		years--
	}
	return years
}

type CreatePatientRequest struct {
	FirstName      string          `json:"first_name" binding:"required"`
	MiddleName     string          `json:"middle_name"`
	LastName       string          `json:"last_name" binding:"required"`
	DateOfBirth    *time.Time      `json:"date_of_birth"`
	EstimatedAge   *int            `json:"estimated_age"`
	Gender         string          `json:"gender" binding:"required,oneof=M F I"`
	MaritalStatus  MaritalStatus   `json:"marital_status"`
	NationalID     string          `json:"national_id"`
	PhonePrimary   string          `json:"phone_primary" binding:"omitempty,kenyanphone"`
	Email          string          `json:"email" binding:"omitempty,email"`
	CountyID       *uuid.UUID      `json:"county_id"`
	SubCountyID    *uuid.UUID      `json:"sub_county_id"`
	NextOfKinName  string          `json:"next_of_kin_name" binding:"required"`
	NextOfKinRel   string          `json:"next_of_kin_relationship" binding:"required"`
	NextOfKinPhone string          `json:"next_of_kin_phone" binding:"required"`
	BloodGroup     string          `json:"blood_group"`
	Weight         *float64        `json:"weight"`
	Height         *float64        `json:"height"`
	Category       PatientCategory `json:"patient_category"`
	NHIFNumber     string          `json:"nhif_number"`
}

type UpdatePatientRequest struct {
	FirstName         *string        `json:"first_name"`
	MiddleName        *string        `json:"middle_name"`
	LastName          *string        `json:"last_name"`
	PhonePrimary      *string        `json:"phone_primary"`
	PhoneSecondary    *string        `json:"phone_secondary"`
	Email             *string        `json:"email" binding:"omitempty,email"`
	MaritalStatus     *MaritalStatus `json:"marital_status"`
	PhysicalAddress   *string        `json:"physical_address"`
	BloodGroup        *string        `json:"blood_group"`
	Weight            *float64       `json:"weight"`
	Height            *float64       `json:"height"`
	ChronicConditions *string        `json:"chronic_conditions"`
	Allergies         *string        `json:"allergies"`
	Medications       *string        `json:"medications"`
	NHIFNumber        *string        `json:"nhif_number"`
	InsuranceProvider *string        `json:"insurance_provider"`
	InsuranceNumber   *string        `json:"insurance_number"`
}

type PatientFilters struct {
	Search     string
	Category   PatientCategory
	IsDeceased *bool
	Limit      int
}
