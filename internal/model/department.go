package model

import (
	"time"

	"github.com/google/uuid"
)

type DepartmentType string

const (
	DepartmentClinical       DepartmentType = "clinical"
	DepartmentDiagnostic     DepartmentType = "diagnostic"
	DepartmentSupport        DepartmentType = "support"
	DepartmentAdministrative DepartmentType = "administrative"
)

type Department struct {
	Base
	Name             string         `json:"name" db:"name"`
	Code             string         `json:"code" db:"code"`
	DepartmentType   DepartmentType `json:"department_type" db:"department_type"`
	Description      string         `json:"description" db:"description"`
	HeadOfDepartment *uuid.UUID     `json:"head_of_department,omitempty" db:"head_of_department"`
	DeputyHead       *uuid.UUID     `json:"deputy_head,omitempty" db:"deputy_head"`
	LocationBuilding string         `json:"location_building" db:"location_building"`
	LocationFloor    string         `json:"location_floor" db:"location_floor"`
	LocationWing     string         `json:"location_wing,omitempty" db:"location_wing"`
	PhoneExtension   string         `json:"phone_extension,omitempty" db:"phone_extension"`
	Email            string         `json:"email,omitempty" db:"email"`
	EstablishedDate  time.Time      `json:"established_date" db:"established_date"`
	BedCapacity      int            `json:"bed_capacity" db:"bed_capacity"`
	StaffCapacity    int            `json:"staff_capacity" db:"staff_capacity"`
}

type CreateDepartmentRequest struct {
	Name             string         `json:"name" binding:"required"`
	Code             string         `json:"code" binding:"required"`
	DepartmentType   DepartmentType `json:"department_type" binding:"required,oneof=clinical diagnostic support administrative"`
	Description      string         `json:"description"`
	HeadOfDepartment *uuid.UUID     `json:"head_of_department"`
	DeputyHead       *uuid.UUID     `json:"deputy_head"`
	LocationBuilding string         `json:"location_building"`
	LocationFloor    string         `json:"location_floor"`
	LocationWing     string         `json:"location_wing"`
	PhoneExtension   string         `json:"phone_extension"`
	Email            string         `json:"email" binding:"omitempty,email"`
	EstablishedDate  time.Time      `json:"established_date"`
	BedCapacity      int            `json:"bed_capacity"`
	StaffCapacity    int            `json:"staff_capacity"`
}

// DepartmentAdmissions is a top-N bucket of active admissions per department.
type DepartmentAdmissions struct {
	Name         string `json:"name" db:"name"`
	PatientCount int    `json:"patient_count" db:"patient_count"`
}
