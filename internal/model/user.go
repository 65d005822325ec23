package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin                 Role = "admin"
	RoleMedicalSuper          Role = "medical_superintendent"
	RoleClinicalOfficer       Role = "clinical_officer"
	RoleMedicalOfficer        Role = "medical_officer"
	RoleConsultant            Role = "consultant"
	RoleRegistrar             Role = "registrar"
	RoleIntern                Role = "intern"
	RoleNurseManager          Role = "nurse_manager"
	RoleSeniorNurse           Role = "senior_nurse"
	RoleRegisteredNurse       Role = "registered_nurse"
	RoleEnrolledNurse         Role = "enrolled_nurse"
	RoleMidwife               Role = "midwife"
	RoleLabManager            Role = "lab_manager"
	RoleLabTechnologist       Role = "lab_technologist"
	RoleLabTechnician         Role = "lab_technician"
	RolePharmacist            Role = "pharmacist"
	RolePharmTechnologist     Role = "pharmaceutical_technologist"
	RoleRadiographer          Role = "radiographer"
	RolePhysiotherapist       Role = "physiotherapist"
	RoleNutritionist          Role = "nutritionist"
	RoleSocialWorker          Role = "social_worker"
	RoleRecordsOfficer        Role = "records_officer"
	RoleCashier               Role = "cashier"
	RoleReceptionist          Role = "receptionist"
	RoleSecurity              Role = "security"
	RoleCleaner               Role = "cleaner"
	RoleDriver                Role = "driver"
)

// DoctorRoles are the roles allowed to act as primary or consulting doctor.
var DoctorRoles = []Role{RoleMedicalOfficer, RoleConsultant, RoleRegistrar, RoleClinicalOfficer}

// NurseRoles are the roles allowed to be assigned to admissions.
var NurseRoles = []Role{RoleRegisteredNurse, RoleEnrolledNurse, RoleSeniorNurse}

func (r Role) IsDoctor() bool {
	for _, d := range DoctorRoles {
		if r == d {
			return true
		}
	}
	return false
}

func (r Role) IsNurse() bool {
	for _, n := range NurseRoles {
		if r == n {
			return true
		}
	}
	return false
}

type EmploymentStatus string

const (
	EmploymentPermanent EmploymentStatus = "permanent"
	EmploymentContract  EmploymentStatus = "contract"
	EmploymentLocum     EmploymentStatus = "locum"
	EmploymentIntern    EmploymentStatus = "intern"
	EmploymentVolunteer EmploymentStatus = "volunteer"
	EmploymentRetired   EmploymentStatus = "retired"
	EmploymentSuspended EmploymentStatus = "suspended"
)

// User is a staff account. Patients are modeled separately.
type User struct {
	Base
	Username         string           `json:"username" db:"username"`
	PasswordHash     string           `json:"-" db:"password_hash"`
	FirstName        string           `json:"first_name" db:"first_name"`
	LastName         string           `json:"last_name" db:"last_name"`
	Email            string           `json:"email" db:"email"`
	EmployeeNumber   *string          `json:"employee_number,omitempty" db:"employee_number"`
	Role             Role             `json:"role" db:"role"`
	SecondaryRole    Role             `json:"secondary_role,omitempty" db:"secondary_role"`
	NationalID       *string          `json:"national_id,omitempty" db:"national_id"`
	PhonePrimary     string           `json:"phone_primary" db:"phone_primary"`
	PhoneSecondary   string           `json:"phone_secondary,omitempty" db:"phone_secondary"`
	DateOfBirth      time.Time        `json:"date_of_birth" db:"date_of_birth"`
	Gender           string           `json:"gender" db:"gender"`
	CountyOfOrigin   string           `json:"county_of_origin" db:"county_of_origin"`
	SubCounty        string           `json:"sub_county" db:"sub_county"`
	Ward             string           `json:"ward" db:"ward"`
	Address          string           `json:"address" db:"address"`
	NextOfKinName    string           `json:"next_of_kin_name" db:"next_of_kin_name"`
	NextOfKinRel     string           `json:"next_of_kin_relationship" db:"next_of_kin_relationship"`
	NextOfKinPhone   string           `json:"next_of_kin_phone" db:"next_of_kin_phone"`
	EmploymentStatus EmploymentStatus `json:"employment_status" db:"employment_status"`
	EmploymentDate   time.Time        `json:"employment_date" db:"employment_date"`
	TerminationDate  *time.Time       `json:"termination_date,omitempty" db:"termination_date"`
	KMPDCLicense     string           `json:"kmpdc_license,omitempty" db:"kmpdc_license"`
	NCKLicense       string           `json:"nck_license,omitempty" db:"nck_license"`
	OtherLicenses    string           `json:"other_licenses,omitempty" db:"other_licenses"`
	LoginAttempts    int              `json:"-" db:"login_attempts"`
	LastLoginAttempt time.Time        `json:"-" db:"last_login_attempt"`
	LastLoginAt      *time.Time       `json:"last_login_at,omitempty" db:"last_login_at"`
	Locked           bool             `json:"-" db:"locked"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type CreateUserRequest struct {
	Username         string    `json:"username" binding:"required"`
	Password         string    `json:"password" binding:"required,min=8"`
	FirstName        string    `json:"first_name" binding:"required"`
	LastName         string    `json:"last_name" binding:"required"`
	Email            string    `json:"email" binding:"omitempty,email"`
	EmployeeNumber   *string   `json:"employee_number"`
	Role             Role      `json:"role" binding:"required"`
	SecondaryRole    Role      `json:"secondary_role"`
	NationalID       *string   `json:"national_id"`
	PhonePrimary     string    `json:"phone_primary" binding:"required"`
	PhoneSecondary   string    `json:"phone_secondary"`
	DateOfBirth      time.Time `json:"date_of_birth" binding:"required"`
	Gender           string    `json:"gender" binding:"required,oneof=M F"`
	CountyOfOrigin   string    `json:"county_of_origin"`
	SubCounty        string    `json:"sub_county"`
	Ward             string    `json:"ward"`
	Address          string    `json:"address"`
	NextOfKinName    string    `json:"next_of_kin_name"`
	NextOfKinRel     string    `json:"next_of_kin_relationship"`
	NextOfKinPhone   string    `json:"next_of_kin_phone"`
	EmploymentStatus string    `json:"employment_status"`
	EmploymentDate   time.Time `json:"employment_date" binding:"required"`
	KMPDCLicense     string    `json:"kmpdc_license"`
	NCKLicense       string    `json:"nck_license"`
}

type UpdateUserRequest struct {
	FirstName        *string    `json:"first_name"`
	LastName         *string    `json:"last_name"`
	Email            *string    `json:"email" binding:"omitempty,email"`
	Role             *Role      `json:"role"`
	SecondaryRole    *Role      `json:"secondary_role"`
	PhonePrimary     *string    `json:"phone_primary"`
	PhoneSecondary   *string    `json:"phone_secondary"`
	Address          *string    `json:"address"`
	EmploymentStatus *string    `json:"employment_status"`
	TerminationDate  *time.Time `json:"termination_date"`
	KMPDCLicense     *string    `json:"kmpdc_license"`
	NCKLicense       *string    `json:"nck_license"`
}

type UserFilters struct {
	Role        Role
	ExcludeRole Role
	Status      EmploymentStatus
	Search      string
}

// RoleCount is a staff-by-role distribution bucket.
type RoleCount struct {
	Role  Role `json:"role" db:"role"`
	Count int  `json:"count" db:"count"`
}

type StaffDepartmentAssignment struct {
	Base
	StaffID        uuid.UUID  `json:"staff_id" db:"staff_id"`
	DepartmentID   uuid.UUID  `json:"department_id" db:"department_id"`
	IsPrimary      bool       `json:"is_primary" db:"is_primary"`
	AssignmentDate time.Time  `json:"assignment_date" db:"assignment_date"`
	EndDate        *time.Time `json:"end_date,omitempty" db:"end_date"`
	PositionTitle  string     `json:"position_title,omitempty" db:"position_title"`
}
