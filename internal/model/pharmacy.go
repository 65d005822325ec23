package model

import (
	"time"

	"github.com/google/uuid"
)

type DosageForm string

const (
	DosageTablet      DosageForm = "tablet"
	DosageCapsule     DosageForm = "capsule"
	DosageSyrup       DosageForm = "syrup"
	DosageInjection   DosageForm = "injection"
	DosageDrops       DosageForm = "drops"
	DosageCream       DosageForm = "cream"
	DosageOintment    DosageForm = "ointment"
	DosageInhaler     DosageForm = "inhaler"
	DosageSuppository DosageForm = "suppository"
	DosagePowder      DosageForm = "powder"
)

type StorageCondition string

const (
	StorageRoomTemp     StorageCondition = "room_temp"
	StorageCoolDry      StorageCondition = "cool_dry"
	StorageRefrigerated StorageCondition = "refrigerated"
	StorageFrozen       StorageCondition = "frozen"
	StorageControlled   StorageCondition = "controlled_substance"
)

type Medicine struct {
	Base
	Name         string `json:"name" db:"name"`
	GenericName  string `json:"generic_name,omitempty" db:"generic_name"`
	BrandName    string `json:"brand_name,omitempty" db:"brand_name"`
	MedicineCode string `json:"medicine_code" db:"medicine_code"`

	DosageForm          DosageForm `json:"dosage_form" db:"dosage_form"`
	Strength            string     `json:"strength" db:"strength"`
	TherapeuticClass    string     `json:"therapeutic_class" db:"therapeutic_class"`
	PharmacologicalClass string    `json:"pharmacological_class,omitempty" db:"pharmacological_class"`

	Manufacturer       string `json:"manufacturer" db:"manufacturer"`
	Distributor        string `json:"distributor,omitempty" db:"distributor"`
	RegistrationNumber string `json:"registration_number,omitempty" db:"registration_number"`

	StorageCondition      StorageCondition `json:"storage_condition" db:"storage_condition"`
	StorageLocation       string           `json:"storage_location,omitempty" db:"storage_location"`
	RequiresPrescription  bool             `json:"requires_prescription" db:"requires_prescription"`
	IsControlledSubstance bool             `json:"is_controlled_substance" db:"is_controlled_substance"`

	UnitCost         float64 `json:"unit_cost" db:"unit_cost"`
	SellingPrice     float64 `json:"selling_price" db:"selling_price"`
	MarkupPercentage float64 `json:"markup_percentage" db:"markup_percentage"`

	CurrentStock      int `json:"current_stock" db:"current_stock"`
	MinimumStockLevel int `json:"minimum_stock_level" db:"minimum_stock_level"`
	MaximumStockLevel int `json:"maximum_stock_level" db:"maximum_stock_level"`
	ReorderLevel      int `json:"reorder_level" db:"reorder_level"`
}

func (m *Medicine) IsLowStock() bool {
	return m.CurrentStock <= m.MinimumStockLevel
}

func (m *Medicine) NeedsReorder() bool {
	return m.CurrentStock <= m.ReorderLevel
}

// MedicineBatch: (medicine_id, batch_number) is unique.
type MedicineBatch struct {
	Base
	MedicineID        uuid.UUID `json:"medicine_id" db:"medicine_id"`
	BatchNumber       string    `json:"batch_number" db:"batch_number"`
	ManufactureDate   time.Time `json:"manufacture_date" db:"manufacture_date"`
	ExpiryDate        time.Time `json:"expiry_date" db:"expiry_date"`
	QuantityReceived  int       `json:"quantity_received" db:"quantity_received"`
	QuantityRemaining int       `json:"quantity_remaining" db:"quantity_remaining"`
	CostPerUnit       float64   `json:"cost_per_unit" db:"cost_per_unit"`
	Supplier          string    `json:"supplier" db:"supplier"`
	ReceivedDate      time.Time `json:"received_date" db:"received_date"`
}

// IsExpired is true strictly after the expiry date has passed.
func (b *MedicineBatch) IsExpired(today time.Time) bool {
	y1, m1, d1 := today.Date()
	y2, m2, d2 := b.ExpiryDate.Date()
	t := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	e := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return t.After(e)
}

// DaysToExpiry is negative once the batch has expired.
func (b *MedicineBatch) DaysToExpiry(today time.Time) int {
	y1, m1, d1 := today.Date()
	y2, m2, d2 := b.ExpiryDate.Date()
	t := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	e := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}

type PrescriptionStatus string

const (
	PrescriptionPending            PrescriptionStatus = "pending"
	PrescriptionPartiallyDispensed PrescriptionStatus = "partially_dispensed"
	PrescriptionFullyDispensed     PrescriptionStatus = "fully_dispensed"
	PrescriptionCancelled          PrescriptionStatus = "cancelled"
	PrescriptionExpired            PrescriptionStatus = "expired"
)

type Prescription struct {
	Base
	PrescriptionNumber string             `json:"prescription_number" db:"prescription_number"`
	PatientID          uuid.UUID          `json:"patient_id" db:"patient_id"`
	DoctorID           uuid.UUID          `json:"doctor_id" db:"doctor_id"`
	MedicalRecordID    uuid.UUID          `json:"medical_record_id" db:"medical_record_id"`
	PrescribedDate     time.Time          `json:"prescribed_date" db:"prescribed_date"`
	Status             PrescriptionStatus `json:"status" db:"status"`

	Diagnosis           string   `json:"diagnosis" db:"diagnosis"`
	PatientWeight       *float64 `json:"patient_weight,omitempty" db:"patient_weight"`
	AllergiesNoted      string   `json:"allergies_noted,omitempty" db:"allergies_noted"`
	SpecialInstructions string   `json:"special_instructions,omitempty" db:"special_instructions"`

	DispensedBy     *uuid.UUID `json:"dispensed_by,omitempty" db:"dispensed_by"`
	DispensingDate  *time.Time `json:"dispensing_date,omitempty" db:"dispensing_date"`
	DispensingNotes string     `json:"dispensing_notes,omitempty" db:"dispensing_notes"`

	TotalCost        float64 `json:"total_cost" db:"total_cost"`
	InsuranceCovered float64 `json:"insurance_covered" db:"insurance_covered"`
	PatientPays      float64 `json:"patient_pays" db:"patient_pays"`

	Items []*PrescriptionItem `json:"items,omitempty" db:"-"`
}

type PrescriptionItem struct {
	Base
	PrescriptionID uuid.UUID `json:"prescription_id" db:"prescription_id"`
	MedicineID     uuid.UUID `json:"medicine_id" db:"medicine_id"`

	QuantityPrescribed    int    `json:"quantity_prescribed" db:"quantity_prescribed"`
	QuantityDispensed     int    `json:"quantity_dispensed" db:"quantity_dispensed"`
	Dosage                string `json:"dosage" db:"dosage"`
	Frequency             string `json:"frequency" db:"frequency"`
	Duration              string `json:"duration" db:"duration"`
	RouteOfAdministration string `json:"route_of_administration" db:"route_of_administration"`
	SpecialInstructions   string `json:"special_instructions,omitempty" db:"special_instructions"`

	BatchDispensedID *uuid.UUID `json:"batch_dispensed_id,omitempty" db:"batch_dispensed_id"`
	UnitPrice        float64    `json:"unit_price" db:"unit_price"`
}

// TotalPrice is dispensed quantity times unit price, computed on read
// rather than stored.
func (i *PrescriptionItem) TotalPrice() float64 {
	return float64(i.QuantityDispensed) * i.UnitPrice
}

func (i *PrescriptionItem) IsFullyDispensed() bool {
	return i.QuantityDispensed >= i.QuantityPrescribed
}

type CreateMedicineRequest struct {
	Name              string           `json:"name" binding:"required"`
	GenericName       string           `json:"generic_name"`
	BrandName         string           `json:"brand_name"`
	MedicineCode      string           `json:"medicine_code" binding:"required"`
	DosageForm        DosageForm       `json:"dosage_form" binding:"required"`
	Strength          string           `json:"strength" binding:"required"`
	TherapeuticClass  string           `json:"therapeutic_class" binding:"required"`
	Manufacturer      string           `json:"manufacturer" binding:"required"`
	StorageCondition  StorageCondition `json:"storage_condition" binding:"required"`
	UnitCost          float64          `json:"unit_cost" binding:"required"`
	SellingPrice      float64          `json:"selling_price" binding:"required"`
	MinimumStockLevel int              `json:"minimum_stock_level"`
	MaximumStockLevel int              `json:"maximum_stock_level"`
	ReorderLevel      int              `json:"reorder_level"`
}

type ReceiveBatchRequest struct {
	MedicineID       uuid.UUID `json:"medicine_id" binding:"required"`
	BatchNumber      string    `json:"batch_number" binding:"required"`
	ManufactureDate  time.Time `json:"manufacture_date" binding:"required"`
	ExpiryDate       time.Time `json:"expiry_date" binding:"required"`
	QuantityReceived int       `json:"quantity_received" binding:"required,min=1"`
	CostPerUnit      float64   `json:"cost_per_unit" binding:"required"`
	Supplier         string    `json:"supplier" binding:"required"`
}

type PrescribeRequest struct {
	PatientID           uuid.UUID                 `json:"patient_id" binding:"required"`
	DoctorID            uuid.UUID                 `json:"doctor_id" binding:"required"`
	MedicalRecordID     uuid.UUID                 `json:"medical_record_id" binding:"required"`
	Diagnosis           string                    `json:"diagnosis" binding:"required"`
	PatientWeight       *float64                  `json:"patient_weight"`
	AllergiesNoted      string                    `json:"allergies_noted"`
	SpecialInstructions string                    `json:"special_instructions"`
	Items               []PrescribeItem           `json:"items" binding:"required,min=1,dive"`
}

type PrescribeItem struct {
	MedicineID            uuid.UUID `json:"medicine_id" binding:"required"`
	QuantityPrescribed    int       `json:"quantity_prescribed" binding:"required,min=1"`
	Dosage                string    `json:"dosage" binding:"required"`
	Frequency             string    `json:"frequency" binding:"required"`
	Duration              string    `json:"duration" binding:"required"`
	RouteOfAdministration string    `json:"route_of_administration"`
	SpecialInstructions   string    `json:"special_instructions"`
}

type DispenseRequest struct {
	DispensedBy     uuid.UUID      `json:"dispensed_by" binding:"required"`
	DispensingNotes string         `json:"dispensing_notes"`
	Items           []DispenseItem `json:"items" binding:"required,min=1,dive"`
}

type DispenseItem struct {
	PrescriptionItemID uuid.UUID `json:"prescription_item_id" binding:"required"`
	Quantity           int       `json:"quantity" binding:"required,min=1"`
}

// BatchDraw records how many units a dispense takes from a specific
// batch, so stock is always drawn earliest-expiry-first.
type BatchDraw struct {
	BatchID  uuid.UUID
	Quantity int
}
