package model

import (
	"time"

	"github.com/google/uuid"
)

type BillStatus string

const (
	BillDraft         BillStatus = "draft"
	BillPending       BillStatus = "pending"
	BillPartiallyPaid BillStatus = "partially_paid"
	BillFullyPaid     BillStatus = "fully_paid"
	BillOverdue       BillStatus = "overdue"
	BillCancelled     BillStatus = "cancelled"
	BillWaived        BillStatus = "waived"
)

type BillType string

const (
	BillConsultation  BillType = "consultation"
	BillAdmission     BillType = "admission"
	BillPharmacy      BillType = "pharmacy"
	BillLaboratory    BillType = "laboratory"
	BillRadiology     BillType = "radiology"
	BillProcedure     BillType = "procedure"
	BillComprehensive BillType = "comprehensive"
)

type Bill struct {
	Base
	BillNumber    string     `json:"bill_number" db:"bill_number"`
	PatientID     uuid.UUID  `json:"patient_id" db:"patient_id"`
	AdmissionID   *uuid.UUID `json:"admission_id,omitempty" db:"admission_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty" db:"appointment_id"`

	BillDate time.Time  `json:"bill_date" db:"bill_date"`
	BillType BillType   `json:"bill_type" db:"bill_type"`
	DueDate  time.Time  `json:"due_date" db:"due_date"`
	Status   BillStatus `json:"status" db:"status"`

	Subtotal           float64 `json:"subtotal" db:"subtotal"`
	DiscountAmount     float64 `json:"discount_amount" db:"discount_amount"`
	DiscountPercentage float64 `json:"discount_percentage" db:"discount_percentage"`
	TaxAmount          float64 `json:"tax_amount" db:"tax_amount"`
	TotalAmount        float64 `json:"total_amount" db:"total_amount"`
	PaidAmount         float64 `json:"paid_amount" db:"paid_amount"`

	InsuranceClaimNumber    string  `json:"insurance_claim_number,omitempty" db:"insurance_claim_number"`
	InsuranceApprovedAmount float64 `json:"insurance_approved_amount" db:"insurance_approved_amount"`
	InsurancePaidAmount     float64 `json:"insurance_paid_amount" db:"insurance_paid_amount"`

	GeneratedBy uuid.UUID  `json:"generated_by" db:"generated_by"`
	ApprovedBy  *uuid.UUID `json:"approved_by,omitempty" db:"approved_by"`
	Notes       string     `json:"notes,omitempty" db:"notes"`

	Items []*BillItem `json:"items,omitempty" db:"-"`
}

// BalanceAmount is total minus paid, computed on read and never stored.
func (b *Bill) BalanceAmount() float64 {
	return b.TotalAmount - b.PaidAmount
}

// IsOverdue is true iff the bill is still collectible and past its due date.
func (b *Bill) IsOverdue(today time.Time) bool {
	if b.Status != BillPending && b.Status != BillPartiallyPaid {
		return false
	}
	y1, m1, d1 := today.Date()
	y2, m2, d2 := b.DueDate.Date()
	t := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	due := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return t.After(due)
}

type BillItemCategory string

const (
	ItemConsultation BillItemCategory = "consultation"
	ItemBedCharges   BillItemCategory = "bed_charges"
	ItemNursingCare  BillItemCategory = "nursing_care"
	ItemMedicine     BillItemCategory = "medicine"
	ItemLaboratory   BillItemCategory = "laboratory"
	ItemRadiology    BillItemCategory = "radiology"
	ItemProcedure    BillItemCategory = "procedure"
	ItemSurgery      BillItemCategory = "surgery"
	ItemTherapy      BillItemCategory = "therapy"
	ItemSupplies     BillItemCategory = "supplies"
	ItemAmbulance    BillItemCategory = "ambulance"
	ItemOther        BillItemCategory = "other"
)

type BillItem struct {
	Base
	BillID      uuid.UUID        `json:"bill_id" db:"bill_id"`
	ItemCode    string           `json:"item_code,omitempty" db:"item_code"`
	Description string           `json:"description" db:"description"`
	Category    BillItemCategory `json:"category" db:"category"`
	ServiceDate time.Time        `json:"service_date" db:"service_date"`
	Quantity    float64          `json:"quantity" db:"quantity"`
	UnitPrice   float64          `json:"unit_price" db:"unit_price"`
}

// Amount is quantity times unit price, computed on read.
func (i *BillItem) Amount() float64 {
	return i.Quantity * i.UnitPrice
}

type CreateBillRequest struct {
	PatientID     uuid.UUID       `json:"patient_id" binding:"required"`
	AdmissionID   *uuid.UUID      `json:"admission_id"`
	AppointmentID *uuid.UUID      `json:"appointment_id"`
	BillType      BillType        `json:"bill_type" binding:"required"`
	DueDate       time.Time       `json:"due_date" binding:"required"`
	GeneratedBy   uuid.UUID       `json:"generated_by" binding:"required"`
	DiscountPct   float64         `json:"discount_percentage"`
	TaxAmount     float64         `json:"tax_amount"`
	Notes         string          `json:"notes"`
	Items         []BillItemInput `json:"items" binding:"required,min=1,dive"`
}

type BillItemInput struct {
	ItemCode    string           `json:"item_code"`
	Description string           `json:"description" binding:"required"`
	Category    BillItemCategory `json:"category" binding:"required"`
	ServiceDate time.Time        `json:"service_date" binding:"required"`
	Quantity    float64          `json:"quantity" binding:"required"`
	UnitPrice   float64          `json:"unit_price" binding:"required"`
}

type RecordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type BillFilters struct {
	PatientID uuid.UUID
	Status    BillStatus
	Statuses  []BillStatus
	Limit     int
}
