package model

import (
	"time"

	"github.com/google/uuid"
)

type WardType string

const (
	WardGeneralMale    WardType = "general_male"
	WardGeneralFemale  WardType = "general_female"
	WardPediatric      WardType = "pediatric"
	WardMaternity      WardType = "maternity"
	WardSurgicalMale   WardType = "surgical_male"
	WardSurgicalFemale WardType = "surgical_female"
	WardOrthopedic     WardType = "orthopedic"
	WardMedical        WardType = "medical"
	WardICU            WardType = "icu"
	WardHDU            WardType = "hdu"
	WardNICU           WardType = "nicu"
	WardBurns          WardType = "burns"
	WardIsolation      WardType = "isolation"
	WardPsychiatric    WardType = "psychiatric"
	WardPrivate        WardType = "private"
	WardEmergency      WardType = "emergency"
)

type Ward struct {
	Base
	Name             string     `json:"name" db:"name"`
	Code             string     `json:"code" db:"code"`
	WardType         WardType   `json:"ward_type" db:"ward_type"`
	DepartmentID     uuid.UUID  `json:"department_id" db:"department_id"`
	LocationBuilding string     `json:"location_building" db:"location_building"`
	LocationFloor    string     `json:"location_floor" db:"location_floor"`
	BedCapacity      int        `json:"bed_capacity" db:"bed_capacity"`
	CurrentOccupancy int        `json:"current_occupancy" db:"current_occupancy"`
	NurseInCharge    *uuid.UUID `json:"nurse_in_charge,omitempty" db:"nurse_in_charge"`
	DailyRate        float64    `json:"daily_rate" db:"daily_rate"`
	Amenities        string     `json:"amenities,omitempty" db:"amenities"`
	VisitingHours    string     `json:"visiting_hours" db:"visiting_hours"`
}

// AvailableBeds is capacity minus occupancy, computed on read.
func (w *Ward) AvailableBeds() int {
	return w.BedCapacity - w.CurrentOccupancy
}

// OccupancyRate is occupied/capacity as a percentage; zero for zero capacity.
func (w *Ward) OccupancyRate() float64 {
	if w.BedCapacity == 0 {
		return 0
	}
	return float64(w.CurrentOccupancy) / float64(w.BedCapacity) * 100
}

type BedStatus string

const (
	BedAvailable   BedStatus = "available"
	BedOccupied    BedStatus = "occupied"
	BedMaintenance BedStatus = "maintenance"
	BedReserved    BedStatus = "reserved"
	BedIsolation   BedStatus = "isolation"
)

type BedType string

const (
	BedTypeStandard  BedType = "standard"
	BedTypeElectric  BedType = "electric"
	BedTypeICU       BedType = "icu"
	BedTypeIsolation BedType = "isolation"
	BedTypePediatric BedType = "pediatric"
)

// Bed belongs to exactly one ward; (ward_id, bed_number) is unique.
type Bed struct {
	Base
	BedNumber         string     `json:"bed_number" db:"bed_number"`
	WardID            uuid.UUID  `json:"ward_id" db:"ward_id"`
	BedType           BedType    `json:"bed_type" db:"bed_type"`
	Status            BedStatus  `json:"status" db:"status"`
	LastSanitized     *time.Time `json:"last_sanitized,omitempty" db:"last_sanitized"`
	EquipmentAttached string     `json:"equipment_attached,omitempty" db:"equipment_attached"`
}

type CreateWardRequest struct {
	Name             string     `json:"name" binding:"required"`
	Code             string     `json:"code" binding:"required"`
	WardType         WardType   `json:"ward_type" binding:"required"`
	DepartmentID     uuid.UUID  `json:"department_id" binding:"required"`
	LocationBuilding string     `json:"location_building"`
	LocationFloor    string     `json:"location_floor"`
	BedCapacity      int        `json:"bed_capacity" binding:"required,min=0"`
	NurseInCharge    *uuid.UUID `json:"nurse_in_charge"`
	DailyRate        float64    `json:"daily_rate"`
	Amenities        string     `json:"amenities"`
	VisitingHours    string     `json:"visiting_hours"`
}

type CreateBedRequest struct {
	BedNumber         string    `json:"bed_number" binding:"required"`
	WardID            uuid.UUID `json:"ward_id" binding:"required"`
	BedType           BedType   `json:"bed_type" binding:"required,oneof=standard electric icu isolation pediatric"`
	EquipmentAttached string    `json:"equipment_attached"`
}

// WardOccupancy is a reporting row for occupancy charts.
type WardOccupancy struct {
	Name             string `json:"name" db:"name"`
	BedCapacity      int    `json:"bed_capacity" db:"bed_capacity"`
	CurrentOccupancy int    `json:"current_occupancy" db:"current_occupancy"`
}
