package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWardOccupancy(t *testing.T) {
	w := &Ward{BedCapacity: 20, CurrentOccupancy: 15}
	assert.Equal(t, 5, w.AvailableBeds())
	assert.InDelta(t, 75.0, w.OccupancyRate(), 0.001)

	empty := &Ward{BedCapacity: 0, CurrentOccupancy: 0}
	assert.Equal(t, 0.0, empty.OccupancyRate())

	full := &Ward{BedCapacity: 8, CurrentOccupancy: 8}
	assert.Equal(t, 0, full.AvailableBeds())
	assert.InDelta(t, 100.0, full.OccupancyRate(), 0.001)
}

func TestPatientAge(t *testing.T) {
	dob := date(2000, time.June, 15)
	p := &Patient{DateOfBirth: &dob}

	assert.Equal(t, 23, p.Age(date(2024, time.June, 14)))
	assert.Equal(t, 24, p.Age(date(2024, time.June, 15)))
	assert.Equal(t, 24, p.Age(date(2024, time.December, 31)))
}

func TestPatientAgeEstimated(t *testing.T) {
	est := 45
	p := &Patient{EstimatedAge: &est}
	assert.Equal(t, 45, p.Age(time.Now()))

	unknown := &Patient{}
	assert.Equal(t, 0, unknown.Age(time.Now()))
}

func TestPatientFullName(t *testing.T) {
	p := &Patient{FirstName: "Wanjiru", LastName: "Kamau"}
	assert.Equal(t, "Wanjiru Kamau", p.FullName())

	p.MiddleName = "Njeri"
	assert.Equal(t, "Wanjiru Njeri Kamau", p.FullName())
}

func TestAdmissionLengthOfStay(t *testing.T) {
	admitted := date(2025, time.January, 10)
	a := &Admission{AdmissionDate: admitted}

	now := date(2025, time.January, 17)
	assert.Equal(t, 7, a.LengthOfStay(now))

	discharge := date(2025, time.January, 14)
	a.DischargeDate = &discharge
	assert.Equal(t, 4, a.LengthOfStay(now))
}

func TestBillBalanceAndOverdue(t *testing.T) {
	b := &Bill{
		Status:      BillPartiallyPaid,
		TotalAmount: 12500,
		PaidAmount:  4500,
		DueDate:     date(2025, time.March, 1),
	}
	assert.InDelta(t, 8000.0, b.BalanceAmount(), 0.001)

	assert.False(t, b.IsOverdue(date(2025, time.March, 1)))
	assert.True(t, b.IsOverdue(date(2025, time.March, 2)))

	b.Status = BillFullyPaid
	assert.False(t, b.IsOverdue(date(2025, time.March, 2)))

	b.Status = BillPending
	assert.True(t, b.IsOverdue(date(2025, time.March, 2)))
}

func TestBatchExpiry(t *testing.T) {
	b := &MedicineBatch{ExpiryDate: date(2025, time.June, 30)}

	assert.False(t, b.IsExpired(date(2025, time.June, 30)))
	assert.True(t, b.IsExpired(date(2025, time.July, 1)))
	assert.Equal(t, 10, b.DaysToExpiry(date(2025, time.June, 20)))
	assert.Equal(t, -1, b.DaysToExpiry(date(2025, time.July, 1)))
}

func TestMedicineStockFlags(t *testing.T) {
	m := &Medicine{CurrentStock: 10, MinimumStockLevel: 10, ReorderLevel: 20}
	assert.True(t, m.IsLowStock())
	assert.True(t, m.NeedsReorder())

	m.CurrentStock = 15
	assert.False(t, m.IsLowStock())
	assert.True(t, m.NeedsReorder())

	m.CurrentStock = 21
	assert.False(t, m.NeedsReorder())
}

func TestPrescriptionItemTotalPrice(t *testing.T) {
	i := &PrescriptionItem{QuantityPrescribed: 30, QuantityDispensed: 20, UnitPrice: 12.5}
	assert.InDelta(t, 250.0, i.TotalPrice(), 0.001)
	assert.False(t, i.IsFullyDispensed())

	i.QuantityDispensed = 30
	assert.True(t, i.IsFullyDispensed())
}

func TestVitalSignsDerived(t *testing.T) {
	weight, height := 72.0, 175.0
	sys, dia := 120, 80
	v := &VitalSigns{Weight: &weight, Height: &height, SystolicBP: &sys, DiastolicBP: &dia}

	assert.InDelta(t, 23.5, v.BMI(), 0.001)
	assert.Equal(t, "120/80", v.BloodPressure())

	missing := &VitalSigns{Weight: &weight}
	assert.Equal(t, 0.0, missing.BMI())
	assert.Equal(t, "", missing.BloodPressure())
}

func TestMorgueDerived(t *testing.T) {
	m := &MorgueDepartment{Capacity: 12, CurrentOccupancy: 9}
	assert.Equal(t, 3, m.AvailableSlots())

	adm := &MorgueAdmission{AdmissionToMorgueDate: date(2025, time.April, 1)}
	assert.Equal(t, 6, adm.DaysInMorgue(date(2025, time.April, 7)))

	release := date(2025, time.April, 5)
	adm.ReleaseDate = &release
	assert.Equal(t, 4, adm.DaysInMorgue(date(2025, time.April, 7)))
}

func TestBillItemAmount(t *testing.T) {
	i := &BillItem{Quantity: 3, UnitPrice: 1500}
	assert.InDelta(t, 4500.0, i.Amount(), 0.001)
}
