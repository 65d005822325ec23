package pharmacy

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afyahms/hms-api/internal/model"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type fakeMedicineRepo struct {
	medicines map[uuid.UUID]*model.Medicine
	batches   map[uuid.UUID][]*model.MedicineBatch
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{
		medicines: make(map[uuid.UUID]*model.Medicine),
		batches:   make(map[uuid.UUID][]*model.MedicineBatch),
	}
}

func (r *fakeMedicineRepo) Create(ctx context.Context, m *model.Medicine) error {
	m.ID = uuid.New()
	r.medicines[m.ID] = m
	return nil
}

func (r *fakeMedicineRepo) Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	m, ok := r.medicines[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	return m, nil
}

func (r *fakeMedicineRepo) Update(ctx context.Context, m *model.Medicine) error {
	r.medicines[m.ID] = m
	return nil
}

func (r *fakeMedicineRepo) List(ctx context.Context, search string) ([]*model.Medicine, error) {
	return nil, nil
}

func (r *fakeMedicineRepo) ListNeedingReorder(ctx context.Context) ([]*model.Medicine, error) {
	var out []*model.Medicine
	for _, m := range r.medicines {
		if m.CurrentStock <= m.ReorderLevel {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMedicineRepo) CreateBatch(ctx context.Context, b *model.MedicineBatch) error {
	b.ID = uuid.New()
	r.batches[b.MedicineID] = append(r.batches[b.MedicineID], b)
	if m, ok := r.medicines[b.MedicineID]; ok {
		m.CurrentStock += b.QuantityReceived
	}
	return nil
}

func (r *fakeMedicineRepo) ListBatches(ctx context.Context, medicineID uuid.UUID) ([]*model.MedicineBatch, error) {
	return r.batches[medicineID], nil
}

func (r *fakeMedicineRepo) ListDispensableBatches(ctx context.Context, medicineID uuid.UUID, today time.Time) ([]*model.MedicineBatch, error) {
	var out []*model.MedicineBatch
	for _, b := range r.batches[medicineID] {
		if b.QuantityRemaining > 0 && b.ExpiryDate.After(today) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (r *fakeMedicineRepo) ListExpiringBatches(ctx context.Context, within time.Duration) ([]*model.MedicineBatch, error) {
	cutoff := time.Now().Add(within)
	var out []*model.MedicineBatch
	for _, batches := range r.batches {
		for _, b := range batches {
			if b.QuantityRemaining > 0 && b.ExpiryDate.Before(cutoff) {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

type fakePrescriptionRepo struct {
	prescriptions map[uuid.UUID]*model.Prescription
	medicines     *fakeMedicineRepo
}

func (r *fakePrescriptionRepo) Create(ctx context.Context, p *model.Prescription) error {
	p.ID = uuid.New()
	for _, item := range p.Items {
		item.ID = uuid.New()
		item.PrescriptionID = p.ID
	}
	r.prescriptions[p.ID] = p
	return nil
}

func (r *fakePrescriptionRepo) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	return p, nil
}

func (r *fakePrescriptionRepo) Update(ctx context.Context, p *model.Prescription) error {
	r.prescriptions[p.ID] = p
	return nil
}

func (r *fakePrescriptionRepo) List(ctx context.Context, patientID *uuid.UUID, status *model.PrescriptionStatus) ([]*model.Prescription, error) {
	return nil, nil
}

func (r *fakePrescriptionRepo) GetItem(ctx context.Context, id uuid.UUID) (*model.PrescriptionItem, error) {
	for _, p := range r.prescriptions {
		for _, item := range p.Items {
			if item.ID == id {
				return item, nil
			}
		}
	}
	return nil, apperrors.NotFound("record not found")
}

func (r *fakePrescriptionRepo) Dispense(ctx context.Context, p *model.Prescription, items []*model.PrescriptionItem, draws []*model.BatchDraw) error {
	for _, draw := range draws {
		for _, batches := range r.medicines.batches {
			for _, b := range batches {
				if b.ID == draw.BatchID {
					b.QuantityRemaining -= draw.Quantity
					if m, ok := r.medicines.medicines[b.MedicineID]; ok {
						m.CurrentStock -= draw.Quantity
					}
				}
			}
		}
	}
	r.prescriptions[p.ID] = p
	return nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (r *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }

func (r *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	return p, nil
}

func (r *fakePatientRepo) GetByPatientNumber(ctx context.Context, number string) (*model.Patient, error) {
	return nil, apperrors.NotFound("record not found")
}

func (r *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (r *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }

func (r *fakePatientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

func (r *fakePatientRepo) Count(ctx context.Context) (int, error) { return 0, nil }

func (r *fakePatientRepo) NextPatientNumber(ctx context.Context) (string, error) {
	return "P-000001", nil
}

type pharmacyEnv struct {
	svc       *Service
	medicines *fakeMedicineRepo
	patient   *model.Patient
	medicine  *model.Medicine
}

func newPharmacyEnv(t *testing.T) *pharmacyEnv {
	t.Helper()

	patient := &model.Patient{FirstName: "Amina", LastName: "Otieno"}
	patient.ID = uuid.New()

	medicines := newFakeMedicineRepo()
	prescriptions := &fakePrescriptionRepo{
		prescriptions: make(map[uuid.UUID]*model.Prescription),
		medicines:     medicines,
	}
	svc := NewService(
		medicines,
		prescriptions,
		&fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}},
		nil,
	)

	medicine, err := svc.CreateMedicine(context.Background(), &model.CreateMedicineRequest{
		Name:         "Amoxicillin",
		MedicineCode: "AMX-500",
		DosageForm:   model.DosageCapsule,
		SellingPrice: 25,
		ReorderLevel: 20,
	})
	require.NoError(t, err)

	return &pharmacyEnv{svc: svc, medicines: medicines, patient: patient, medicine: medicine}
}

func (env *pharmacyEnv) receiveBatch(t *testing.T, number string, qty int, expiresIn time.Duration) *model.MedicineBatch {
	t.Helper()
	batch, err := env.svc.ReceiveBatch(context.Background(), &model.ReceiveBatchRequest{
		MedicineID:       env.medicine.ID,
		BatchNumber:      number,
		ManufactureDate:  time.Now().AddDate(0, -6, 0),
		ExpiryDate:       time.Now().Add(expiresIn),
		QuantityReceived: qty,
		CostPerUnit:      10,
		Supplier:         "KEMSA",
	}, uuid.New())
	require.NoError(t, err)
	return batch
}

func (env *pharmacyEnv) prescribe(t *testing.T, quantity int) *model.Prescription {
	t.Helper()
	p, err := env.svc.Prescribe(context.Background(), &model.PrescribeRequest{
		PatientID:       env.patient.ID,
		DoctorID:        uuid.New(),
		MedicalRecordID: uuid.New(),
		Diagnosis:       "bacterial infection",
		Items: []model.PrescribeItem{
			{MedicineID: env.medicine.ID, QuantityPrescribed: quantity, Dosage: "500mg", Frequency: "TDS", Duration: "5 days"},
		},
	})
	require.NoError(t, err)
	return p
}

func TestPrescribeUsesSellingPrice(t *testing.T) {
	env := newPharmacyEnv(t)

	p := env.prescribe(t, 15)
	require.Len(t, p.Items, 1)
	assert.Equal(t, model.PrescriptionPending, p.Status)
	assert.Equal(t, 25.0, p.Items[0].UnitPrice)
}

func TestDispenseDrawsEarliestExpiryFirst(t *testing.T) {
	env := newPharmacyEnv(t)

	late := env.receiveBatch(t, "B-LATE", 100, 365*24*time.Hour)
	early := env.receiveBatch(t, "B-EARLY", 10, 30*24*time.Hour)

	p := env.prescribe(t, 15)

	p, err := env.svc.Dispense(context.Background(), p.ID, &model.DispenseRequest{
		DispensedBy: uuid.New(),
		Items: []model.DispenseItem{
			{PrescriptionItemID: p.Items[0].ID, Quantity: 15},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.PrescriptionFullyDispensed, p.Status)
	assert.Equal(t, 0, early.QuantityRemaining, "earliest-expiring batch drains first")
	assert.Equal(t, 95, late.QuantityRemaining)
	assert.Equal(t, 15.0*25.0, p.TotalCost)
	require.NotNil(t, p.DispensedBy)
}

func TestDispenseSkipsExpiredBatches(t *testing.T) {
	env := newPharmacyEnv(t)

	expired := env.receiveBatch(t, "B-EXPIRED", 100, -24*time.Hour)
	fresh := env.receiveBatch(t, "B-FRESH", 50, 90*24*time.Hour)

	p := env.prescribe(t, 10)

	p, err := env.svc.Dispense(context.Background(), p.ID, &model.DispenseRequest{
		DispensedBy: uuid.New(),
		Items: []model.DispenseItem{
			{PrescriptionItemID: p.Items[0].ID, Quantity: 10},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 100, expired.QuantityRemaining, "expired stock is never dispensed")
	assert.Equal(t, 40, fresh.QuantityRemaining)
}

func TestDispenseInsufficientStock(t *testing.T) {
	env := newPharmacyEnv(t)

	env.receiveBatch(t, "B-SMALL", 5, 90*24*time.Hour)
	p := env.prescribe(t, 10)

	_, err := env.svc.Dispense(context.Background(), p.ID, &model.DispenseRequest{
		DispensedBy: uuid.New(),
		Items: []model.DispenseItem{
			{PrescriptionItemID: p.Items[0].ID, Quantity: 10},
		},
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestPartialDispenseThenComplete(t *testing.T) {
	env := newPharmacyEnv(t)

	env.receiveBatch(t, "B-1", 100, 90*24*time.Hour)
	p := env.prescribe(t, 10)

	p, err := env.svc.Dispense(context.Background(), p.ID, &model.DispenseRequest{
		DispensedBy: uuid.New(),
		Items: []model.DispenseItem{
			{PrescriptionItemID: p.Items[0].ID, Quantity: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PrescriptionPartiallyDispensed, p.Status)

	// Dispensing more than the outstanding quantity is rejected.
	_, err = env.svc.Dispense(context.Background(), p.ID, &model.DispenseRequest{
		DispensedBy: uuid.New(),
		Items: []model.DispenseItem{
			{PrescriptionItemID: p.Items[0].ID, Quantity: 7},
		},
	})
	require.Error(t, err)

	p, err = env.svc.Dispense(context.Background(), p.ID, &model.DispenseRequest{
		DispensedBy: uuid.New(),
		Items: []model.DispenseItem{
			{PrescriptionItemID: p.Items[0].ID, Quantity: 6},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PrescriptionFullyDispensed, p.Status)
}

func TestCancelDispensedPrescription(t *testing.T) {
	env := newPharmacyEnv(t)

	env.receiveBatch(t, "B-1", 100, 90*24*time.Hour)
	p := env.prescribe(t, 10)

	p, err := env.svc.Dispense(context.Background(), p.ID, &model.DispenseRequest{
		DispensedBy: uuid.New(),
		Items: []model.DispenseItem{
			{PrescriptionItemID: p.Items[0].ID, Quantity: 10},
		},
	})
	require.NoError(t, err)

	_, err = env.svc.CancelPrescription(context.Background(), p.ID)
	require.Error(t, err)
}
