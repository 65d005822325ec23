package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afyahms/hms-api/internal/model"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type fakeBillRepo struct {
	bills map[uuid.UUID]*model.Bill
	items map[uuid.UUID][]*model.BillItem
	seq   int
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{
		bills: make(map[uuid.UUID]*model.Bill),
		items: make(map[uuid.UUID][]*model.BillItem),
	}
}

func (r *fakeBillRepo) Create(ctx context.Context, bill *model.Bill) error {
	bill.ID = uuid.New()
	r.bills[bill.ID] = bill
	r.items[bill.ID] = bill.Items
	return nil
}

func (r *fakeBillRepo) Get(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	bill, ok := r.bills[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	bill.Items = r.items[id]
	return bill, nil
}

func (r *fakeBillRepo) Update(ctx context.Context, bill *model.Bill) error {
	r.bills[bill.ID] = bill
	return nil
}

func (r *fakeBillRepo) List(ctx context.Context, filters *model.BillFilters) ([]*model.Bill, error) {
	var out []*model.Bill
	for _, b := range r.bills {
		if filters != nil && filters.Status != "" && b.Status != filters.Status {
			continue
		}
		if filters != nil && len(filters.Statuses) > 0 {
			match := false
			for _, s := range filters.Statuses {
				if b.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBillRepo) ListItems(ctx context.Context, billID uuid.UUID) ([]*model.BillItem, error) {
	return r.items[billID], nil
}

func (r *fakeBillRepo) AddItem(ctx context.Context, item *model.BillItem) error {
	r.items[item.BillID] = append(r.items[item.BillID], item)
	return nil
}

func (r *fakeBillRepo) NextBillNumber(ctx context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("BILL-%06d", r.seq), nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newFakePatientRepo(patients ...*model.Patient) *fakePatientRepo {
	r := &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
	for _, p := range patients {
		r.patients[p.ID] = p
	}
	return r
}

func (r *fakePatientRepo) Create(ctx context.Context, patient *model.Patient) error {
	r.patients[patient.ID] = patient
	return nil
}

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

func (r *fakePatientRepo) Update(ctx context.Context, patient *model.Patient) error { return nil }
func (r *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }

func (r *fakePatientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

func (r *fakePatientRepo) Count(ctx context.Context) (int, error) { return len(r.patients), nil }

func (r *fakePatientRepo) NextPatientNumber(ctx context.Context) (string, error) {
	return "P-000001", nil
}

func testPatient() *model.Patient {
	p := &model.Patient{FirstName: "Amina", LastName: "Otieno", Gender: "female"}
	p.ID = uuid.New()
	p.IsActive = true
	return p
}

func createRequest(patientID uuid.UUID) *model.CreateBillRequest {
	return &model.CreateBillRequest{
		PatientID:   patientID,
		BillType:    model.BillConsultation,
		DueDate:     time.Now().AddDate(0, 0, 14),
		GeneratedBy: uuid.New(),
		Items: []model.BillItemInput{
			{Description: "Consultation fee", Category: model.ItemConsultation, ServiceDate: time.Now(), Quantity: 1, UnitPrice: 1500},
			{Description: "Amoxicillin 500mg", Category: model.ItemMedicine, ServiceDate: time.Now(), Quantity: 2, UnitPrice: 250},
		},
	}
}

func TestCreateBillTotals(t *testing.T) {
	patient := testPatient()
	svc := NewService(newFakeBillRepo(), newFakePatientRepo(patient))

	req := createRequest(patient.ID)
	req.DiscountPct = 10
	req.TaxAmount = 100

	bill, err := svc.CreateBill(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.BillPending, bill.Status)
	assert.Equal(t, 2000.0, bill.Subtotal)
	assert.Equal(t, 200.0, bill.DiscountAmount)
	assert.Equal(t, 1900.0, bill.TotalAmount)
	assert.Equal(t, 1900.0, bill.BalanceAmount())
	assert.Equal(t, "BILL-000001", bill.BillNumber)
}

func TestCreateBillRejectsBadDiscount(t *testing.T) {
	patient := testPatient()
	svc := NewService(newFakeBillRepo(), newFakePatientRepo(patient))

	req := createRequest(patient.ID)
	req.DiscountPct = 150

	_, err := svc.CreateBill(context.Background(), req)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestCreateBillUnknownPatient(t *testing.T) {
	svc := NewService(newFakeBillRepo(), newFakePatientRepo())

	_, err := svc.CreateBill(context.Background(), createRequest(uuid.New()))
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestRecordPaymentWalk(t *testing.T) {
	patient := testPatient()
	svc := NewService(newFakeBillRepo(), newFakePatientRepo(patient))

	bill, err := svc.CreateBill(context.Background(), createRequest(patient.ID))
	require.NoError(t, err)
	require.Equal(t, 2000.0, bill.TotalAmount)

	bill, err = svc.RecordPayment(context.Background(), bill.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, model.BillPartiallyPaid, bill.Status)
	assert.Equal(t, 1500.0, bill.BalanceAmount())

	bill, err = svc.RecordPayment(context.Background(), bill.ID, 1500)
	require.NoError(t, err)
	assert.Equal(t, model.BillFullyPaid, bill.Status)
	assert.Equal(t, 0.0, bill.BalanceAmount())
}

func TestRecordPaymentSettlesDespiteFloatResidue(t *testing.T) {
	patient := testPatient()
	svc := NewService(newFakeBillRepo(), newFakePatientRepo(patient))

	req := createRequest(patient.ID)
	req.Items = []model.BillItemInput{
		{Description: "Dressing change", Category: model.ItemProcedure, ServiceDate: time.Now(), Quantity: 1, UnitPrice: 0.3},
	}
	bill, err := svc.CreateBill(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 0.3, bill.TotalAmount)

	bill, err = svc.RecordPayment(context.Background(), bill.ID, 0.1)
	require.NoError(t, err)
	assert.Equal(t, model.BillPartiallyPaid, bill.Status)

	// 0.3 - 0.1 leaves binary residue; paying the printed balance of
	// 0.20 must still settle the bill with a zero stored balance.
	bill, err = svc.RecordPayment(context.Background(), bill.ID, 0.2)
	require.NoError(t, err)
	assert.Equal(t, model.BillFullyPaid, bill.Status)
	assert.Equal(t, 0.0, bill.BalanceAmount())
	assert.Equal(t, bill.TotalAmount, bill.PaidAmount)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	patient := testPatient()
	svc := NewService(newFakeBillRepo(), newFakePatientRepo(patient))

	bill, err := svc.CreateBill(context.Background(), createRequest(patient.ID))
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), bill.ID, 2500)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Contains(t, appErr.Message, "2000.00")

	_, err = svc.RecordPayment(context.Background(), bill.ID, 0)
	require.Error(t, err)
}

func TestAddItemOnlyWhileOpen(t *testing.T) {
	patient := testPatient()
	svc := NewService(newFakeBillRepo(), newFakePatientRepo(patient))

	bill, err := svc.CreateBill(context.Background(), createRequest(patient.ID))
	require.NoError(t, err)

	updated, err := svc.AddItem(context.Background(), bill.ID, &model.BillItemInput{
		Description: "X-ray",
		Category:    model.ItemRadiology,
		ServiceDate: time.Now(),
		Quantity:    1,
		UnitPrice:   800,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 3)

	_, err = svc.RecordPayment(context.Background(), bill.ID, bill.TotalAmount)
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), bill.ID, &model.BillItemInput{
		Description: "Late charge",
		Category:    model.ItemOther,
		ServiceDate: time.Now(),
		Quantity:    1,
		UnitPrice:   100,
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestWaiveAndCancel(t *testing.T) {
	patient := testPatient()
	svc := NewService(newFakeBillRepo(), newFakePatientRepo(patient))

	bill, err := svc.CreateBill(context.Background(), createRequest(patient.ID))
	require.NoError(t, err)

	approver := uuid.New()
	waived, err := svc.Waive(context.Background(), bill.ID, approver, "indigent patient")
	require.NoError(t, err)
	assert.Equal(t, model.BillWaived, waived.Status)
	require.NotNil(t, waived.ApprovedBy)
	assert.Equal(t, approver, *waived.ApprovedBy)
	assert.Equal(t, "indigent patient", waived.Notes)

	// Waived is terminal.
	_, err = svc.Cancel(context.Background(), bill.ID)
	require.Error(t, err)
}

func TestMarkOverdueSweep(t *testing.T) {
	patient := testPatient()
	repo := newFakeBillRepo()
	svc := NewService(repo, newFakePatientRepo(patient))

	due := createRequest(patient.ID)
	due.DueDate = time.Now().AddDate(0, 0, -3)
	overdueBill, err := svc.CreateBill(context.Background(), due)
	require.NoError(t, err)

	current, err := svc.CreateBill(context.Background(), createRequest(patient.ID))
	require.NoError(t, err)

	marked, err := svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	got, err := svc.Get(context.Background(), overdueBill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BillOverdue, got.Status)

	got, err = svc.Get(context.Background(), current.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BillPending, got.Status)
}
