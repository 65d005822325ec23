package admission

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type fakeWardRepo struct {
	wards map[uuid.UUID]*model.Ward
	beds  map[uuid.UUID]*model.Bed
}

func newFakeWardRepo() *fakeWardRepo {
	return &fakeWardRepo{
		wards: make(map[uuid.UUID]*model.Ward),
		beds:  make(map[uuid.UUID]*model.Bed),
	}
}

func (r *fakeWardRepo) addWard(capacity int) *model.Ward {
	ward := &model.Ward{Name: "Ward", BedCapacity: capacity}
	ward.ID = uuid.New()
	r.wards[ward.ID] = ward
	return ward
}

func (r *fakeWardRepo) addBed(wardID uuid.UUID) *model.Bed {
	bed := &model.Bed{WardID: wardID, Status: model.BedAvailable}
	bed.ID = uuid.New()
	r.beds[bed.ID] = bed
	return bed
}

func (r *fakeWardRepo) Create(ctx context.Context, ward *model.Ward) error { return nil }

func (r *fakeWardRepo) Get(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	w, ok := r.wards[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	return w, nil
}

func (r *fakeWardRepo) Update(ctx context.Context, ward *model.Ward) error { return nil }
func (r *fakeWardRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (r *fakeWardRepo) List(ctx context.Context) ([]*model.Ward, error)    { return nil, nil }

func (r *fakeWardRepo) CreateBed(ctx context.Context, bed *model.Bed) error { return nil }

func (r *fakeWardRepo) GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	b, ok := r.beds[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	return b, nil
}

func (r *fakeWardRepo) ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	return nil, nil
}

func (r *fakeWardRepo) ListAvailableBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	return nil, nil
}

func (r *fakeWardRepo) AssignBed(ctx context.Context, bedID uuid.UUID) error {
	bed, ok := r.beds[bedID]
	if !ok {
		return apperrors.NotFound("bed not found")
	}
	if bed.Status != model.BedAvailable {
		return apperrors.Conflict("bed is not available")
	}
	ward := r.wards[bed.WardID]
	if ward.CurrentOccupancy >= ward.BedCapacity {
		return apperrors.Conflict("ward is at full capacity")
	}
	bed.Status = model.BedOccupied
	ward.CurrentOccupancy++
	return nil
}

func (r *fakeWardRepo) ReleaseBed(ctx context.Context, bedID uuid.UUID) error {
	bed, ok := r.beds[bedID]
	if !ok {
		return apperrors.NotFound("bed not found")
	}
	bed.Status = model.BedAvailable
	if ward := r.wards[bed.WardID]; ward.CurrentOccupancy > 0 {
		ward.CurrentOccupancy--
	}
	return nil
}

func (r *fakeWardRepo) TransferBed(ctx context.Context, fromBedID, toBedID uuid.UUID) error {
	if err := r.AssignBed(ctx, toBedID); err != nil {
		return err
	}
	return r.ReleaseBed(ctx, fromBedID)
}

type fakeAdmissionRepo struct {
	admissions map[uuid.UUID]*model.Admission
	consulting map[uuid.UUID][]uuid.UUID
	transfers  []*model.BedTransfer
	createErr  error
}

func newFakeAdmissionRepo() *fakeAdmissionRepo {
	return &fakeAdmissionRepo{
		admissions: make(map[uuid.UUID]*model.Admission),
		consulting: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeAdmissionRepo) Create(ctx context.Context, a *model.Admission) error {
	if r.createErr != nil {
		return r.createErr
	}
	a.ID = uuid.New()
	r.admissions[a.ID] = a
	return nil
}

func (r *fakeAdmissionRepo) Get(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	a, ok := r.admissions[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	return a, nil
}

func (r *fakeAdmissionRepo) Update(ctx context.Context, a *model.Admission) error {
	r.admissions[a.ID] = a
	return nil
}

func (r *fakeAdmissionRepo) List(ctx context.Context, filters *model.AdmissionFilters) ([]*model.Admission, error) {
	return nil, nil
}

func (r *fakeAdmissionRepo) GetActiveForPatient(ctx context.Context, patientID uuid.UUID) (*model.Admission, error) {
	for _, a := range r.admissions {
		if a.PatientID == patientID && (a.Status == model.AdmissionAdmitted || a.Status == model.AdmissionTransferred) {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAdmissionRepo) AddConsultingDoctor(ctx context.Context, admissionID, doctorID uuid.UUID) error {
	r.consulting[admissionID] = append(r.consulting[admissionID], doctorID)
	return nil
}

func (r *fakeAdmissionRepo) ListConsultingDoctors(ctx context.Context, admissionID uuid.UUID) ([]uuid.UUID, error) {
	return r.consulting[admissionID], nil
}

func (r *fakeAdmissionRepo) RecordTransfer(ctx context.Context, transfer *model.BedTransfer) error {
	r.transfers = append(r.transfers, transfer)
	return nil
}

func (r *fakeAdmissionRepo) ListTransfers(ctx context.Context, admissionID uuid.UUID) ([]*model.BedTransfer, error) {
	return r.transfers, nil
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

// fakeUserRepo only needs Get; the embedded interface panics on
// anything else.
type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	return u, nil
}

type admissionEnv struct {
	svc        *Service
	admissions *fakeAdmissionRepo
	wards      *fakeWardRepo
	patient    *model.Patient
	doctor     *model.User
	ward       *model.Ward
	bed        *model.Bed
}

func newAdmissionEnv(t *testing.T) *admissionEnv {
	t.Helper()

	patient := &model.Patient{FirstName: "Joseph", LastName: "Mwangi"}
	patient.ID = uuid.New()

	doctor := &model.User{Role: model.RoleMedicalOfficer}
	doctor.ID = uuid.New()

	wards := newFakeWardRepo()
	ward := wards.addWard(2)
	bed := wards.addBed(ward.ID)

	admissions := newFakeAdmissionRepo()
	svc := NewService(
		admissions,
		&fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}},
		wards,
		&fakeUserRepo{users: map[uuid.UUID]*model.User{doctor.ID: doctor}},
		nil,
	)

	return &admissionEnv{
		svc:        svc,
		admissions: admissions,
		wards:      wards,
		patient:    patient,
		doctor:     doctor,
		ward:       ward,
		bed:        bed,
	}
}

func (env *admissionEnv) admitRequest() *model.AdmitPatientRequest {
	return &model.AdmitPatientRequest{
		PatientID:       env.patient.ID,
		AdmissionType:   model.AdmissionMedical,
		PrimaryDoctorID: &env.doctor.ID,
		BedID:           &env.bed.ID,
		ChiefComplaint:  "persistent fever",
		ProvisionalDx:   "malaria",
	}
}

func TestAdmitClaimsBed(t *testing.T) {
	env := newAdmissionEnv(t)

	admission, err := env.svc.Admit(context.Background(), env.admitRequest(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.AdmissionAdmitted, admission.Status)
	assert.True(t, strings.HasPrefix(admission.AdmissionNumber, "ADM-"))
	assert.Equal(t, model.BedOccupied, env.bed.Status)
	assert.Equal(t, 1, env.ward.CurrentOccupancy)
	require.NotNil(t, env.patient.LastVisitDate)
}

func TestAdmitRejectsSecondOpenStay(t *testing.T) {
	env := newAdmissionEnv(t)

	_, err := env.svc.Admit(context.Background(), env.admitRequest(), uuid.New())
	require.NoError(t, err)

	req := env.admitRequest()
	req.BedID = nil
	_, err = env.svc.Admit(context.Background(), req, uuid.New())
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestAdmitRejectsDeceasedPatient(t *testing.T) {
	env := newAdmissionEnv(t)
	env.patient.IsDeceased = true

	_, err := env.svc.Admit(context.Background(), env.admitRequest(), uuid.New())
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestAdmitRejectsNonDoctorPrimary(t *testing.T) {
	env := newAdmissionEnv(t)
	env.doctor.Role = model.RoleRegisteredNurse

	_, err := env.svc.Admit(context.Background(), env.admitRequest(), uuid.New())
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestAdmitRejectsOccupiedBed(t *testing.T) {
	env := newAdmissionEnv(t)
	env.bed.Status = model.BedOccupied

	_, err := env.svc.Admit(context.Background(), env.admitRequest(), uuid.New())
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestAdmitReleasesBedWhenCreateFails(t *testing.T) {
	env := newAdmissionEnv(t)
	env.admissions.createErr = assert.AnError

	_, err := env.svc.Admit(context.Background(), env.admitRequest(), uuid.New())
	require.Error(t, err)

	assert.Equal(t, model.BedAvailable, env.bed.Status)
	assert.Equal(t, 0, env.ward.CurrentOccupancy)
}

func TestDischargeReleasesBed(t *testing.T) {
	env := newAdmissionEnv(t)

	admission, err := env.svc.Admit(context.Background(), env.admitRequest(), uuid.New())
	require.NoError(t, err)

	discharged, err := env.svc.Discharge(context.Background(), admission.ID, &model.DischargeRequest{
		DischargeType:    model.DischargeNormal,
		DischargeSummary: "responded to treatment",
		FinalDiagnosis:   "malaria, resolved",
	}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.AdmissionDischarged, discharged.Status)
	assert.Equal(t, "malaria, resolved", discharged.FinalDx)
	require.NotNil(t, discharged.DischargeDate)
	assert.Equal(t, model.BedAvailable, env.bed.Status)
	assert.Equal(t, 0, env.ward.CurrentOccupancy)

	// A closed stay cannot be discharged again.
	_, err = env.svc.Discharge(context.Background(), admission.ID, &model.DischargeRequest{
		DischargeType: model.DischargeNormal,
	}, uuid.New())
	require.Error(t, err)
}

func TestDischargeTypeDrivesStatus(t *testing.T) {
	env := newAdmissionEnv(t)

	req := env.admitRequest()
	req.BedID = nil
	admission, err := env.svc.Admit(context.Background(), req, uuid.New())
	require.NoError(t, err)

	discharged, err := env.svc.Discharge(context.Background(), admission.ID, &model.DischargeRequest{
		DischargeType: model.DischargeDied,
	}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.AdmissionDied, discharged.Status)
}

func TestTransferBedMovesOccupancy(t *testing.T) {
	env := newAdmissionEnv(t)
	otherWard := env.wards.addWard(4)
	otherBed := env.wards.addBed(otherWard.ID)

	admission, err := env.svc.Admit(context.Background(), env.admitRequest(), uuid.New())
	require.NoError(t, err)

	moved, err := env.svc.TransferBed(context.Background(), admission.ID, &model.TransferBedRequest{
		ToBedID:      otherBed.ID,
		Reason:       "isolation required",
		AuthorizedBy: env.doctor.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, env.ward.CurrentOccupancy)
	assert.Equal(t, 1, otherWard.CurrentOccupancy)
	assert.Equal(t, model.BedAvailable, env.bed.Status)
	assert.Equal(t, model.BedOccupied, otherBed.Status)
	require.NotNil(t, moved.AssignedBedID)
	assert.Equal(t, otherBed.ID, *moved.AssignedBedID)

	require.Len(t, env.admissions.transfers, 1)
	transfer := env.admissions.transfers[0]
	require.NotNil(t, transfer.FromBedID)
	assert.Equal(t, env.bed.ID, *transfer.FromBedID)
	assert.Equal(t, "isolation required", transfer.Reason)
}

func TestTransferRequiresActiveAdmission(t *testing.T) {
	env := newAdmissionEnv(t)
	otherBed := env.wards.addBed(env.ward.ID)

	admission, err := env.svc.Admit(context.Background(), env.admitRequest(), uuid.New())
	require.NoError(t, err)

	_, err = env.svc.Discharge(context.Background(), admission.ID, &model.DischargeRequest{
		DischargeType: model.DischargeNormal,
	}, uuid.New())
	require.NoError(t, err)

	_, err = env.svc.TransferBed(context.Background(), admission.ID, &model.TransferBedRequest{
		ToBedID:      otherBed.ID,
		Reason:       "ward move",
		AuthorizedBy: env.doctor.ID,
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}
