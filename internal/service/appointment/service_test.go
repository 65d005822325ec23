package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afyahms/hms-api/internal/model"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	return a, nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Exists(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	for _, a := range r.appointments {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.Status == model.AppointmentCancelled || a.Status == model.AppointmentNoShow || a.Status == model.AppointmentRescheduled {
			continue
		}
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(date) && a.AppointmentTime == slot {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) ListForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	return nil, nil
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

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) error { return nil }

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("record not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, apperrors.NotFound("record not found")
}

func (r *fakeUserRepo) Update(ctx context.Context, u *model.User) error { return nil }

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context) ([]*model.RoleCount, error) {
	return nil, nil
}

func (r *fakeUserRepo) RecordLoginAttempt(ctx context.Context, id uuid.UUID, attempts int, locked bool) error {
	return nil
}

func (r *fakeUserRepo) ResetLoginAttempts(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) AssignDepartment(ctx context.Context, a *model.StaffDepartmentAssignment) error {
	return nil
}

func (r *fakeUserRepo) ListDepartmentAssignments(ctx context.Context, userID uuid.UUID) ([]*model.StaffDepartmentAssignment, error) {
	return nil, nil
}

type recordingMailer struct {
	sent int
}

func (m *recordingMailer) SendAppointmentConfirmation(ctx context.Context, patient *model.Patient, appointment *model.Appointment) error {
	m.sent++
	return nil
}

type testEnv struct {
	svc     *Service
	patient *model.Patient
	doctor  *model.User
	nurse   *model.User
	mailer  *recordingMailer
}

func newTestEnv() *testEnv {
	patient := &model.Patient{FirstName: "Amina", LastName: "Otieno", Email: "amina@example.com"}
	patient.ID = uuid.New()

	doctor := &model.User{Username: "dr.kamau", Role: model.RoleMedicalOfficer}
	doctor.ID = uuid.New()

	nurse := &model.User{Username: "nurse.njeri", Role: model.RoleRegisteredNurse}
	nurse.ID = uuid.New()

	mailer := &recordingMailer{}
	svc := NewService(
		newFakeAppointmentRepo(),
		&fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{doctor.ID: doctor, nurse.ID: nurse}},
		nil,
		mailer,
	)
	return &testEnv{svc: svc, patient: patient, doctor: doctor, nurse: nurse, mailer: mailer}
}

func scheduleRequest(env *testEnv) *model.ScheduleAppointmentRequest {
	return &model.ScheduleAppointmentRequest{
		PatientID:       env.patient.ID,
		DoctorID:        env.doctor.ID,
		DepartmentID:    uuid.New(),
		AppointmentDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "10:30",
		AppointmentType: model.AppointmentConsultation,
		ChiefComplaint:  "persistent headache",
		ConsultationFee: 1500,
	}
}

func TestScheduleSendsConfirmation(t *testing.T) {
	env := newTestEnv()

	a, err := env.svc.Schedule(context.Background(), scheduleRequest(env), env.nurse.ID)
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentScheduled, a.Status)
	assert.Equal(t, model.UrgencyRoutine, a.UrgencyLevel)
	assert.Equal(t, 30, a.EstimatedDuration)
	assert.Equal(t, model.PaymentPending, a.PaymentStatus)
	assert.NotEmpty(t, a.AppointmentNumber)
	assert.Equal(t, 1, env.mailer.sent)
}

func TestScheduleRejectsDoubleBooking(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Schedule(context.Background(), scheduleRequest(env), env.nurse.ID)
	require.NoError(t, err)

	_, err = env.svc.Schedule(context.Background(), scheduleRequest(env), env.nurse.ID)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	// A different slot for the same doctor is fine.
	req := scheduleRequest(env)
	req.AppointmentTime = "11:00"
	_, err = env.svc.Schedule(context.Background(), req, env.nurse.ID)
	require.NoError(t, err)
}

func TestScheduleRejectsNonDoctor(t *testing.T) {
	env := newTestEnv()

	req := scheduleRequest(env)
	req.DoctorID = env.nurse.ID
	_, err := env.svc.Schedule(context.Background(), req, env.nurse.ID)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestAppointmentLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a, err := env.svc.Schedule(ctx, scheduleRequest(env), env.nurse.ID)
	require.NoError(t, err)

	a, err = env.svc.Confirm(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, a.ConfirmedDate)

	a, err = env.svc.CheckIn(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, a.CheckInTime)

	a, err = env.svc.StartConsultation(ctx, a.ID)
	require.NoError(t, err)

	a, err = env.svc.Complete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCompleted, a.Status)

	// Completed appointments cannot be cancelled.
	_, err = env.svc.Cancel(ctx, a.ID)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestRescheduleFreesOldSlot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a, err := env.svc.Schedule(ctx, scheduleRequest(env), env.nurse.ID)
	require.NoError(t, err)

	replacement, err := env.svc.Reschedule(ctx, a.ID, a.AppointmentDate, "14:00")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentScheduled, replacement.Status)
	assert.Equal(t, "14:00", replacement.AppointmentTime)
	assert.NotEqual(t, a.ID, replacement.ID)

	old, err := env.svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentRescheduled, old.Status)

	// The vacated slot can be booked again.
	req := scheduleRequest(env)
	_, err = env.svc.Schedule(ctx, req, env.nurse.ID)
	require.NoError(t, err)
}

func TestRecordPaymentUpdatesStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a, err := env.svc.Schedule(ctx, scheduleRequest(env), env.nurse.ID)
	require.NoError(t, err)

	a, err = env.svc.RecordPayment(ctx, a.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPartial, a.PaymentStatus)

	a, err = env.svc.RecordPayment(ctx, a.ID, 1000)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, a.PaymentStatus)

	_, err = env.svc.RecordPayment(ctx, a.ID, -5)
	require.Error(t, err)
}
