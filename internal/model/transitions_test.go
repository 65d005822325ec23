package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmissionTransitions(t *testing.T) {
	a := &Admission{Status: AdmissionAdmitted}

	require.NoError(t, a.Transition(AdmissionTransferred))
	require.NoError(t, a.Transition(AdmissionAdmitted))
	require.NoError(t, a.Transition(AdmissionDischarged))

	err := a.Transition(AdmissionAdmitted)
	require.Error(t, err)
	var inv *ErrInvalidTransition
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "admission", inv.Entity)
	assert.Equal(t, "discharged", inv.From)
	assert.Equal(t, "admitted", inv.To)
}

func TestAdmissionTerminalStates(t *testing.T) {
	for _, terminal := range []AdmissionStatus{AdmissionDischarged, AdmissionAbsconded, AdmissionDied, AdmissionReferred} {
		a := &Admission{Status: terminal}
		for _, to := range []AdmissionStatus{AdmissionAdmitted, AdmissionDischarged, AdmissionTransferred} {
			assert.False(t, a.CanTransition(to), "%s -> %s should be illegal", terminal, to)
		}
	}
}

func TestMorgueTransitions(t *testing.T) {
	m := &MorgueAdmission{Status: BodyStored}

	require.NoError(t, m.Transition(BodyAutopsy))
	require.NoError(t, m.Transition(BodyStored))
	require.NoError(t, m.Transition(BodyReleased))

	assert.Error(t, m.Transition(BodyStored))
	assert.Error(t, m.Transition(BodyBuried))
}

func TestLabOrderHappyPath(t *testing.T) {
	o := &LabOrder{Status: LabOrderOrdered}
	for _, next := range []LabOrderStatus{
		LabOrderSampleCollected, LabOrderSampleReceived, LabOrderInProgress,
		LabOrderCompleted, LabOrderVerified, LabOrderReported,
	} {
		require.NoError(t, o.Transition(next))
	}
	assert.Error(t, o.Transition(LabOrderCancelled))
}

func TestLabOrderCancellation(t *testing.T) {
	o := &LabOrder{Status: LabOrderInProgress}
	require.NoError(t, o.Transition(LabOrderCancelled))

	verified := &LabOrder{Status: LabOrderVerified}
	assert.Error(t, verified.Transition(LabOrderCancelled))

	received := &LabOrder{Status: LabOrderSampleReceived}
	require.NoError(t, received.Transition(LabOrderRejected))
}

func TestBillTransitions(t *testing.T) {
	b := &Bill{Status: BillDraft}
	require.NoError(t, b.Transition(BillPending))
	require.NoError(t, b.Transition(BillOverdue))
	require.NoError(t, b.Transition(BillPartiallyPaid))
	require.NoError(t, b.Transition(BillFullyPaid))

	assert.Error(t, b.Transition(BillPending))
	assert.Error(t, b.Transition(BillCancelled))
}

func TestAppointmentTransitions(t *testing.T) {
	a := &Appointment{Status: AppointmentScheduled}
	require.NoError(t, a.Transition(AppointmentConfirmed))
	require.NoError(t, a.Transition(AppointmentCheckedIn))
	require.NoError(t, a.Transition(AppointmentInProgress))
	require.NoError(t, a.Transition(AppointmentCompleted))
	assert.Error(t, a.Transition(AppointmentCancelled))

	r := &Appointment{Status: AppointmentScheduled}
	require.NoError(t, r.Transition(AppointmentRescheduled))
	require.NoError(t, r.Transition(AppointmentScheduled))
}

func TestPrescriptionTransitions(t *testing.T) {
	p := &Prescription{Status: PrescriptionPending}
	require.NoError(t, p.Transition(PrescriptionPartiallyDispensed))
	require.NoError(t, p.Transition(PrescriptionFullyDispensed))
	assert.Error(t, p.Transition(PrescriptionCancelled))
}
