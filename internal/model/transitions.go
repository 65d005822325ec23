package model

import "fmt"

// ErrInvalidTransition is returned when a lifecycle status change is not in
// the transition table for its entity.
type ErrInvalidTransition struct {
	Entity string
	From   string
	To     string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("%s: illegal status transition %s -> %s", e.Entity, e.From, e.To)
}

var admissionTransitions = map[AdmissionStatus][]AdmissionStatus{
	AdmissionAdmitted:    {AdmissionDischarged, AdmissionTransferred, AdmissionAbsconded, AdmissionDied, AdmissionReferred},
	AdmissionTransferred: {AdmissionAdmitted},
	// discharged, absconded, died, referred are terminal
}

// CanTransition reports whether the admission may move to the given status.
func (a *Admission) CanTransition(to AdmissionStatus) bool {
	return contains(admissionTransitions[a.Status], to)
}

// Transition moves the admission to the given status or fails with a typed
// error when the move is not legal.
func (a *Admission) Transition(to AdmissionStatus) error {
	if !a.CanTransition(to) {
		return &ErrInvalidTransition{Entity: "admission", From: string(a.Status), To: string(to)}
	}
	a.Status = to
	return nil
}

var bodyTransitions = map[BodyStatus][]BodyStatus{
	BodyStored:  {BodyAutopsy, BodyReleased, BodyBuried, BodyTransferred},
	BodyAutopsy: {BodyStored, BodyReleased},
	// released, buried, transferred are terminal
}

func (m *MorgueAdmission) CanTransition(to BodyStatus) bool {
	return contains(bodyTransitions[m.Status], to)
}

func (m *MorgueAdmission) Transition(to BodyStatus) error {
	if !m.CanTransition(to) {
		return &ErrInvalidTransition{Entity: "morgue_admission", From: string(m.Status), To: string(to)}
	}
	m.Status = to
	return nil
}

var labOrderTransitions = map[LabOrderStatus][]LabOrderStatus{
	LabOrderOrdered:         {LabOrderSampleCollected, LabOrderCancelled},
	LabOrderSampleCollected: {LabOrderSampleReceived, LabOrderCancelled, LabOrderRejected},
	LabOrderSampleReceived:  {LabOrderInProgress, LabOrderCancelled, LabOrderRejected},
	LabOrderInProgress:      {LabOrderCompleted, LabOrderCancelled},
	LabOrderCompleted:       {LabOrderVerified},
	LabOrderVerified:        {LabOrderReported},
	// reported, cancelled, rejected are terminal
}

func (o *LabOrder) CanTransition(to LabOrderStatus) bool {
	return contains(labOrderTransitions[o.Status], to)
}

func (o *LabOrder) Transition(to LabOrderStatus) error {
	if !o.CanTransition(to) {
		return &ErrInvalidTransition{Entity: "lab_order", From: string(o.Status), To: string(to)}
	}
	o.Status = to
	return nil
}

var billTransitions = map[BillStatus][]BillStatus{
	BillDraft:         {BillPending, BillCancelled},
	BillPending:       {BillPartiallyPaid, BillFullyPaid, BillOverdue, BillCancelled, BillWaived},
	BillPartiallyPaid: {BillFullyPaid, BillOverdue, BillWaived},
	BillOverdue:       {BillPartiallyPaid, BillFullyPaid, BillWaived, BillCancelled},
	// fully_paid, cancelled, waived are terminal
}

func (b *Bill) CanTransition(to BillStatus) bool {
	return contains(billTransitions[b.Status], to)
}

func (b *Bill) Transition(to BillStatus) error {
	if !b.CanTransition(to) {
		return &ErrInvalidTransition{Entity: "bill", From: string(b.Status), To: string(to)}
	}
	b.Status = to
	return nil
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled:   {AppointmentConfirmed, AppointmentCancelled, AppointmentNoShow, AppointmentRescheduled},
	AppointmentConfirmed:   {AppointmentCheckedIn, AppointmentCancelled, AppointmentNoShow},
	AppointmentCheckedIn:   {AppointmentInProgress, AppointmentCancelled},
	AppointmentInProgress:  {AppointmentCompleted},
	AppointmentRescheduled: {AppointmentScheduled},
	// completed, cancelled, no_show are terminal
}

func (a *Appointment) CanTransition(to AppointmentStatus) bool {
	return contains(appointmentTransitions[a.Status], to)
}

func (a *Appointment) Transition(to AppointmentStatus) error {
	if !a.CanTransition(to) {
		return &ErrInvalidTransition{Entity: "appointment", From: string(a.Status), To: string(to)}
	}
	a.Status = to
	return nil
}

var prescriptionTransitions = map[PrescriptionStatus][]PrescriptionStatus{
	PrescriptionPending:            {PrescriptionPartiallyDispensed, PrescriptionFullyDispensed, PrescriptionCancelled, PrescriptionExpired},
	PrescriptionPartiallyDispensed: {PrescriptionFullyDispensed, PrescriptionCancelled, PrescriptionExpired},
	// fully_dispensed, cancelled, expired are terminal
}

func (p *Prescription) CanTransition(to PrescriptionStatus) bool {
	return contains(prescriptionTransitions[p.Status], to)
}

func (p *Prescription) Transition(to PrescriptionStatus) error {
	if !p.CanTransition(to) {
		return &ErrInvalidTransition{Entity: "prescription", From: string(p.Status), To: string(to)}
	}
	p.Status = to
	return nil
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
