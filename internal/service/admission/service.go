package admission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type Service struct {
	admissions repository.AdmissionRepository
	patients   repository.PatientRepository
	wards      repository.WardRepository
	users      repository.UserRepository
	outbox     repository.OutboxRepository
}

func NewService(
	admissions repository.AdmissionRepository,
	patients repository.PatientRepository,
	wards repository.WardRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
) *Service {
	return &Service{
		admissions: admissions,
		patients:   patients,
		wards:      wards,
		users:      users,
		outbox:     outbox,
	}
}

// Admit opens an inpatient stay. A patient can hold at most one open
// admission; a requested bed is claimed atomically with its ward's
// occupancy counter.
func (s *Service) Admit(ctx context.Context, req *model.AdmitPatientRequest, admittedBy uuid.UUID) (*model.Admission, error) {
	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		return nil, apperrors.NotFound("patient not found")
	}
	if patient.IsDeceased {
		return nil, apperrors.BadRequest("cannot admit a deceased patient")
	}

	active, err := s.admissions.GetActiveForPatient(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active admission: %w", err)
	}
	if active != nil {
		return nil, apperrors.Conflict("patient already has an active admission")
	}

	if req.PrimaryDoctorID != nil {
		doctor, err := s.users.Get(ctx, *req.PrimaryDoctorID)
		if err != nil {
			return nil, apperrors.NotFound("primary doctor not found")
		}
		if !doctor.Role.IsDoctor() && !doctor.SecondaryRole.IsDoctor() {
			return nil, apperrors.BadRequest("primary doctor must hold a doctor role")
		}
	}

	if req.BedID != nil {
		if err := s.wards.AssignBed(ctx, *req.BedID); err != nil {
			return nil, apperrors.Conflict(err.Error())
		}
	}

	admission := &model.Admission{
		AdmissionNumber: newAdmissionNumber(),
		PatientID:       req.PatientID,
		AdmissionDate:   time.Now(),
		AdmissionType:   req.AdmissionType,
		PrimaryDoctorID: req.PrimaryDoctorID,
		AssignedNurseID: req.AssignedNurseID,
		AssignedBedID:   req.BedID,
		ChiefComplaint:  req.ChiefComplaint,
		ProvisionalDx:   req.ProvisionalDx,
		Comorbidities:   req.Comorbidities,
		ReferredFrom:    req.ReferredFrom,
		ReferringDoctor: req.ReferringDoctor,
		AdmissionNotes:  req.AdmissionNotes,
		Status:          model.AdmissionAdmitted,
	}
	admission.CreatedBy = &admittedBy

	if err := s.admissions.Create(ctx, admission); err != nil {
		// Roll the bed claim back so the counter does not leak.
		if req.BedID != nil {
			_ = s.wards.ReleaseBed(ctx, *req.BedID)
		}
		return nil, apperrors.FromPg(err)
	}

	for _, doctorID := range req.ConsultingDoctorIDs {
		if err := s.admissions.AddConsultingDoctor(ctx, admission.ID, doctorID); err != nil {
			return nil, fmt.Errorf("failed to add consulting doctor: %w", err)
		}
	}
	admission.ConsultingDoctorIDs = req.ConsultingDoctorIDs

	patient.LastVisitDate = &admission.AdmissionDate
	_ = s.patients.Update(ctx, patient)

	s.emit(ctx, "admission.created", admission)
	return admission, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	admission, err := s.admissions.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	doctors, err := s.admissions.ListConsultingDoctors(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load consulting doctors: %w", err)
	}
	admission.ConsultingDoctorIDs = doctors
	return admission, nil
}

func (s *Service) List(ctx context.Context, filters *model.AdmissionFilters) ([]*model.Admission, error) {
	return s.admissions.List(ctx, filters)
}

// Discharge closes the stay. The target status is derived from the
// discharge type and must be reachable from the current status.
func (s *Service) Discharge(ctx context.Context, id uuid.UUID, req *model.DischargeRequest, dischargedBy uuid.UUID) (*model.Admission, error) {
	admission, err := s.admissions.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}

	target := statusForDischargeType(req.DischargeType)
	if err := admission.Transition(target); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}

	now := time.Now()
	admission.DischargeDate = &now
	admission.DischargeType = req.DischargeType
	admission.DischargeSummary = req.DischargeSummary
	admission.DischargeInstructions = req.DischargeInstructions
	admission.FollowUpInstructions = req.FollowUpInstructions
	admission.ReferredTo = req.ReferredTo
	if req.FinalDiagnosis != "" {
		admission.FinalDx = req.FinalDiagnosis
	}
	admission.UpdatedBy = &dischargedBy

	if admission.AssignedBedID != nil {
		if err := s.wards.ReleaseBed(ctx, *admission.AssignedBedID); err != nil {
			return nil, fmt.Errorf("failed to release bed: %w", err)
		}
	}

	if err := s.admissions.Update(ctx, admission); err != nil {
		return nil, apperrors.FromPg(err)
	}

	s.emit(ctx, "admission.discharged", admission)
	return admission, nil
}

// TransferBed moves the patient to another bed, adjusting both wards'
// occupancy atomically and appending to the transfer log.
func (s *Service) TransferBed(ctx context.Context, id uuid.UUID, req *model.TransferBedRequest) (*model.Admission, error) {
	admission, err := s.admissions.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if admission.Status != model.AdmissionAdmitted {
		return nil, apperrors.Conflict("only active admissions can be transferred")
	}

	fromBedID := admission.AssignedBedID
	if fromBedID != nil {
		if err := s.wards.TransferBed(ctx, *fromBedID, req.ToBedID); err != nil {
			return nil, apperrors.Conflict(err.Error())
		}
	} else {
		if err := s.wards.AssignBed(ctx, req.ToBedID); err != nil {
			return nil, apperrors.Conflict(err.Error())
		}
	}

	transfer := &model.BedTransfer{
		AdmissionID:  admission.ID,
		FromBedID:    fromBedID,
		ToBedID:      req.ToBedID,
		TransferDate: time.Now(),
		Reason:       req.Reason,
		AuthorizedBy: req.AuthorizedBy,
	}
	if err := s.admissions.RecordTransfer(ctx, transfer); err != nil {
		return nil, fmt.Errorf("failed to record bed transfer: %w", err)
	}

	admission.AssignedBedID = &req.ToBedID
	if err := s.admissions.Update(ctx, admission); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return admission, nil
}

func (s *Service) ListTransfers(ctx context.Context, admissionID uuid.UUID) ([]*model.BedTransfer, error) {
	return s.admissions.ListTransfers(ctx, admissionID)
}

func statusForDischargeType(t model.DischargeType) model.AdmissionStatus {
	switch t {
	case model.DischargeDied:
		return model.AdmissionDied
	case model.DischargeAbsconded:
		return model.AdmissionAbsconded
	case model.DischargeReferred:
		return model.AdmissionReferred
	case model.DischargeTransferred:
		return model.AdmissionTransferred
	default:
		return model.AdmissionDischarged
	}
}

// newAdmissionNumber is time-based: ADM-YYYYMMDD-HHMMSS plus a short
// random suffix to keep same-second admissions distinct.
func newAdmissionNumber() string {
	return fmt.Sprintf("ADM-%s-%s", time.Now().Format("20060102-150405"), uuid.New().String()[:4])
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.outbox == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = s.outbox.Create(ctx, &model.OutboxEvent{EventType: eventType, Payload: data})
}
