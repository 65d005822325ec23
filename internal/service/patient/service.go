package patient

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
	patients repository.PatientRepository
	outbox   repository.OutboxRepository
}

func NewService(patients repository.PatientRepository, outbox repository.OutboxRepository) *Service {
	return &Service{patients: patients, outbox: outbox}
}

func (s *Service) Register(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if req.DateOfBirth == nil && req.EstimatedAge == nil {
		return nil, apperrors.BadRequest("either date of birth or estimated age is required")
	}

	number, err := s.patients.NextPatientNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate patient number: %w", err)
	}

	patient := &model.Patient{
		PatientNumber:    number,
		FirstName:        req.FirstName,
		MiddleName:       req.MiddleName,
		LastName:         req.LastName,
		DateOfBirth:      req.DateOfBirth,
		EstimatedAge:     req.EstimatedAge,
		Gender:           req.Gender,
		MaritalStatus:    req.MaritalStatus,
		NationalID:       req.NationalID,
		PhonePrimary:     req.PhonePrimary,
		Email:            req.Email,
		CountyID:         req.CountyID,
		SubCountyID:      req.SubCountyID,
		NextOfKinName:    req.NextOfKinName,
		NextOfKinRel:     req.NextOfKinRel,
		NextOfKinPhone:   req.NextOfKinPhone,
		BloodGroup:       req.BloodGroup,
		Weight:           req.Weight,
		Height:           req.Height,
		PatientCategory:  req.Category,
		RegistrationDate: time.Now(),
		NHIFNumber:       req.NHIFNumber,
	}
	if patient.PatientCategory == "" {
		patient.PatientCategory = model.PatientGeneral
	}
	if patient.BloodGroup == "" {
		patient.BloodGroup = "unknown"
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, apperrors.FromPg(err)
	}

	s.emit(ctx, "patient.registered", patient)
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return patient, nil
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*model.Patient, error) {
	patient, err := s.patients.GetByPatientNumber(ctx, number)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.MiddleName != nil {
		patient.MiddleName = *req.MiddleName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.PhonePrimary != nil {
		patient.PhonePrimary = *req.PhonePrimary
	}
	if req.PhoneSecondary != nil {
		patient.PhoneSecondary = *req.PhoneSecondary
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.MaritalStatus != nil {
		patient.MaritalStatus = *req.MaritalStatus
	}
	if req.PhysicalAddress != nil {
		patient.PhysicalAddress = *req.PhysicalAddress
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.Weight != nil {
		patient.Weight = req.Weight
	}
	if req.Height != nil {
		patient.Height = req.Height
	}
	if req.ChronicConditions != nil {
		patient.ChronicConditions = *req.ChronicConditions
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}
	if req.Medications != nil {
		patient.Medications = *req.Medications
	}
	if req.NHIFNumber != nil {
		patient.NHIFNumber = *req.NHIFNumber
	}
	if req.InsuranceProvider != nil {
		patient.InsuranceProvider = *req.InsuranceProvider
	}
	if req.InsuranceNumber != nil {
		patient.InsuranceNumber = *req.InsuranceNumber
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.FromPg(err)
	}

	s.emit(ctx, "patient.updated", patient)
	return patient, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.patients.List(ctx, filters)
}

// MarkDeceased flips the registry flags; the morgue workflow calls this
// when a body is admitted.
func (s *Service) MarkDeceased(ctx context.Context, id uuid.UUID, dateOfDeath time.Time) error {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		return apperrors.FromPg(err)
	}
	if patient.IsDeceased {
		return nil
	}
	patient.IsDeceased = true
	patient.DateOfDeath = &dateOfDeath
	if err := s.patients.Update(ctx, patient); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

// RecordVisit stamps the registry with the latest contact date.
func (s *Service) RecordVisit(ctx context.Context, id uuid.UUID, at time.Time) error {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		return apperrors.FromPg(err)
	}
	patient.LastVisitDate = &at
	return s.patients.Update(ctx, patient)
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
