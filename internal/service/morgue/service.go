package morgue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type Service struct {
	morgue     repository.MorgueRepository
	patients   repository.PatientRepository
	admissions repository.AdmissionRepository
}

func NewService(morgue repository.MorgueRepository, patients repository.PatientRepository, admissions repository.AdmissionRepository) *Service {
	return &Service{morgue: morgue, patients: patients, admissions: admissions}
}

func (s *Service) CreateDepartment(ctx context.Context, dept *model.MorgueDepartment) error {
	if err := s.morgue.CreateDepartment(ctx, dept); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]*model.MorgueDepartment, error) {
	return s.morgue.ListDepartments(ctx)
}

func (s *Service) CreateCompartment(ctx context.Context, c *model.MorgueCompartment) error {
	if _, err := s.morgue.GetDepartment(ctx, c.MorgueID); err != nil {
		return apperrors.NotFound("morgue department not found")
	}
	if err := s.morgue.CreateCompartment(ctx, c); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

func (s *Service) ListCompartments(ctx context.Context, departmentID uuid.UUID) ([]*model.MorgueCompartment, error) {
	return s.morgue.ListCompartments(ctx, departmentID)
}

// AdmitBody registers a body, marks the patient deceased, and claims a
// compartment when one is requested. A patient who died on a ward gets
// their hospital admission linked.
func (s *Service) AdmitBody(ctx context.Context, req *model.MorgueAdmitRequest, admittedBy uuid.UUID) (*model.MorgueAdmission, error) {
	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		return nil, apperrors.NotFound("patient not found")
	}

	if req.HospitalAdmissionID != nil {
		hospAdm, err := s.admissions.Get(ctx, *req.HospitalAdmissionID)
		if err != nil {
			return nil, apperrors.NotFound("hospital admission not found")
		}
		if hospAdm.PatientID != req.PatientID {
			return nil, apperrors.BadRequest("hospital admission belongs to a different patient")
		}
	}

	admission := &model.MorgueAdmission{
		MorgueNumber:          newMorgueNumber(),
		PatientID:             req.PatientID,
		HospitalAdmissionID:   req.HospitalAdmissionID,
		DateOfDeath:           req.DateOfDeath,
		PlaceOfDeath:          req.PlaceOfDeath,
		CauseOfDeath:          req.CauseOfDeath,
		DeathType:             req.DeathType,
		CertifyingDoctor:      req.CertifyingDoctor,
		AssignedCompartmentID: req.CompartmentID,
		AdmissionToMorgueDate: time.Now(),
		BodyCondition:         req.BodyCondition,
		PersonalEffects:       req.PersonalEffects,
		IdentificationMarks:   req.IdentificationMarks,
		RequiresAutopsy:       req.RequiresAutopsy,
		PoliceCaseNumber:      req.PoliceCaseNumber,
		Status:                model.BodyStored,
	}
	admission.CreatedBy = &admittedBy

	if err := s.morgue.AdmitBody(ctx, admission); err != nil {
		return nil, apperrors.FromPg(err)
	}

	if !patient.IsDeceased {
		patient.IsDeceased = true
		patient.DateOfDeath = &req.DateOfDeath
		_ = s.patients.Update(ctx, patient)
	}

	return admission, nil
}

func (s *Service) GetAdmission(ctx context.Context, id uuid.UUID) (*model.MorgueAdmission, error) {
	admission, err := s.morgue.GetAdmission(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return admission, nil
}

func (s *Service) ListAdmissions(ctx context.Context, departmentID *uuid.UUID, status *model.BodyStatus) ([]*model.MorgueAdmission, error) {
	return s.morgue.ListAdmissions(ctx, departmentID, status)
}

// StartAutopsy moves a stored body into the autopsy state.
func (s *Service) StartAutopsy(ctx context.Context, id uuid.UUID) (*model.MorgueAdmission, error) {
	admission, err := s.morgue.GetAdmission(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if !admission.RequiresAutopsy {
		return nil, apperrors.BadRequest("admission does not require an autopsy")
	}
	if err := admission.Transition(model.BodyAutopsy); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	if err := s.morgue.UpdateAdmission(ctx, admission); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return admission, nil
}

// CompleteAutopsy files the report and returns the body to storage.
func (s *Service) CompleteAutopsy(ctx context.Context, id uuid.UUID, report string) (*model.MorgueAdmission, error) {
	admission, err := s.morgue.GetAdmission(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if err := admission.Transition(model.BodyStored); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	admission.AutopsyCompleted = true
	admission.AutopsyReport = report
	if err := s.morgue.UpdateAdmission(ctx, admission); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return admission, nil
}

func (s *Service) IssueDeathCertificate(ctx context.Context, id uuid.UUID, certificateNumber string) (*model.MorgueAdmission, error) {
	admission, err := s.morgue.GetAdmission(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if admission.DeathCertificateIssued {
		return nil, apperrors.Conflict("death certificate already issued")
	}
	admission.DeathCertificateIssued = true
	admission.DeathCertificateNumber = certificateNumber
	if err := s.morgue.UpdateAdmission(ctx, admission); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return admission, nil
}

// ReleaseBody hands the body over to the next of kin, freeing the
// compartment and settling the storage charges in one transaction.
// Release requires a completed autopsy when one was ordered.
func (s *Service) ReleaseBody(ctx context.Context, id uuid.UUID, req *model.MorgueReleaseRequest, dailyRate float64) (*model.MorgueAdmission, error) {
	admission, err := s.morgue.GetAdmission(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}

	if admission.RequiresAutopsy && !admission.AutopsyCompleted {
		return nil, apperrors.Conflict("autopsy must be completed before release")
	}
	if err := admission.Transition(model.BodyReleased); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}

	now := time.Now()
	admission.ReleaseDate = &now
	admission.ReleasedToName = req.ReleasedToName
	admission.ReleasedToRelationship = req.ReleasedToRelationship
	admission.ReleasedToIDNumber = req.ReleasedToIDNumber
	admission.ReleasedToPhone = req.ReleasedToPhone
	admission.ReleaseAuthorization = req.ReleaseAuthorization

	days := admission.DaysInMorgue(now)
	if days < 1 {
		days = 1
	}
	admission.MorgueCharges = float64(days) * dailyRate
	admission.TotalCharges = admission.MorgueCharges + admission.AutopsyCharges + admission.CertificateCharges

	if err := s.morgue.ReleaseBody(ctx, admission); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return admission, nil
}

func newMorgueNumber() string {
	return fmt.Sprintf("MRG-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:6])
}
