package medical

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
	records  repository.MedicalRecordRepository
	patients repository.PatientRepository
}

func NewService(records repository.MedicalRecordRepository, patients repository.PatientRepository) *Service {
	return &Service{records: records, patients: patients}
}

// CreateRecord writes the clinical note and, when the request carries a
// vital signs snapshot, persists it as a linked observation row.
func (s *Service) CreateRecord(ctx context.Context, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, apperrors.NotFound("patient not found")
	}

	record := &model.MedicalRecord{
		RecordNumber:         newRecordNumber(),
		PatientID:            req.PatientID,
		DoctorID:             req.DoctorID,
		DepartmentID:         req.DepartmentID,
		AppointmentID:        req.AppointmentID,
		AdmissionID:          req.AdmissionID,
		RecordDate:           time.Now(),
		RecordType:           req.RecordType,
		ChiefComplaint:       req.ChiefComplaint,
		HistoryOfIllness:     req.HistoryOfIllness,
		ProvisionalDiagnosis: req.ProvisionalDiagnosis,
		TreatmentPlan:        req.TreatmentPlan,
		VitalSignsSnapshot:   req.VitalSigns,
		IsConfidential:       req.IsConfidential,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, apperrors.FromPg(err)
	}

	if len(req.VitalSigns) > 0 {
		vitals := vitalsFromSnapshot(req.VitalSigns)
		vitals.PatientID = req.PatientID
		vitals.MedicalRecordID = &record.ID
		vitals.AdmissionID = req.AdmissionID
		vitals.RecordedBy = req.DoctorID
		vitals.RecordedDate = record.RecordDate
		if err := s.records.CreateVitals(ctx, vitals); err != nil {
			return nil, apperrors.FromPg(err)
		}
	}
	return record, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	record, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return record, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	return s.records.ListForPatient(ctx, patientID)
}

func (s *Service) RecordVitals(ctx context.Context, req *model.RecordVitalsRequest) (*model.VitalSigns, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, apperrors.NotFound("patient not found")
	}

	vitals := &model.VitalSigns{
		PatientID:        req.PatientID,
		MedicalRecordID:  req.MedicalRecordID,
		AdmissionID:      req.AdmissionID,
		RecordedBy:       req.RecordedBy,
		RecordedDate:     time.Now(),
		Temperature:      req.Temperature,
		SystolicBP:       req.SystolicBP,
		DiastolicBP:      req.DiastolicBP,
		PulseRate:        req.PulseRate,
		RespiratoryRate:  req.RespiratoryRate,
		OxygenSaturation: req.OxygenSaturation,
		Weight:           req.Weight,
		Height:           req.Height,
		BloodSugar:       req.BloodSugar,
		PainScore:        req.PainScore,
		Notes:            req.Notes,
	}
	if err := s.records.CreateVitals(ctx, vitals); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return vitals, nil
}

func (s *Service) ListVitals(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.VitalSigns, error) {
	return s.records.ListVitals(ctx, patientID, limit)
}

func (s *Service) LatestVitals(ctx context.Context, patientID uuid.UUID) (*model.VitalSigns, error) {
	vitals, err := s.records.LatestVitals(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if vitals == nil {
		return nil, apperrors.NotFound("no vital signs recorded for patient")
	}
	return vitals, nil
}

// vitalsFromSnapshot lifts the loosely typed snapshot map into a
// structured observation. Unknown keys are ignored.
func vitalsFromSnapshot(snapshot model.JSONMap) *model.VitalSigns {
	vitals := &model.VitalSigns{}
	if v, ok := snapshot.Float("temperature"); ok {
		vitals.Temperature = &v
	}
	if v, ok := snapshot.Int("systolic_bp"); ok {
		vitals.SystolicBP = &v
	}
	if v, ok := snapshot.Int("diastolic_bp"); ok {
		vitals.DiastolicBP = &v
	}
	if v, ok := snapshot.Int("pulse_rate"); ok {
		vitals.PulseRate = &v
	}
	if v, ok := snapshot.Int("respiratory_rate"); ok {
		vitals.RespiratoryRate = &v
	}
	if v, ok := snapshot.Int("oxygen_saturation"); ok {
		vitals.OxygenSaturation = &v
	}
	if v, ok := snapshot.Float("weight"); ok {
		vitals.Weight = &v
	}
	if v, ok := snapshot.Float("height"); ok {
		vitals.Height = &v
	}
	if v, ok := snapshot.Float("blood_sugar"); ok {
		vitals.BloodSugar = &v
	}
	if v, ok := snapshot.Int("pain_score"); ok {
		vitals.PainScore = &v
	}
	return vitals
}

func newRecordNumber() string {
	return fmt.Sprintf("MR-%s-%s", time.Now().Format("20060102-150405"), uuid.New().String()[:4])
}
