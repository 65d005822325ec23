package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
)

type medicalRecordRepository struct {
	db *sqlx.DB
}

func NewMedicalRecordRepository(db *sqlx.DB) repository.MedicalRecordRepository {
	return &medicalRecordRepository{db: db}
}

func (r *medicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (
			id, record_number, patient_id, doctor_id, department_id,
			appointment_id, admission_id, record_date, record_type,
			chief_complaint, history_of_presenting_illness,
			past_medical_history, family_history, social_history,
			drug_history, allergies, general_appearance,
			systemic_examination, investigations_ordered,
			investigation_results, provisional_diagnosis,
			differential_diagnosis, final_diagnosis, icd_10_codes,
			treatment_plan, medications_prescribed, procedures_performed,
			follow_up_instructions, follow_up_date, referrals_made,
			patient_education, is_confidential, access_restrictions,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :record_number, :patient_id, :doctor_id, :department_id,
			:appointment_id, :admission_id, :record_date, :record_type,
			:chief_complaint, :history_of_presenting_illness,
			:past_medical_history, :family_history, :social_history,
			:drug_history, :allergies, :general_appearance,
			:systemic_examination, :investigations_ordered,
			:investigation_results, :provisional_diagnosis,
			:differential_diagnosis, :final_diagnosis, :icd_10_codes,
			:treatment_plan, :medications_prescribed, :procedures_performed,
			:follow_up_instructions, :follow_up_date, :referrals_made,
			:patient_education, :is_confidential, :access_restrictions,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	record.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func (r *medicalRecordRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	query := `SELECT * FROM medical_records WHERE id = $1`
	var record model.MedicalRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return &record, nil
}

func (r *medicalRecordRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	query := `
		SELECT * FROM medical_records
		WHERE patient_id = $1 AND is_active = true
		ORDER BY record_date DESC
	`
	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (r *medicalRecordRepository) CreateVitals(ctx context.Context, vitals *model.VitalSigns) error {
	query := `
		INSERT INTO vital_signs (
			id, patient_id, medical_record_id, admission_id, recorded_by,
			recorded_date, temperature, systolic_bp, diastolic_bp,
			pulse_rate, respiratory_rate, oxygen_saturation, weight,
			height, blood_sugar, pain_score, notes,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :patient_id, :medical_record_id, :admission_id, :recorded_by,
			:recorded_date, :temperature, :systolic_bp, :diastolic_bp,
			:pulse_rate, :respiratory_rate, :oxygen_saturation, :weight,
			:height, :blood_sugar, :pain_score, :notes,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	vitals.ID = uuid.New()
	vitals.CreatedAt = time.Now()
	vitals.UpdatedAt = time.Now()
	vitals.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, vitals); err != nil {
		return fmt.Errorf("failed to create vital signs: %w", err)
	}
	return nil
}

func (r *medicalRecordRepository) ListVitals(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.VitalSigns, error) {
	query := `
		SELECT * FROM vital_signs
		WHERE patient_id = $1 AND is_active = true
		ORDER BY recorded_date DESC
	`
	args := []interface{}{patientID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var vitals []*model.VitalSigns
	if err := r.db.SelectContext(ctx, &vitals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list vital signs: %w", err)
	}
	return vitals, nil
}

// LatestVitals returns nil, nil when no observations exist.
func (r *medicalRecordRepository) LatestVitals(ctx context.Context, patientID uuid.UUID) (*model.VitalSigns, error) {
	query := `
		SELECT * FROM vital_signs
		WHERE patient_id = $1 AND is_active = true
		ORDER BY recorded_date DESC
		LIMIT 1
	`
	var vitals model.VitalSigns
	err := r.db.GetContext(ctx, &vitals, query, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest vital signs: %w", err)
	}
	return &vitals, nil
}
