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

type admissionRepository struct {
	db *sqlx.DB
}

func NewAdmissionRepository(db *sqlx.DB) repository.AdmissionRepository {
	return &admissionRepository{db: db}
}

func (r *admissionRepository) Create(ctx context.Context, admission *model.Admission) error {
	query := `
		INSERT INTO admissions (
			id, admission_number, patient_id, admission_date, admission_type,
			primary_doctor_id, assigned_nurse_id, assigned_bed_id,
			chief_complaint, provisional_diagnosis, final_diagnosis,
			comorbidities, referred_from, referring_doctor, admission_notes,
			status, discharge_date, discharge_type, discharge_summary,
			discharge_instructions, follow_up_instructions, referred_to,
			total_bill_amount, insurance_covered_amount, patient_payable_amount,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :admission_number, :patient_id, :admission_date, :admission_type,
			:primary_doctor_id, :assigned_nurse_id, :assigned_bed_id,
			:chief_complaint, :provisional_diagnosis, :final_diagnosis,
			:comorbidities, :referred_from, :referring_doctor, :admission_notes,
			:status, :discharge_date, :discharge_type, :discharge_summary,
			:discharge_instructions, :follow_up_instructions, :referred_to,
			:total_bill_amount, :insurance_covered_amount, :patient_payable_amount,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	admission.ID = uuid.New()
	admission.CreatedAt = time.Now()
	admission.UpdatedAt = time.Now()
	admission.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, admission); err != nil {
		return fmt.Errorf("failed to create admission: %w", err)
	}
	return nil
}

func (r *admissionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	query := `SELECT * FROM admissions WHERE id = $1`
	var admission model.Admission
	if err := r.db.GetContext(ctx, &admission, query, id); err != nil {
		return nil, fmt.Errorf("failed to get admission: %w", err)
	}
	return &admission, nil
}

func (r *admissionRepository) Update(ctx context.Context, admission *model.Admission) error {
	query := `
		UPDATE admissions SET
			primary_doctor_id = :primary_doctor_id,
			assigned_nurse_id = :assigned_nurse_id,
			assigned_bed_id = :assigned_bed_id,
			provisional_diagnosis = :provisional_diagnosis,
			final_diagnosis = :final_diagnosis,
			comorbidities = :comorbidities,
			admission_notes = :admission_notes,
			status = :status,
			discharge_date = :discharge_date,
			discharge_type = :discharge_type,
			discharge_summary = :discharge_summary,
			discharge_instructions = :discharge_instructions,
			follow_up_instructions = :follow_up_instructions,
			referred_to = :referred_to,
			total_bill_amount = :total_bill_amount,
			insurance_covered_amount = :insurance_covered_amount,
			patient_payable_amount = :patient_payable_amount,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	admission.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, admission)
	if err != nil {
		return fmt.Errorf("failed to update admission: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("admission not found")
	}
	return nil
}

func (r *admissionRepository) List(ctx context.Context, filters *model.AdmissionFilters) ([]*model.Admission, error) {
	query := `SELECT * FROM admissions WHERE is_active = true`
	args := []interface{}{}
	i := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", i)
			args = append(args, filters.PatientID)
			i++
		}
		if filters.DoctorID != uuid.Nil {
			query += fmt.Sprintf(" AND primary_doctor_id = $%d", i)
			args = append(args, filters.DoctorID)
			i++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", i)
			args = append(args, filters.Status)
			i++
		}
	}
	query += " ORDER BY admission_date DESC"
	if filters != nil && filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", i)
		args = append(args, filters.Limit)
	}

	var admissions []*model.Admission
	if err := r.db.SelectContext(ctx, &admissions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list admissions: %w", err)
	}
	return admissions, nil
}

// GetActiveForPatient returns nil, nil when the patient has no open
// admission.
func (r *admissionRepository) GetActiveForPatient(ctx context.Context, patientID uuid.UUID) (*model.Admission, error) {
	query := `
		SELECT * FROM admissions
		WHERE patient_id = $1 AND status = $2 AND is_active = true
		ORDER BY admission_date DESC
		LIMIT 1
	`
	var admission model.Admission
	err := r.db.GetContext(ctx, &admission, query, patientID, model.AdmissionAdmitted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active admission: %w", err)
	}
	return &admission, nil
}

func (r *admissionRepository) AddConsultingDoctor(ctx context.Context, admissionID, doctorID uuid.UUID) error {
	query := `
		INSERT INTO admission_consulting_doctors (admission_id, doctor_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, admissionID, doctorID); err != nil {
		return fmt.Errorf("failed to add consulting doctor: %w", err)
	}
	return nil
}

func (r *admissionRepository) ListConsultingDoctors(ctx context.Context, admissionID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT doctor_id FROM admission_consulting_doctors WHERE admission_id = $1`
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, admissionID); err != nil {
		return nil, fmt.Errorf("failed to list consulting doctors: %w", err)
	}
	return ids, nil
}

func (r *admissionRepository) RecordTransfer(ctx context.Context, transfer *model.BedTransfer) error {
	query := `
		INSERT INTO bed_transfers (
			id, admission_id, from_bed_id, to_bed_id, transfer_date,
			reason_for_transfer, authorized_by, created_at, updated_at, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
	`
	transfer.ID = uuid.New()
	transfer.CreatedAt = time.Now()
	transfer.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		transfer.ID,
		transfer.AdmissionID,
		transfer.FromBedID,
		transfer.ToBedID,
		transfer.TransferDate,
		transfer.Reason,
		transfer.AuthorizedBy,
		transfer.CreatedAt,
		transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record bed transfer: %w", err)
	}
	return nil
}

func (r *admissionRepository) ListTransfers(ctx context.Context, admissionID uuid.UUID) ([]*model.BedTransfer, error) {
	query := `SELECT * FROM bed_transfers WHERE admission_id = $1 ORDER BY transfer_date`
	var transfers []*model.BedTransfer
	if err := r.db.SelectContext(ctx, &transfers, query, admissionID); err != nil {
		return nil, fmt.Errorf("failed to list bed transfers: %w", err)
	}
	return transfers, nil
}
