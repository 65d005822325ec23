package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, patient_number, first_name, middle_name, last_name,
			date_of_birth, estimated_age, gender, marital_status,
			national_id, passport_number, birth_certificate_number,
			phone_primary, phone_secondary, email,
			county_id, sub_county_id, ward_location, village,
			physical_address, postal_address,
			next_of_kin_name, next_of_kin_relationship, next_of_kin_phone,
			next_of_kin_id_number, next_of_kin_address,
			blood_group, weight, height, chronic_conditions, allergies,
			medications, disabilities,
			patient_category, registration_date, last_visit_date,
			is_deceased, date_of_death,
			nhif_number, insurance_provider, insurance_number,
			insurance_expiry_date,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :patient_number, :first_name, :middle_name, :last_name,
			:date_of_birth, :estimated_age, :gender, :marital_status,
			:national_id, :passport_number, :birth_certificate_number,
			:phone_primary, :phone_secondary, :email,
			:county_id, :sub_county_id, :ward_location, :village,
			:physical_address, :postal_address,
			:next_of_kin_name, :next_of_kin_relationship, :next_of_kin_phone,
			:next_of_kin_id_number, :next_of_kin_address,
			:blood_group, :weight, :height, :chronic_conditions, :allergies,
			:medications, :disabilities,
			:patient_category, :registration_date, :last_visit_date,
			:is_deceased, :date_of_death,
			:nhif_number, :insurance_provider, :insurance_number,
			:insurance_expiry_date,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()
	patient.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByPatientNumber(ctx context.Context, number string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE patient_number = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, number); err != nil {
		return nil, fmt.Errorf("failed to get patient by number: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			first_name = :first_name,
			middle_name = :middle_name,
			last_name = :last_name,
			marital_status = :marital_status,
			phone_primary = :phone_primary,
			phone_secondary = :phone_secondary,
			email = :email,
			physical_address = :physical_address,
			blood_group = :blood_group,
			weight = :weight,
			height = :height,
			chronic_conditions = :chronic_conditions,
			allergies = :allergies,
			medications = :medications,
			last_visit_date = :last_visit_date,
			is_deceased = :is_deceased,
			date_of_death = :date_of_death,
			nhif_number = :nhif_number,
			insurance_provider = :insurance_provider,
			insurance_number = :insurance_number,
			updated_at = :updated_at,
			updated_by = :updated_by,
			is_active = :is_active
		WHERE id = :id
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("patient not found")
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE patients SET is_active = false, updated_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("patient not found")
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE is_active = true`
	args := []interface{}{}
	i := 1

	if filters != nil {
		if filters.Search != "" {
			query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR patient_number ILIKE $%d OR national_id ILIKE $%d OR phone_primary ILIKE $%d)", i, i, i, i, i)
			args = append(args, "%"+filters.Search+"%")
			i++
		}
		if filters.Category != "" {
			query += fmt.Sprintf(" AND patient_category = $%d", i)
			args = append(args, filters.Category)
			i++
		}
		if filters.IsDeceased != nil {
			query += fmt.Sprintf(" AND is_deceased = $%d", i)
			args = append(args, *filters.IsDeceased)
			i++
		}
	}
	query += " ORDER BY registration_date DESC"
	if filters != nil && filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", i)
		args = append(args, filters.Limit)
	}

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM patients WHERE is_active = true`); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

// NextPatientNumber allocates numbers of the form HMS-YYYY-NNNNNN,
// resetting the sequence each calendar year.
func (r *patientRepository) NextPatientNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("HMS-%d-", year)

	var seq int
	query := `
		SELECT COALESCE(MAX(SUBSTRING(patient_number FROM 10)::int), 0) + 1
		FROM patients
		WHERE patient_number LIKE $1
	`
	if err := r.db.GetContext(ctx, &seq, query, prefix+"%"); err != nil {
		return "", fmt.Errorf("failed to allocate patient number: %w", err)
	}
	return fmt.Sprintf("%s%06d", prefix, seq), nil
}
