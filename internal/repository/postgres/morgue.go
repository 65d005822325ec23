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

type morgueRepository struct {
	BaseRepository
}

func NewMorgueRepository(db *sqlx.DB) repository.MorgueRepository {
	return &morgueRepository{NewBaseRepository(db)}
}

func (r *morgueRepository) CreateDepartment(ctx context.Context, dept *model.MorgueDepartment) error {
	query := `
		INSERT INTO morgue_departments (
			id, name, location_building, location_floor, capacity,
			current_occupancy, manager_id, phone_extension,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :name, :location_building, :location_floor, :capacity,
			:current_occupancy, :manager_id, :phone_extension,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	dept.ID = uuid.New()
	dept.CreatedAt = time.Now()
	dept.UpdatedAt = time.Now()
	dept.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		return fmt.Errorf("failed to create morgue department: %w", err)
	}
	return nil
}

func (r *morgueRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*model.MorgueDepartment, error) {
	query := `SELECT * FROM morgue_departments WHERE id = $1`
	var dept model.MorgueDepartment
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		return nil, fmt.Errorf("failed to get morgue department: %w", err)
	}
	return &dept, nil
}

func (r *morgueRepository) ListDepartments(ctx context.Context) ([]*model.MorgueDepartment, error) {
	query := `SELECT * FROM morgue_departments WHERE is_active = true ORDER BY name`
	var depts []*model.MorgueDepartment
	if err := r.db.SelectContext(ctx, &depts, query); err != nil {
		return nil, fmt.Errorf("failed to list morgue departments: %w", err)
	}
	return depts, nil
}

func (r *morgueRepository) CreateCompartment(ctx context.Context, c *model.MorgueCompartment) error {
	query := `
		INSERT INTO morgue_compartments (
			id, compartment_number, morgue_id, status, temperature,
			last_sanitized, created_at, updated_at, created_by,
			updated_by, is_active
		) VALUES (
			:id, :compartment_number, :morgue_id, :status, :temperature,
			:last_sanitized, :created_at, :updated_at, :created_by,
			:updated_by, :is_active
		)
	`
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	c.IsActive = true
	if c.Status == "" {
		c.Status = model.CompartmentAvailable
	}

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to create morgue compartment: %w", err)
	}
	return nil
}

func (r *morgueRepository) GetCompartment(ctx context.Context, id uuid.UUID) (*model.MorgueCompartment, error) {
	query := `SELECT * FROM morgue_compartments WHERE id = $1`
	var c model.MorgueCompartment
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, fmt.Errorf("failed to get morgue compartment: %w", err)
	}
	return &c, nil
}

func (r *morgueRepository) ListCompartments(ctx context.Context, departmentID uuid.UUID) ([]*model.MorgueCompartment, error) {
	query := `
		SELECT * FROM morgue_compartments
		WHERE morgue_id = $1 AND is_active = true
		ORDER BY compartment_number
	`
	var compartments []*model.MorgueCompartment
	if err := r.db.SelectContext(ctx, &compartments, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list morgue compartments: %w", err)
	}
	return compartments, nil
}

func (r *morgueRepository) AdmitBody(ctx context.Context, admission *model.MorgueAdmission) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if admission.AssignedCompartmentID != nil {
			if err := occupyCompartmentTx(ctx, tx, *admission.AssignedCompartmentID); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO morgue_admissions (
				id, morgue_number, patient_id, hospital_admission_id,
				date_of_death, place_of_death, cause_of_death, death_type,
				certifying_doctor, assigned_compartment_id,
				admission_to_morgue_date, body_condition, personal_effects,
				identification_marks, death_certificate_issued,
				death_certificate_number, police_case_number,
				requires_autopsy, autopsy_completed, autopsy_report,
				status, release_date, released_to_name,
				released_to_relationship, released_to_id_number,
				released_to_phone, release_authorization,
				morgue_charges, autopsy_charges, certificate_charges,
				total_charges,
				created_at, updated_at, created_by, updated_by, is_active
			) VALUES (
				:id, :morgue_number, :patient_id, :hospital_admission_id,
				:date_of_death, :place_of_death, :cause_of_death, :death_type,
				:certifying_doctor, :assigned_compartment_id,
				:admission_to_morgue_date, :body_condition, :personal_effects,
				:identification_marks, :death_certificate_issued,
				:death_certificate_number, :police_case_number,
				:requires_autopsy, :autopsy_completed, :autopsy_report,
				:status, :release_date, :released_to_name,
				:released_to_relationship, :released_to_id_number,
				:released_to_phone, :release_authorization,
				:morgue_charges, :autopsy_charges, :certificate_charges,
				:total_charges,
				:created_at, :updated_at, :created_by, :updated_by, :is_active
			)
		`
		admission.ID = uuid.New()
		admission.CreatedAt = time.Now()
		admission.UpdatedAt = time.Now()
		admission.IsActive = true

		if _, err := tx.NamedExecContext(ctx, query, admission); err != nil {
			return fmt.Errorf("failed to create morgue admission: %w", err)
		}
		return nil
	})
}

func (r *morgueRepository) GetAdmission(ctx context.Context, id uuid.UUID) (*model.MorgueAdmission, error) {
	query := `SELECT * FROM morgue_admissions WHERE id = $1`
	var admission model.MorgueAdmission
	if err := r.db.GetContext(ctx, &admission, query, id); err != nil {
		return nil, fmt.Errorf("failed to get morgue admission: %w", err)
	}
	return &admission, nil
}

func (r *morgueRepository) UpdateAdmission(ctx context.Context, admission *model.MorgueAdmission) error {
	query := `
		UPDATE morgue_admissions SET
			assigned_compartment_id = :assigned_compartment_id,
			body_condition = :body_condition,
			death_certificate_issued = :death_certificate_issued,
			death_certificate_number = :death_certificate_number,
			police_case_number = :police_case_number,
			requires_autopsy = :requires_autopsy,
			autopsy_completed = :autopsy_completed,
			autopsy_report = :autopsy_report,
			status = :status,
			release_date = :release_date,
			released_to_name = :released_to_name,
			released_to_relationship = :released_to_relationship,
			released_to_id_number = :released_to_id_number,
			released_to_phone = :released_to_phone,
			release_authorization = :release_authorization,
			morgue_charges = :morgue_charges,
			autopsy_charges = :autopsy_charges,
			certificate_charges = :certificate_charges,
			total_charges = :total_charges,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	admission.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, admission)
	if err != nil {
		return fmt.Errorf("failed to update morgue admission: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("morgue admission not found")
	}
	return nil
}

func (r *morgueRepository) ListAdmissions(ctx context.Context, departmentID *uuid.UUID, status *model.BodyStatus) ([]*model.MorgueAdmission, error) {
	query := `
		SELECT ma.* FROM morgue_admissions ma
		LEFT JOIN morgue_compartments mc ON mc.id = ma.assigned_compartment_id
		WHERE ma.is_active = true
	`
	args := []interface{}{}
	i := 1

	if departmentID != nil {
		query += fmt.Sprintf(" AND mc.morgue_id = $%d", i)
		args = append(args, *departmentID)
		i++
	}
	if status != nil {
		query += fmt.Sprintf(" AND ma.status = $%d", i)
		args = append(args, *status)
	}
	query += " ORDER BY ma.admission_to_morgue_date DESC"

	var admissions []*model.MorgueAdmission
	if err := r.db.SelectContext(ctx, &admissions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list morgue admissions: %w", err)
	}
	return admissions, nil
}

func (r *morgueRepository) ReleaseBody(ctx context.Context, admission *model.MorgueAdmission) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if admission.AssignedCompartmentID != nil {
			if err := freeCompartmentTx(ctx, tx, *admission.AssignedCompartmentID); err != nil {
				return err
			}
		}

		query := `
			UPDATE morgue_admissions SET
				status = $1,
				release_date = $2,
				released_to_name = $3,
				released_to_relationship = $4,
				released_to_id_number = $5,
				released_to_phone = $6,
				release_authorization = $7,
				total_charges = $8,
				updated_at = $9
			WHERE id = $10
		`
		_, err := tx.ExecContext(ctx, query,
			admission.Status,
			admission.ReleaseDate,
			admission.ReleasedToName,
			admission.ReleasedToRelationship,
			admission.ReleasedToIDNumber,
			admission.ReleasedToPhone,
			admission.ReleaseAuthorization,
			admission.TotalCharges,
			time.Now(),
			admission.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to release body: %w", err)
		}
		return nil
	})
}

func occupyCompartmentTx(ctx context.Context, tx *sqlx.Tx, compartmentID uuid.UUID) error {
	var c model.MorgueCompartment
	if err := tx.GetContext(ctx, &c, `SELECT * FROM morgue_compartments WHERE id = $1 FOR UPDATE`, compartmentID); err != nil {
		return fmt.Errorf("failed to lock compartment: %w", err)
	}
	if c.Status != model.CompartmentAvailable {
		return fmt.Errorf("compartment %s is not available", c.CompartmentNumber)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE morgue_departments
		SET current_occupancy = current_occupancy + 1, updated_at = $1
		WHERE id = $2 AND current_occupancy < capacity
	`, time.Now(), c.MorgueID)
	if err != nil {
		return fmt.Errorf("failed to increment morgue occupancy: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("morgue is at full capacity")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE morgue_compartments SET status = $1, updated_at = $2 WHERE id = $3`,
		model.CompartmentOccupied, time.Now(), compartmentID,
	); err != nil {
		return fmt.Errorf("failed to occupy compartment: %w", err)
	}
	return nil
}

func freeCompartmentTx(ctx context.Context, tx *sqlx.Tx, compartmentID uuid.UUID) error {
	var c model.MorgueCompartment
	if err := tx.GetContext(ctx, &c, `SELECT * FROM morgue_compartments WHERE id = $1 FOR UPDATE`, compartmentID); err != nil {
		return fmt.Errorf("failed to lock compartment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE morgue_departments
		SET current_occupancy = GREATEST(current_occupancy - 1, 0), updated_at = $1
		WHERE id = $2
	`, time.Now(), c.MorgueID); err != nil {
		return fmt.Errorf("failed to decrement morgue occupancy: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE morgue_compartments SET status = $1, updated_at = $2 WHERE id = $3`,
		model.CompartmentAvailable, time.Now(), compartmentID,
	); err != nil {
		return fmt.Errorf("failed to free compartment: %w", err)
	}
	return nil
}
