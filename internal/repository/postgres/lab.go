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

type labRepository struct {
	BaseRepository
}

func NewLabRepository(db *sqlx.DB) repository.LabRepository {
	return &labRepository{NewBaseRepository(db)}
}

func (r *labRepository) CreateLaboratory(ctx context.Context, lab *model.Laboratory) error {
	query := `
		INSERT INTO laboratories (
			id, name, code, department_id, lab_manager_id, location,
			phone_extension, created_at, updated_at, created_by,
			updated_by, is_active
		) VALUES (
			:id, :name, :code, :department_id, :lab_manager_id, :location,
			:phone_extension, :created_at, :updated_at, :created_by,
			:updated_by, :is_active
		)
	`
	lab.ID = uuid.New()
	lab.CreatedAt = time.Now()
	lab.UpdatedAt = time.Now()
	lab.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, lab); err != nil {
		return fmt.Errorf("failed to create laboratory: %w", err)
	}
	return nil
}

func (r *labRepository) ListLaboratories(ctx context.Context) ([]*model.Laboratory, error) {
	query := `SELECT * FROM laboratories WHERE is_active = true ORDER BY name`
	var labs []*model.Laboratory
	if err := r.db.SelectContext(ctx, &labs, query); err != nil {
		return nil, fmt.Errorf("failed to list laboratories: %w", err)
	}
	return labs, nil
}

func (r *labRepository) CreateTest(ctx context.Context, test *model.LabTest) error {
	query := `
		INSERT INTO lab_tests (
			id, test_name, test_code, category, laboratory_id, sample_type,
			sample_volume, container_type, special_requirements,
			normal_range_male, normal_range_female, normal_range_pediatric,
			unit, methodology, turnaround_time, price, is_urgent_available,
			urgent_surcharge, fasting_required, preparation_instructions,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :test_name, :test_code, :category, :laboratory_id, :sample_type,
			:sample_volume, :container_type, :special_requirements,
			:normal_range_male, :normal_range_female, :normal_range_pediatric,
			:unit, :methodology, :turnaround_time, :price, :is_urgent_available,
			:urgent_surcharge, :fasting_required, :preparation_instructions,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	test.ID = uuid.New()
	test.CreatedAt = time.Now()
	test.UpdatedAt = time.Now()
	test.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, test); err != nil {
		return fmt.Errorf("failed to create lab test: %w", err)
	}
	return nil
}

func (r *labRepository) GetTest(ctx context.Context, id uuid.UUID) (*model.LabTest, error) {
	query := `SELECT * FROM lab_tests WHERE id = $1`
	var test model.LabTest
	if err := r.db.GetContext(ctx, &test, query, id); err != nil {
		return nil, fmt.Errorf("failed to get lab test: %w", err)
	}
	return &test, nil
}

func (r *labRepository) ListTests(ctx context.Context, category *model.TestCategory) ([]*model.LabTest, error) {
	query := `SELECT * FROM lab_tests WHERE is_active = true`
	args := []interface{}{}
	if category != nil {
		query += ` AND category = $1`
		args = append(args, *category)
	}
	query += " ORDER BY test_name"

	var tests []*model.LabTest
	if err := r.db.SelectContext(ctx, &tests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list lab tests: %w", err)
	}
	return tests, nil
}

// CreateOrder stores the order with a pending result row per requested
// test, all in one transaction.
func (r *labRepository) CreateOrder(ctx context.Context, order *model.LabOrder) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO lab_orders (
				id, order_number, patient_id, ordering_doctor_id,
				medical_record_id, admission_id, order_date, priority,
				status, clinical_information, provisional_diagnosis,
				sample_collected_date, sample_collected_by,
				sample_received_date, sample_condition,
				analysis_start_date, analysis_completion_date,
				verified_by, verified_date, reported_date, total_cost,
				created_at, updated_at, created_by, updated_by, is_active
			) VALUES (
				:id, :order_number, :patient_id, :ordering_doctor_id,
				:medical_record_id, :admission_id, :order_date, :priority,
				:status, :clinical_information, :provisional_diagnosis,
				:sample_collected_date, :sample_collected_by,
				:sample_received_date, :sample_condition,
				:analysis_start_date, :analysis_completion_date,
				:verified_by, :verified_date, :reported_date, :total_cost,
				:created_at, :updated_at, :created_by, :updated_by, :is_active
			)
		`
		order.ID = uuid.New()
		order.CreatedAt = time.Now()
		order.UpdatedAt = time.Now()
		order.IsActive = true

		if _, err := tx.NamedExecContext(ctx, query, order); err != nil {
			return fmt.Errorf("failed to create lab order: %w", err)
		}

		for _, result := range order.Results {
			result.ID = uuid.New()
			result.LabOrderID = order.ID
			result.CreatedAt = time.Now()
			result.UpdatedAt = time.Now()
			result.IsActive = true
			if result.Status == "" {
				result.Status = model.ResultPending
			}
			if err := insertLabResultTx(ctx, tx, result); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertLabResultTx(ctx context.Context, tx *sqlx.Tx, result *model.LabResult) error {
	query := `
		INSERT INTO lab_results (
			id, lab_order_id, test_id, result_value, reference_range, unit,
			status, is_abnormal, abnormal_flag, interpretation, comments,
			analyzed_by, analysis_date, equipment_used, verified_by,
			verification_date,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :lab_order_id, :test_id, :result_value, :reference_range, :unit,
			:status, :is_abnormal, :abnormal_flag, :interpretation, :comments,
			:analyzed_by, :analysis_date, :equipment_used, :verified_by,
			:verification_date,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	if _, err := tx.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("failed to create lab result: %w", err)
	}
	return nil
}

func (r *labRepository) GetOrder(ctx context.Context, id uuid.UUID) (*model.LabOrder, error) {
	query := `SELECT * FROM lab_orders WHERE id = $1`
	var order model.LabOrder
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, fmt.Errorf("failed to get lab order: %w", err)
	}

	resultsQuery := `SELECT * FROM lab_results WHERE lab_order_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &order.Results, resultsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get lab results: %w", err)
	}
	return &order, nil
}

func (r *labRepository) UpdateOrder(ctx context.Context, order *model.LabOrder) error {
	query := `
		UPDATE lab_orders SET
			priority = :priority,
			status = :status,
			sample_collected_date = :sample_collected_date,
			sample_collected_by = :sample_collected_by,
			sample_received_date = :sample_received_date,
			sample_condition = :sample_condition,
			analysis_start_date = :analysis_start_date,
			analysis_completion_date = :analysis_completion_date,
			verified_by = :verified_by,
			verified_date = :verified_date,
			reported_date = :reported_date,
			total_cost = :total_cost,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	order.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, order)
	if err != nil {
		return fmt.Errorf("failed to update lab order: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("lab order not found")
	}
	return nil
}

func (r *labRepository) ListOrders(ctx context.Context, patientID *uuid.UUID, status *model.LabOrderStatus) ([]*model.LabOrder, error) {
	query := `SELECT * FROM lab_orders WHERE is_active = true`
	args := []interface{}{}
	i := 1

	if patientID != nil {
		query += fmt.Sprintf(" AND patient_id = $%d", i)
		args = append(args, *patientID)
		i++
	}
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, *status)
	}
	query += " ORDER BY order_date DESC"

	var orders []*model.LabOrder
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list lab orders: %w", err)
	}
	return orders, nil
}

func (r *labRepository) CreateResult(ctx context.Context, result *model.LabResult) error {
	result.ID = uuid.New()
	result.CreatedAt = time.Now()
	result.UpdatedAt = time.Now()
	result.IsActive = true
	if result.Status == "" {
		result.Status = model.ResultPending
	}
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertLabResultTx(ctx, tx, result)
	})
}

func (r *labRepository) UpdateResult(ctx context.Context, result *model.LabResult) error {
	query := `
		UPDATE lab_results SET
			result_value = :result_value,
			reference_range = :reference_range,
			unit = :unit,
			status = :status,
			is_abnormal = :is_abnormal,
			abnormal_flag = :abnormal_flag,
			interpretation = :interpretation,
			comments = :comments,
			analyzed_by = :analyzed_by,
			analysis_date = :analysis_date,
			equipment_used = :equipment_used,
			verified_by = :verified_by,
			verification_date = :verification_date,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	result.UpdatedAt = time.Now()

	res, err := r.db.NamedExecContext(ctx, query, result)
	if err != nil {
		return fmt.Errorf("failed to update lab result: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("lab result not found")
	}
	return nil
}

func (r *labRepository) ListResults(ctx context.Context, orderID uuid.UUID) ([]*model.LabResult, error) {
	query := `SELECT * FROM lab_results WHERE lab_order_id = $1 ORDER BY created_at`
	var results []*model.LabResult
	if err := r.db.SelectContext(ctx, &results, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list lab results: %w", err)
	}
	return results, nil
}
