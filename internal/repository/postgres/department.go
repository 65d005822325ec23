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

type departmentRepository struct {
	db *sqlx.DB
}

func NewDepartmentRepository(db *sqlx.DB) repository.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) error {
	query := `
		INSERT INTO departments (
			id, name, code, department_type, description,
			head_of_department, deputy_head, location_building,
			location_floor, location_wing, phone_extension, email,
			established_date, bed_capacity, staff_capacity,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :name, :code, :department_type, :description,
			:head_of_department, :deputy_head, :location_building,
			:location_floor, :location_wing, :phone_extension, :email,
			:established_date, :bed_capacity, :staff_capacity,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	dept.ID = uuid.New()
	dept.CreatedAt = time.Now()
	dept.UpdatedAt = time.Now()
	dept.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := `SELECT * FROM departments WHERE id = $1`
	var dept model.Department
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

func (r *departmentRepository) Update(ctx context.Context, dept *model.Department) error {
	query := `
		UPDATE departments SET
			name = :name,
			description = :description,
			head_of_department = :head_of_department,
			deputy_head = :deputy_head,
			location_building = :location_building,
			location_floor = :location_floor,
			location_wing = :location_wing,
			phone_extension = :phone_extension,
			email = :email,
			bed_capacity = :bed_capacity,
			staff_capacity = :staff_capacity,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	dept.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, dept)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("department not found")
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE departments SET is_active = false, updated_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("department not found")
	}
	return nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	query := `SELECT * FROM departments WHERE is_active = true ORDER BY name`
	var depts []*model.Department
	if err := r.db.SelectContext(ctx, &depts, query); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}
