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

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, username, password_hash, first_name, last_name, email,
			employee_number, role, secondary_role, national_id,
			phone_primary, phone_secondary, date_of_birth, gender,
			county_of_origin, sub_county, ward, address,
			next_of_kin_name, next_of_kin_relationship, next_of_kin_phone,
			employment_status, employment_date, termination_date,
			kmpdc_license, nck_license, other_licenses,
			login_attempts, last_login_attempt, locked,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :username, :password_hash, :first_name, :last_name, :email,
			:employee_number, :role, :secondary_role, :national_id,
			:phone_primary, :phone_secondary, :date_of_birth, :gender,
			:county_of_origin, :sub_county, :ward, :address,
			:next_of_kin_name, :next_of_kin_relationship, :next_of_kin_phone,
			:employment_status, :employment_date, :termination_date,
			:kmpdc_license, :nck_license, :other_licenses,
			:login_attempts, :last_login_attempt, :locked,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM users WHERE username = $1 AND is_active = true`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			first_name = :first_name,
			last_name = :last_name,
			email = :email,
			role = :role,
			secondary_role = :secondary_role,
			phone_primary = :phone_primary,
			phone_secondary = :phone_secondary,
			address = :address,
			employment_status = :employment_status,
			termination_date = :termination_date,
			kmpdc_license = :kmpdc_license,
			nck_license = :nck_license,
			updated_at = :updated_at,
			updated_by = :updated_by,
			is_active = :is_active
		WHERE id = :id
	`
	user.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET is_active = false, updated_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	query := `SELECT * FROM users WHERE is_active = true`
	args := []interface{}{}
	i := 1

	if filters != nil {
		if filters.Role != "" {
			query += fmt.Sprintf(" AND role = $%d", i)
			args = append(args, filters.Role)
			i++
		}
		if filters.ExcludeRole != "" {
			query += fmt.Sprintf(" AND role != $%d", i)
			args = append(args, filters.ExcludeRole)
			i++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND employment_status = $%d", i)
			args = append(args, filters.Status)
			i++
		}
		if filters.Search != "" {
			query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR username ILIKE $%d OR employee_number ILIKE $%d)", i, i, i, i)
			args = append(args, "%"+filters.Search+"%")
			i++
		}
	}
	query += " ORDER BY last_name, first_name"

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context) ([]*model.RoleCount, error) {
	query := `
		SELECT role, COUNT(*) AS count
		FROM users
		WHERE is_active = true
		GROUP BY role
		ORDER BY count DESC
	`
	var counts []*model.RoleCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	return counts, nil
}

func (r *userRepository) RecordLoginAttempt(ctx context.Context, id uuid.UUID, attempts int, locked bool) error {
	query := `UPDATE users SET login_attempts = $1, last_login_attempt = $2, locked = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, attempts, time.Now(), locked, id); err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}

func (r *userRepository) ResetLoginAttempts(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET login_attempts = 0, locked = false, last_login_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}

func (r *userRepository) AssignDepartment(ctx context.Context, assignment *model.StaffDepartmentAssignment) error {
	query := `
		INSERT INTO staff_department_assignments (
			id, staff_id, department_id, is_primary, assignment_date,
			end_date, position_title, created_at, updated_at, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
	`
	assignment.ID = uuid.New()
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.StaffID,
		assignment.DepartmentID,
		assignment.IsPrimary,
		assignment.AssignmentDate,
		assignment.EndDate,
		assignment.PositionTitle,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to assign department: %w", err)
	}
	return nil
}

func (r *userRepository) ListDepartmentAssignments(ctx context.Context, userID uuid.UUID) ([]*model.StaffDepartmentAssignment, error) {
	query := `
		SELECT * FROM staff_department_assignments
		WHERE staff_id = $1 AND is_active = true
		ORDER BY is_primary DESC, assignment_date DESC
	`
	var assignments []*model.StaffDepartmentAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list department assignments: %w", err)
	}
	return assignments, nil
}
