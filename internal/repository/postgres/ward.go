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

type wardRepository struct {
	BaseRepository
}

func NewWardRepository(db *sqlx.DB) repository.WardRepository {
	return &wardRepository{NewBaseRepository(db)}
}

func (r *wardRepository) Create(ctx context.Context, ward *model.Ward) error {
	query := `
		INSERT INTO wards (
			id, name, code, ward_type, department_id, location_building,
			location_floor, bed_capacity, current_occupancy, nurse_in_charge,
			daily_rate, amenities, visiting_hours,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :name, :code, :ward_type, :department_id, :location_building,
			:location_floor, :bed_capacity, :current_occupancy, :nurse_in_charge,
			:daily_rate, :amenities, :visiting_hours,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	ward.ID = uuid.New()
	ward.CreatedAt = time.Now()
	ward.UpdatedAt = time.Now()
	ward.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, ward); err != nil {
		return fmt.Errorf("failed to create ward: %w", err)
	}
	return nil
}

func (r *wardRepository) Get(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	query := `SELECT * FROM wards WHERE id = $1`
	var ward model.Ward
	if err := r.db.GetContext(ctx, &ward, query, id); err != nil {
		return nil, fmt.Errorf("failed to get ward: %w", err)
	}
	return &ward, nil
}

func (r *wardRepository) Update(ctx context.Context, ward *model.Ward) error {
	query := `
		UPDATE wards SET
			name = :name,
			ward_type = :ward_type,
			location_building = :location_building,
			location_floor = :location_floor,
			bed_capacity = :bed_capacity,
			nurse_in_charge = :nurse_in_charge,
			daily_rate = :daily_rate,
			amenities = :amenities,
			visiting_hours = :visiting_hours,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	ward.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, ward)
	if err != nil {
		return fmt.Errorf("failed to update ward: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ward not found")
	}
	return nil
}

func (r *wardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE wards SET is_active = false, updated_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete ward: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ward not found")
	}
	return nil
}

func (r *wardRepository) List(ctx context.Context) ([]*model.Ward, error) {
	query := `SELECT * FROM wards WHERE is_active = true ORDER BY name`
	var wards []*model.Ward
	if err := r.db.SelectContext(ctx, &wards, query); err != nil {
		return nil, fmt.Errorf("failed to list wards: %w", err)
	}
	return wards, nil
}

func (r *wardRepository) CreateBed(ctx context.Context, bed *model.Bed) error {
	query := `
		INSERT INTO beds (
			id, bed_number, ward_id, bed_type, status, last_sanitized,
			equipment_attached, created_at, updated_at, created_by,
			updated_by, is_active
		) VALUES (
			:id, :bed_number, :ward_id, :bed_type, :status, :last_sanitized,
			:equipment_attached, :created_at, :updated_at, :created_by,
			:updated_by, :is_active
		)
	`
	bed.ID = uuid.New()
	bed.CreatedAt = time.Now()
	bed.UpdatedAt = time.Now()
	bed.IsActive = true
	if bed.Status == "" {
		bed.Status = model.BedAvailable
	}

	if _, err := r.db.NamedExecContext(ctx, query, bed); err != nil {
		return fmt.Errorf("failed to create bed: %w", err)
	}
	return nil
}

func (r *wardRepository) GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	query := `SELECT * FROM beds WHERE id = $1`
	var bed model.Bed
	if err := r.db.GetContext(ctx, &bed, query, id); err != nil {
		return nil, fmt.Errorf("failed to get bed: %w", err)
	}
	return &bed, nil
}

func (r *wardRepository) ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	query := `SELECT * FROM beds WHERE ward_id = $1 AND is_active = true ORDER BY bed_number`
	var beds []*model.Bed
	if err := r.db.SelectContext(ctx, &beds, query, wardID); err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	return beds, nil
}

func (r *wardRepository) ListAvailableBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	query := `
		SELECT * FROM beds
		WHERE ward_id = $1 AND status = $2 AND is_active = true
		ORDER BY bed_number
	`
	var beds []*model.Bed
	if err := r.db.SelectContext(ctx, &beds, query, wardID, model.BedAvailable); err != nil {
		return nil, fmt.Errorf("failed to list available beds: %w", err)
	}
	return beds, nil
}

func (r *wardRepository) AssignBed(ctx context.Context, bedID uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return assignBedTx(ctx, tx, bedID)
	})
}

func (r *wardRepository) ReleaseBed(ctx context.Context, bedID uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return releaseBedTx(ctx, tx, bedID)
	})
}

func (r *wardRepository) TransferBed(ctx context.Context, fromBedID, toBedID uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := releaseBedTx(ctx, tx, fromBedID); err != nil {
			return err
		}
		return assignBedTx(ctx, tx, toBedID)
	})
}

// assignBedTx flips the bed to occupied and bumps its ward's occupancy
// counter, guarding both against the ward's capacity. The bed row is
// locked first so concurrent assigns serialize on it.
func assignBedTx(ctx context.Context, tx *sqlx.Tx, bedID uuid.UUID) error {
	var bed model.Bed
	if err := tx.GetContext(ctx, &bed, `SELECT * FROM beds WHERE id = $1 FOR UPDATE`, bedID); err != nil {
		return fmt.Errorf("failed to lock bed: %w", err)
	}
	if bed.Status != model.BedAvailable {
		return fmt.Errorf("bed %s is not available", bed.BedNumber)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE wards
		SET current_occupancy = current_occupancy + 1, updated_at = $1
		WHERE id = $2 AND current_occupancy < bed_capacity
	`, time.Now(), bed.WardID)
	if err != nil {
		return fmt.Errorf("failed to increment ward occupancy: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ward is at full capacity")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE beds SET status = $1, updated_at = $2 WHERE id = $3`,
		model.BedOccupied, time.Now(), bedID,
	); err != nil {
		return fmt.Errorf("failed to occupy bed: %w", err)
	}
	return nil
}

func releaseBedTx(ctx context.Context, tx *sqlx.Tx, bedID uuid.UUID) error {
	var bed model.Bed
	if err := tx.GetContext(ctx, &bed, `SELECT * FROM beds WHERE id = $1 FOR UPDATE`, bedID); err != nil {
		return fmt.Errorf("failed to lock bed: %w", err)
	}
	if bed.Status != model.BedOccupied {
		return fmt.Errorf("bed %s is not occupied", bed.BedNumber)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE wards
		SET current_occupancy = GREATEST(current_occupancy - 1, 0), updated_at = $1
		WHERE id = $2
	`, time.Now(), bed.WardID); err != nil {
		return fmt.Errorf("failed to decrement ward occupancy: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE beds SET status = $1, updated_at = $2 WHERE id = $3`,
		model.BedAvailable, time.Now(), bedID,
	); err != nil {
		return fmt.Errorf("failed to free bed: %w", err)
	}
	return nil
}
