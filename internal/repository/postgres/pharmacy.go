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

type medicineRepository struct {
	BaseRepository
}

func NewMedicineRepository(db *sqlx.DB) repository.MedicineRepository {
	return &medicineRepository{NewBaseRepository(db)}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	query := `
		INSERT INTO medicines (
			id, name, generic_name, brand_name, medicine_code, dosage_form,
			strength, therapeutic_class, pharmacological_class, manufacturer,
			distributor, registration_number, storage_condition,
			storage_location, requires_prescription, is_controlled_substance,
			unit_cost, selling_price, markup_percentage, current_stock,
			minimum_stock_level, maximum_stock_level, reorder_level,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :name, :generic_name, :brand_name, :medicine_code, :dosage_form,
			:strength, :therapeutic_class, :pharmacological_class, :manufacturer,
			:distributor, :registration_number, :storage_condition,
			:storage_location, :requires_prescription, :is_controlled_substance,
			:unit_cost, :selling_price, :markup_percentage, :current_stock,
			:minimum_stock_level, :maximum_stock_level, :reorder_level,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	medicine.ID = uuid.New()
	medicine.CreatedAt = time.Now()
	medicine.UpdatedAt = time.Now()
	medicine.IsActive = true

	if _, err := r.db.NamedExecContext(ctx, query, medicine); err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return nil
}

func (r *medicineRepository) Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	query := `SELECT * FROM medicines WHERE id = $1`
	var medicine model.Medicine
	if err := r.db.GetContext(ctx, &medicine, query, id); err != nil {
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}
	return &medicine, nil
}

func (r *medicineRepository) Update(ctx context.Context, medicine *model.Medicine) error {
	query := `
		UPDATE medicines SET
			name = :name,
			generic_name = :generic_name,
			brand_name = :brand_name,
			storage_location = :storage_location,
			unit_cost = :unit_cost,
			selling_price = :selling_price,
			markup_percentage = :markup_percentage,
			minimum_stock_level = :minimum_stock_level,
			maximum_stock_level = :maximum_stock_level,
			reorder_level = :reorder_level,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	medicine.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, medicine)
	if err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("medicine not found")
	}
	return nil
}

func (r *medicineRepository) List(ctx context.Context, search string) ([]*model.Medicine, error) {
	query := `SELECT * FROM medicines WHERE is_active = true`
	args := []interface{}{}
	if search != "" {
		query += ` AND (name ILIKE $1 OR generic_name ILIKE $1 OR medicine_code ILIKE $1)`
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY name"

	var medicines []*model.Medicine
	if err := r.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, nil
}

func (r *medicineRepository) ListNeedingReorder(ctx context.Context) ([]*model.Medicine, error) {
	query := `
		SELECT * FROM medicines
		WHERE current_stock <= reorder_level AND is_active = true
		ORDER BY current_stock
	`
	var medicines []*model.Medicine
	if err := r.db.SelectContext(ctx, &medicines, query); err != nil {
		return nil, fmt.Errorf("failed to list medicines needing reorder: %w", err)
	}
	return medicines, nil
}

// CreateBatch inserts the batch and adds its quantity to the medicine's
// running stock in one transaction.
func (r *medicineRepository) CreateBatch(ctx context.Context, batch *model.MedicineBatch) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO medicine_batches (
				id, medicine_id, batch_number, manufacture_date, expiry_date,
				quantity_received, quantity_remaining, cost_per_unit, supplier,
				received_date, created_at, updated_at, created_by, updated_by,
				is_active
			) VALUES (
				:id, :medicine_id, :batch_number, :manufacture_date, :expiry_date,
				:quantity_received, :quantity_remaining, :cost_per_unit, :supplier,
				:received_date, :created_at, :updated_at, :created_by, :updated_by,
				:is_active
			)
		`
		batch.ID = uuid.New()
		batch.CreatedAt = time.Now()
		batch.UpdatedAt = time.Now()
		batch.IsActive = true

		if _, err := tx.NamedExecContext(ctx, query, batch); err != nil {
			return fmt.Errorf("failed to create medicine batch: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE medicines
			SET current_stock = current_stock + $1, updated_at = $2
			WHERE id = $3
		`, batch.QuantityReceived, time.Now(), batch.MedicineID); err != nil {
			return fmt.Errorf("failed to update medicine stock: %w", err)
		}
		return nil
	})
}

func (r *medicineRepository) ListBatches(ctx context.Context, medicineID uuid.UUID) ([]*model.MedicineBatch, error) {
	query := `
		SELECT * FROM medicine_batches
		WHERE medicine_id = $1 AND is_active = true
		ORDER BY expiry_date
	`
	var batches []*model.MedicineBatch
	if err := r.db.SelectContext(ctx, &batches, query, medicineID); err != nil {
		return nil, fmt.Errorf("failed to list medicine batches: %w", err)
	}
	return batches, nil
}

func (r *medicineRepository) ListDispensableBatches(ctx context.Context, medicineID uuid.UUID, today time.Time) ([]*model.MedicineBatch, error) {
	query := `
		SELECT * FROM medicine_batches
		WHERE medicine_id = $1
		  AND quantity_remaining > 0
		  AND expiry_date >= $2
		  AND is_active = true
		ORDER BY expiry_date
	`
	var batches []*model.MedicineBatch
	if err := r.db.SelectContext(ctx, &batches, query, medicineID, today); err != nil {
		return nil, fmt.Errorf("failed to list dispensable batches: %w", err)
	}
	return batches, nil
}

func (r *medicineRepository) ListExpiringBatches(ctx context.Context, within time.Duration) ([]*model.MedicineBatch, error) {
	query := `
		SELECT * FROM medicine_batches
		WHERE quantity_remaining > 0
		  AND expiry_date <= $1
		  AND is_active = true
		ORDER BY expiry_date
	`
	cutoff := time.Now().Add(within)
	var batches []*model.MedicineBatch
	if err := r.db.SelectContext(ctx, &batches, query, cutoff); err != nil {
		return nil, fmt.Errorf("failed to list expiring batches: %w", err)
	}
	return batches, nil
}

type prescriptionRepository struct {
	BaseRepository
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{NewBaseRepository(db)}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO prescriptions (
				id, prescription_number, patient_id, doctor_id,
				medical_record_id, prescribed_date, status, diagnosis,
				patient_weight, allergies_noted, special_instructions,
				dispensed_by, dispensing_date, dispensing_notes,
				total_cost, insurance_covered, patient_pays,
				created_at, updated_at, created_by, updated_by, is_active
			) VALUES (
				:id, :prescription_number, :patient_id, :doctor_id,
				:medical_record_id, :prescribed_date, :status, :diagnosis,
				:patient_weight, :allergies_noted, :special_instructions,
				:dispensed_by, :dispensing_date, :dispensing_notes,
				:total_cost, :insurance_covered, :patient_pays,
				:created_at, :updated_at, :created_by, :updated_by, :is_active
			)
		`
		p.ID = uuid.New()
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
		p.IsActive = true

		if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
			return fmt.Errorf("failed to create prescription: %w", err)
		}

		for _, item := range p.Items {
			item.ID = uuid.New()
			item.PrescriptionID = p.ID
			item.CreatedAt = time.Now()
			item.UpdatedAt = time.Now()
			item.IsActive = true
			if err := insertPrescriptionItemTx(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertPrescriptionItemTx(ctx context.Context, tx *sqlx.Tx, item *model.PrescriptionItem) error {
	query := `
		INSERT INTO prescription_items (
			id, prescription_id, medicine_id, quantity_prescribed,
			quantity_dispensed, dosage, frequency, duration,
			route_of_administration, special_instructions,
			batch_dispensed_id, unit_price,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :prescription_id, :medicine_id, :quantity_prescribed,
			:quantity_dispensed, :dosage, :frequency, :duration,
			:route_of_administration, :special_instructions,
			:batch_dispensed_id, :unit_price,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	if _, err := tx.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("failed to create prescription item: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `SELECT * FROM prescriptions WHERE id = $1`
	var p model.Prescription
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	itemsQuery := `SELECT * FROM prescription_items WHERE prescription_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &p.Items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription items: %w", err)
	}
	return &p, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, p *model.Prescription) error {
	query := `
		UPDATE prescriptions SET
			status = :status,
			dispensed_by = :dispensed_by,
			dispensing_date = :dispensing_date,
			dispensing_notes = :dispensing_notes,
			total_cost = :total_cost,
			insurance_covered = :insurance_covered,
			patient_pays = :patient_pays,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	p.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("prescription not found")
	}
	return nil
}

func (r *prescriptionRepository) List(ctx context.Context, patientID *uuid.UUID, status *model.PrescriptionStatus) ([]*model.Prescription, error) {
	query := `SELECT * FROM prescriptions WHERE is_active = true`
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
	query += " ORDER BY prescribed_date DESC"

	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.PrescriptionItem, error) {
	query := `SELECT * FROM prescription_items WHERE id = $1`
	var item model.PrescriptionItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription item: %w", err)
	}
	return &item, nil
}

// Dispense applies the batch draws, item updates and prescription status
// change as one transaction, so stock counts never drift from what was
// actually handed out.
func (r *prescriptionRepository) Dispense(ctx context.Context, p *model.Prescription, items []*model.PrescriptionItem, draws []*model.BatchDraw) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, draw := range draws {
			result, err := tx.ExecContext(ctx, `
				UPDATE medicine_batches
				SET quantity_remaining = quantity_remaining - $1, updated_at = $2
				WHERE id = $3 AND quantity_remaining >= $1
			`, draw.Quantity, time.Now(), draw.BatchID)
			if err != nil {
				return fmt.Errorf("failed to draw from batch: %w", err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if rows == 0 {
				return fmt.Errorf("insufficient stock in batch %s", draw.BatchID)
			}

			if _, err := tx.ExecContext(ctx, `
				UPDATE medicines m
				SET current_stock = GREATEST(m.current_stock - $1, 0), updated_at = $2
				FROM medicine_batches b
				WHERE b.id = $3 AND m.id = b.medicine_id
			`, draw.Quantity, time.Now(), draw.BatchID); err != nil {
				return fmt.Errorf("failed to update medicine stock: %w", err)
			}
		}

		for _, item := range items {
			if _, err := tx.ExecContext(ctx, `
				UPDATE prescription_items
				SET quantity_dispensed = $1,
				    batch_dispensed_id = $2,
				    unit_price = $3,
				    updated_at = $4
				WHERE id = $5
			`, item.QuantityDispensed, item.BatchDispensedID, item.UnitPrice, time.Now(), item.ID); err != nil {
				return fmt.Errorf("failed to update prescription item: %w", err)
			}
		}

		p.UpdatedAt = time.Now()
		if _, err := tx.NamedExecContext(ctx, `
			UPDATE prescriptions SET
				status = :status,
				dispensed_by = :dispensed_by,
				dispensing_date = :dispensing_date,
				dispensing_notes = :dispensing_notes,
				total_cost = :total_cost,
				patient_pays = :patient_pays,
				updated_at = :updated_at
			WHERE id = :id
		`, p); err != nil {
			return fmt.Errorf("failed to update prescription: %w", err)
		}
		return nil
	})
}
