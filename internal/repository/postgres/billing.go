package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
)

type billRepository struct {
	BaseRepository
}

func NewBillRepository(db *sqlx.DB) repository.BillRepository {
	return &billRepository{NewBaseRepository(db)}
}

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO bills (
				id, bill_number, patient_id, admission_id, appointment_id,
				bill_date, bill_type, due_date, status, subtotal,
				discount_amount, discount_percentage, tax_amount,
				total_amount, paid_amount, insurance_claim_number,
				insurance_approved_amount, insurance_paid_amount,
				generated_by, approved_by, notes,
				created_at, updated_at, created_by, updated_by, is_active
			) VALUES (
				:id, :bill_number, :patient_id, :admission_id, :appointment_id,
				:bill_date, :bill_type, :due_date, :status, :subtotal,
				:discount_amount, :discount_percentage, :tax_amount,
				:total_amount, :paid_amount, :insurance_claim_number,
				:insurance_approved_amount, :insurance_paid_amount,
				:generated_by, :approved_by, :notes,
				:created_at, :updated_at, :created_by, :updated_by, :is_active
			)
		`
		bill.ID = uuid.New()
		bill.CreatedAt = time.Now()
		bill.UpdatedAt = time.Now()
		bill.IsActive = true

		if _, err := tx.NamedExecContext(ctx, query, bill); err != nil {
			return fmt.Errorf("failed to create bill: %w", err)
		}

		for _, item := range bill.Items {
			item.ID = uuid.New()
			item.BillID = bill.ID
			item.CreatedAt = time.Now()
			item.UpdatedAt = time.Now()
			item.IsActive = true
			if err := insertBillItemTx(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertBillItemTx(ctx context.Context, tx *sqlx.Tx, item *model.BillItem) error {
	query := `
		INSERT INTO bill_items (
			id, bill_id, item_code, description, category, service_date,
			quantity, unit_price,
			created_at, updated_at, created_by, updated_by, is_active
		) VALUES (
			:id, :bill_id, :item_code, :description, :category, :service_date,
			:quantity, :unit_price,
			:created_at, :updated_at, :created_by, :updated_by, :is_active
		)
	`
	if _, err := tx.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("failed to create bill item: %w", err)
	}
	return nil
}

func (r *billRepository) Get(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	query := `SELECT * FROM bills WHERE id = $1`
	var bill model.Bill
	if err := r.db.GetContext(ctx, &bill, query, id); err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	itemsQuery := `SELECT * FROM bill_items WHERE bill_id = $1 ORDER BY service_date`
	if err := r.db.SelectContext(ctx, &bill.Items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get bill items: %w", err)
	}
	return &bill, nil
}

func (r *billRepository) Update(ctx context.Context, bill *model.Bill) error {
	query := `
		UPDATE bills SET
			status = :status,
			subtotal = :subtotal,
			discount_amount = :discount_amount,
			discount_percentage = :discount_percentage,
			tax_amount = :tax_amount,
			total_amount = :total_amount,
			paid_amount = :paid_amount,
			insurance_claim_number = :insurance_claim_number,
			insurance_approved_amount = :insurance_approved_amount,
			insurance_paid_amount = :insurance_paid_amount,
			approved_by = :approved_by,
			notes = :notes,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`
	bill.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, bill)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bill not found")
	}
	return nil
}

func (r *billRepository) List(ctx context.Context, filters *model.BillFilters) ([]*model.Bill, error) {
	query := `SELECT * FROM bills WHERE is_active = true`
	args := []interface{}{}
	i := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", i)
			args = append(args, filters.PatientID)
			i++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", i)
			args = append(args, filters.Status)
			i++
		}
		if len(filters.Statuses) > 0 {
			statuses := make([]string, len(filters.Statuses))
			for j, s := range filters.Statuses {
				statuses[j] = string(s)
			}
			query += fmt.Sprintf(" AND status = ANY($%d)", i)
			args = append(args, pq.Array(statuses))
			i++
		}
	}
	query += " ORDER BY bill_date DESC"
	if filters != nil && filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", i)
		args = append(args, filters.Limit)
	}

	var bills []*model.Bill
	if err := r.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (r *billRepository) ListItems(ctx context.Context, billID uuid.UUID) ([]*model.BillItem, error) {
	query := `SELECT * FROM bill_items WHERE bill_id = $1 ORDER BY service_date`
	var items []*model.BillItem
	if err := r.db.SelectContext(ctx, &items, query, billID); err != nil {
		return nil, fmt.Errorf("failed to list bill items: %w", err)
	}
	return items, nil
}

// AddItem appends an item and folds its amount into the bill's subtotal
// and total in the same transaction.
func (r *billRepository) AddItem(ctx context.Context, item *model.BillItem) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		item.ID = uuid.New()
		item.CreatedAt = time.Now()
		item.UpdatedAt = time.Now()
		item.IsActive = true
		if err := insertBillItemTx(ctx, tx, item); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bills
			SET subtotal = subtotal + $1,
			    total_amount = total_amount + $1,
			    updated_at = $2
			WHERE id = $3
		`, item.Amount(), time.Now(), item.BillID); err != nil {
			return fmt.Errorf("failed to update bill totals: %w", err)
		}
		return nil
	})
}

// NextBillNumber allocates numbers of the form BILL-YYYY-NNNNNN,
// resetting the sequence each calendar year.
func (r *billRepository) NextBillNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("BILL-%d-", year)

	var seq int
	query := `
		SELECT COALESCE(MAX(SUBSTRING(bill_number FROM 11)::int), 0) + 1
		FROM bills
		WHERE bill_number LIKE $1
	`
	if err := r.db.GetContext(ctx, &seq, query, prefix+"%"); err != nil {
		return "", fmt.Errorf("failed to allocate bill number: %w", err)
	}
	return fmt.Sprintf("%s%06d", prefix, seq), nil
}
