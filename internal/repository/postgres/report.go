package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountPatients(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM patients WHERE is_active = true`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

func (r *reportRepository) CountActiveAdmissions(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM admissions WHERE status = $1 AND is_active = true`
	if err := r.db.GetContext(ctx, &count, query, model.AdmissionAdmitted); err != nil {
		return 0, fmt.Errorf("failed to count active admissions: %w", err)
	}
	return count, nil
}

func (r *reportRepository) CountDepartments(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM departments WHERE is_active = true`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count departments: %w", err)
	}
	return count, nil
}

func (r *reportRepository) CountBeds(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM beds WHERE is_active = true`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count beds: %w", err)
	}
	return count, nil
}

func (r *reportRepository) CountAvailableBeds(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM beds WHERE status = $1 AND is_active = true`
	if err := r.db.GetContext(ctx, &count, query, model.BedAvailable); err != nil {
		return 0, fmt.Errorf("failed to count available beds: %w", err)
	}
	return count, nil
}

func (r *reportRepository) CountAppointmentsOn(ctx context.Context, date time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE appointment_date = $1
		  AND status = ANY($2)
		  AND is_active = true
	`
	statuses := make([]string, 0, len(model.ActiveAppointmentStatuses))
	for _, s := range model.ActiveAppointmentStatuses {
		statuses = append(statuses, string(s))
	}
	if err := r.db.GetContext(ctx, &count, query, date, pq.Array(statuses)); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *reportRepository) CountAdmissionsOn(ctx context.Context, date time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM admissions
		WHERE admission_date::date = $1::date AND is_active = true
	`
	if err := r.db.GetContext(ctx, &count, query, date); err != nil {
		return 0, fmt.Errorf("failed to count admissions on date: %w", err)
	}
	return count, nil
}

func (r *reportRepository) CountDischargesOn(ctx context.Context, date time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM admissions
		WHERE discharge_date::date = $1::date AND is_active = true
	`
	if err := r.db.GetContext(ctx, &count, query, date); err != nil {
		return 0, fmt.Errorf("failed to count discharges on date: %w", err)
	}
	return count, nil
}

// RevenueBetween counts only fully settled bills; open and partial
// bills belong to the outstanding balance, not to revenue.
func (r *reportRepository) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(total_amount), 0) FROM bills
		WHERE status = $1
		  AND bill_date >= $2 AND bill_date < $3
		  AND is_active = true
	`
	if err := r.db.GetContext(ctx, &total, query, model.BillFullyPaid, from, to); err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

func (r *reportRepository) OutstandingBalance(ctx context.Context) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(total_amount - paid_amount), 0) FROM bills
		WHERE status IN ($1, $2, $3) AND is_active = true
	`
	if err := r.db.GetContext(ctx, &total, query, model.BillPending, model.BillPartiallyPaid, model.BillOverdue); err != nil {
		return 0, fmt.Errorf("failed to sum outstanding balance: %w", err)
	}
	return total, nil
}

// MonthlyAdmissions counts admissions per true calendar month, oldest
// first, including empty months within the window.
func (r *reportRepository) MonthlyAdmissions(ctx context.Context, months int) ([]*model.MonthlyCount, error) {
	query := `
		SELECT to_char(m.month, 'Mon YYYY') AS month,
		       COUNT(a.id) AS count
		FROM generate_series(
			date_trunc('month', now()) - ($1 - 1) * interval '1 month',
			date_trunc('month', now()),
			interval '1 month'
		) AS m(month)
		LEFT JOIN admissions a
			ON date_trunc('month', a.admission_date) = m.month
			AND a.is_active = true
		GROUP BY m.month
		ORDER BY m.month
	`
	var counts []*model.MonthlyCount
	if err := r.db.SelectContext(ctx, &counts, query, months); err != nil {
		return nil, fmt.Errorf("failed to count monthly admissions: %w", err)
	}
	return counts, nil
}

// MonthlyRevenue sums fully settled payments per calendar month, oldest
// first, including empty months within the window.
func (r *reportRepository) MonthlyRevenue(ctx context.Context, months int) ([]*model.MonthlyAmount, error) {
	query := `
		SELECT to_char(m.month, 'Mon YYYY') AS month,
		       COALESCE(SUM(b.total_amount), 0) AS amount
		FROM generate_series(
			date_trunc('month', now()) - ($1 - 1) * interval '1 month',
			date_trunc('month', now()),
			interval '1 month'
		) AS m(month)
		LEFT JOIN bills b
			ON date_trunc('month', b.bill_date) = m.month
			AND b.status = $2
			AND b.is_active = true
		GROUP BY m.month
		ORDER BY m.month
	`
	var rows []*model.MonthlyAmount
	if err := r.db.SelectContext(ctx, &rows, query, months, model.BillFullyPaid); err != nil {
		return nil, fmt.Errorf("failed to sum monthly revenue: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) DepartmentAdmissions(ctx context.Context) ([]*model.DepartmentAdmissions, error) {
	query := `
		SELECT d.name, COUNT(a.id) AS patient_count
		FROM departments d
		JOIN wards w ON w.department_id = d.id
		JOIN beds b ON b.ward_id = w.id
		JOIN admissions a ON a.assigned_bed_id = b.id AND a.status = $1
		WHERE d.is_active = true
		GROUP BY d.name
		ORDER BY patient_count DESC
		LIMIT 10
	`
	var rows []*model.DepartmentAdmissions
	if err := r.db.SelectContext(ctx, &rows, query, model.AdmissionAdmitted); err != nil {
		return nil, fmt.Errorf("failed to count department admissions: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) WardOccupancy(ctx context.Context) ([]*model.WardOccupancy, error) {
	query := `
		SELECT name, bed_capacity, current_occupancy
		FROM wards
		WHERE is_active = true
		ORDER BY name
	`
	var rows []*model.WardOccupancy
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to read ward occupancy: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) CountPendingLabOrders(ctx context.Context) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM lab_orders
		WHERE status NOT IN ($1, $2, $3) AND is_active = true
	`
	if err := r.db.GetContext(ctx, &count, query, model.LabOrderReported, model.LabOrderCancelled, model.LabOrderRejected); err != nil {
		return 0, fmt.Errorf("failed to count pending lab orders: %w", err)
	}
	return count, nil
}

func (r *reportRepository) CountPendingPrescriptions(ctx context.Context) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM prescriptions
		WHERE status IN ($1, $2) AND is_active = true
	`
	if err := r.db.GetContext(ctx, &count, query, model.PrescriptionPending, model.PrescriptionPartiallyDispensed); err != nil {
		return 0, fmt.Errorf("failed to count pending prescriptions: %w", err)
	}
	return count, nil
}

func (r *reportRepository) CountBodiesInMorgue(ctx context.Context) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM morgue_admissions
		WHERE status IN ($1, $2) AND is_active = true
	`
	if err := r.db.GetContext(ctx, &count, query, model.BodyStored, model.BodyAutopsy); err != nil {
		return 0, fmt.Errorf("failed to count bodies in morgue: %w", err)
	}
	return count, nil
}
