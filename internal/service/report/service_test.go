package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afyahms/hms-api/internal/model"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type fakeReportRepo struct {
	patients         int
	activeAdmissions int
	departments      int
	beds             int
	availableBeds    int
	appointmentsOn   int
	admissionsOn     int
	dischargesOn     int
	revenue          float64
	outstanding      float64
	pendingLabOrders int
	pendingRx        int
	bodiesInMorgue   int
	trend            []*model.MonthlyCount
	revenueTrend     []*model.MonthlyAmount
	deptAdmissions   []*model.DepartmentAdmissions
	wardOccupancy    []*model.WardOccupancy
}

func (r *fakeReportRepo) CountPatients(ctx context.Context) (int, error) { return r.patients, nil }
func (r *fakeReportRepo) CountActiveAdmissions(ctx context.Context) (int, error) {
	return r.activeAdmissions, nil
}
func (r *fakeReportRepo) CountDepartments(ctx context.Context) (int, error) {
	return r.departments, nil
}
func (r *fakeReportRepo) CountBeds(ctx context.Context) (int, error)          { return r.beds, nil }
func (r *fakeReportRepo) CountAvailableBeds(ctx context.Context) (int, error) { return r.availableBeds, nil }
func (r *fakeReportRepo) CountAppointmentsOn(ctx context.Context, date time.Time) (int, error) {
	return r.appointmentsOn, nil
}
func (r *fakeReportRepo) CountAdmissionsOn(ctx context.Context, date time.Time) (int, error) {
	return r.admissionsOn, nil
}
func (r *fakeReportRepo) CountDischargesOn(ctx context.Context, date time.Time) (int, error) {
	return r.dischargesOn, nil
}
func (r *fakeReportRepo) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return r.revenue, nil
}
func (r *fakeReportRepo) OutstandingBalance(ctx context.Context) (float64, error) {
	return r.outstanding, nil
}
func (r *fakeReportRepo) MonthlyAdmissions(ctx context.Context, months int) ([]*model.MonthlyCount, error) {
	return r.trend, nil
}
func (r *fakeReportRepo) MonthlyRevenue(ctx context.Context, months int) ([]*model.MonthlyAmount, error) {
	return r.revenueTrend, nil
}
func (r *fakeReportRepo) DepartmentAdmissions(ctx context.Context) ([]*model.DepartmentAdmissions, error) {
	return r.deptAdmissions, nil
}
func (r *fakeReportRepo) WardOccupancy(ctx context.Context) ([]*model.WardOccupancy, error) {
	return r.wardOccupancy, nil
}
func (r *fakeReportRepo) CountPendingLabOrders(ctx context.Context) (int, error) {
	return r.pendingLabOrders, nil
}
func (r *fakeReportRepo) CountPendingPrescriptions(ctx context.Context) (int, error) {
	return r.pendingRx, nil
}
func (r *fakeReportRepo) CountBodiesInMorgue(ctx context.Context) (int, error) {
	return r.bodiesInMorgue, nil
}

type fakeUserRepo struct {
	roleCounts []*model.RoleCount
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return nil, apperrors.NotFound("record not found")
}
func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, apperrors.NotFound("record not found")
}
func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return nil
}
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) CountByRole(ctx context.Context) ([]*model.RoleCount, error) {
	return r.roleCounts, nil
}
func (r *fakeUserRepo) RecordLoginAttempt(ctx context.Context, id uuid.UUID, attempts int, locked bool) error {
	return nil
}
func (r *fakeUserRepo) ResetLoginAttempts(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeUserRepo) AssignDepartment(ctx context.Context, assignment *model.StaffDepartmentAssignment) error {
	return nil
}
func (r *fakeUserRepo) ListDepartmentAssignments(ctx context.Context, userID uuid.UUID) ([]*model.StaffDepartmentAssignment, error) {
	return nil, nil
}

type fakeBillRepo struct {
	bills []*model.Bill
}

func (r *fakeBillRepo) Create(ctx context.Context, bill *model.Bill) error { return nil }
func (r *fakeBillRepo) Get(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	return nil, apperrors.NotFound("record not found")
}
func (r *fakeBillRepo) Update(ctx context.Context, bill *model.Bill) error { return nil }
func (r *fakeBillRepo) List(ctx context.Context, filters *model.BillFilters) ([]*model.Bill, error) {
	var bills []*model.Bill
	for _, b := range r.bills {
		if filters.Status != "" && b.Status != filters.Status {
			continue
		}
		if len(filters.Statuses) > 0 {
			match := false
			for _, s := range filters.Statuses {
				if b.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		bills = append(bills, b)
	}
	if filters.Limit > 0 && len(bills) > filters.Limit {
		bills = bills[:filters.Limit]
	}
	return bills, nil
}
func (r *fakeBillRepo) ListItems(ctx context.Context, billID uuid.UUID) ([]*model.BillItem, error) {
	return nil, nil
}
func (r *fakeBillRepo) AddItem(ctx context.Context, item *model.BillItem) error { return nil }
func (r *fakeBillRepo) NextBillNumber(ctx context.Context) (string, error)      { return "BILL-000001", nil }

func TestSnapshotOccupancyRate(t *testing.T) {
	reports := &fakeReportRepo{beds: 120, activeAdmissions: 41}
	svc := NewService(reports, &fakeUserRepo{}, &fakeBillRepo{})

	stats, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	// 41/120 = 34.1666..., rounded to one decimal place.
	assert.Equal(t, 34.2, stats.BedOccupancyRate)
}

func TestSnapshotZeroBeds(t *testing.T) {
	svc := NewService(&fakeReportRepo{}, &fakeUserRepo{}, &fakeBillRepo{})

	stats, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.BedOccupancyRate)
}

func TestSnapshotStaffExcludesAdmins(t *testing.T) {
	users := &fakeUserRepo{
		roleCounts: []*model.RoleCount{
			{Role: model.RoleAdmin, Count: 3},
			{Role: model.RoleMedicalOfficer, Count: 12},
			{Role: model.RoleRegisteredNurse, Count: 40},
		},
	}
	svc := NewService(&fakeReportRepo{}, users, &fakeBillRepo{})

	stats, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 52, stats.TotalStaff)
	require.Len(t, stats.StaffByRole, 2)
	for _, rc := range stats.StaffByRole {
		assert.NotEqual(t, model.RoleAdmin, rc.Role)
	}
}

func TestSnapshotTruncatesBreakdowns(t *testing.T) {
	reports := &fakeReportRepo{}
	for i := 0; i < 8; i++ {
		reports.deptAdmissions = append(reports.deptAdmissions, &model.DepartmentAdmissions{
			Name:         fmt.Sprintf("Department %d", i),
			PatientCount: 100 - i,
		})
		reports.wardOccupancy = append(reports.wardOccupancy, &model.WardOccupancy{
			Name:        fmt.Sprintf("Ward %d", i),
			BedCapacity: 20,
		})
	}
	svc := NewService(reports, &fakeUserRepo{}, &fakeBillRepo{})

	stats, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.DepartmentAdmissions, 5)
	assert.Equal(t, "Department 0", stats.DepartmentAdmissions[0].Name)
	assert.Len(t, stats.WardOccupancy, 6)
}

func TestBillingSummaryLimitsPendingBills(t *testing.T) {
	bills := &fakeBillRepo{}
	for i := 0; i < 14; i++ {
		bill := &model.Bill{Status: model.BillPending}
		bill.ID = uuid.New()
		bills.bills = append(bills.bills, bill)
	}
	svc := NewService(&fakeReportRepo{revenue: 48200}, &fakeUserRepo{}, bills)

	summary, err := svc.BillingSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 48200.0, summary.TodayRevenue)
	assert.Len(t, summary.PendingBills, 10)
}

func TestBillingSummaryIncludesAllCollectibleBills(t *testing.T) {
	bills := &fakeBillRepo{}
	for _, status := range []model.BillStatus{
		model.BillPending,
		model.BillPartiallyPaid,
		model.BillOverdue,
		model.BillFullyPaid,
		model.BillWaived,
		model.BillCancelled,
	} {
		bill := &model.Bill{Status: status}
		bill.ID = uuid.New()
		bills.bills = append(bills.bills, bill)
	}
	svc := NewService(&fakeReportRepo{}, &fakeUserRepo{}, bills)

	summary, err := svc.BillingSummary(context.Background())
	require.NoError(t, err)

	// Settled, waived and cancelled bills owe nothing and stay off the panel.
	require.Len(t, summary.PendingBills, 3)
	for _, bill := range summary.PendingBills {
		assert.Contains(t, []model.BillStatus{
			model.BillPending, model.BillPartiallyPaid, model.BillOverdue,
		}, bill.Status)
	}
}

func TestChartKinds(t *testing.T) {
	reports := &fakeReportRepo{
		trend: []*model.MonthlyCount{{Month: "Mar 2026", Count: 18}},
	}
	svc := NewService(reports, &fakeUserRepo{}, &fakeBillRepo{})

	data, err := svc.Chart(context.Background(), ChartMonthlyAdmissions)
	require.NoError(t, err)
	assert.Equal(t, reports.trend, data)

	_, err = svc.Chart(context.Background(), "revenue_by_planet")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}
