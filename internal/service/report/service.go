package report

import (
	"context"
	"math"
	"time"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

const (
	trendMonths       = 6
	topDepartments    = 5
	wardRows          = 6
	roleRows          = 6
	pendingBillRows   = 10
	revenueWindowDays = 30
)

// Chart kinds served by the chart-data endpoint.
const (
	ChartMonthlyAdmissions  = "monthly_admissions"
	ChartDepartmentPatients = "department_patients"
	ChartWardOccupancy      = "ward_occupancy"
)

type Service struct {
	reports repository.ReportRepository
	users   repository.UserRepository
	bills   repository.BillRepository
}

func NewService(reports repository.ReportRepository, users repository.UserRepository, bills repository.BillRepository) *Service {
	return &Service{reports: reports, users: users, bills: bills}
}

// Snapshot recomputes the full dashboard from live data. Nothing here is
// cached or stored.
func (s *Service) Snapshot(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	now := time.Now()

	var err error
	if stats.TotalPatients, err = s.reports.CountPatients(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDepartments, err = s.reports.CountDepartments(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBeds, err = s.reports.CountBeds(ctx); err != nil {
		return nil, err
	}
	if stats.AvailableBeds, err = s.reports.CountAvailableBeds(ctx); err != nil {
		return nil, err
	}
	if stats.CurrentAdmissions, err = s.reports.CountActiveAdmissions(ctx); err != nil {
		return nil, err
	}
	if stats.TodayAppointments, err = s.reports.CountAppointmentsOn(ctx, now); err != nil {
		return nil, err
	}
	if stats.TodayAdmissions, err = s.reports.CountAdmissionsOn(ctx, now); err != nil {
		return nil, err
	}
	if stats.TodayDischarges, err = s.reports.CountDischargesOn(ctx, now); err != nil {
		return nil, err
	}
	if stats.MonthlyRevenue, err = s.reports.RevenueBetween(ctx, now.AddDate(0, 0, -revenueWindowDays), now); err != nil {
		return nil, err
	}
	if stats.OutstandingBalance, err = s.reports.OutstandingBalance(ctx); err != nil {
		return nil, err
	}
	if stats.PendingLabOrders, err = s.reports.CountPendingLabOrders(ctx); err != nil {
		return nil, err
	}
	if stats.PendingPrescriptions, err = s.reports.CountPendingPrescriptions(ctx); err != nil {
		return nil, err
	}
	if stats.BodiesInMorgue, err = s.reports.CountBodiesInMorgue(ctx); err != nil {
		return nil, err
	}

	if stats.TotalBeds > 0 {
		rate := float64(stats.CurrentAdmissions) / float64(stats.TotalBeds) * 100
		stats.BedOccupancyRate = math.Round(rate*10) / 10
	}

	roles, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	for _, rc := range roles {
		if rc.Role == model.RoleAdmin {
			continue
		}
		stats.TotalStaff += rc.Count
		if len(stats.StaffByRole) < roleRows {
			stats.StaffByRole = append(stats.StaffByRole, rc)
		}
	}

	if stats.AdmissionTrend, err = s.reports.MonthlyAdmissions(ctx, trendMonths); err != nil {
		return nil, err
	}
	departments, err := s.reports.DepartmentAdmissions(ctx)
	if err != nil {
		return nil, err
	}
	if len(departments) > topDepartments {
		departments = departments[:topDepartments]
	}
	stats.DepartmentAdmissions = departments

	wards, err := s.reports.WardOccupancy(ctx)
	if err != nil {
		return nil, err
	}
	if len(wards) > wardRows {
		wards = wards[:wardRows]
	}
	stats.WardOccupancy = wards

	return stats, nil
}

// BillingSummary is the finance panel: today's takings, the oldest
// uncollected bills, and the revenue trend.
func (s *Service) BillingSummary(ctx context.Context) (*model.BillingSummary, error) {
	summary := &model.BillingSummary{}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var err error
	if summary.TodayRevenue, err = s.reports.RevenueBetween(ctx, today, today.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	collectible := []model.BillStatus{model.BillPending, model.BillPartiallyPaid, model.BillOverdue}
	if summary.PendingBills, err = s.bills.List(ctx, &model.BillFilters{Statuses: collectible, Limit: pendingBillRows}); err != nil {
		return nil, err
	}
	if summary.MonthlyRevenue, err = s.reports.MonthlyRevenue(ctx, trendMonths); err != nil {
		return nil, err
	}
	return summary, nil
}

// Chart returns the data series for one dashboard chart kind.
func (s *Service) Chart(ctx context.Context, kind string) (interface{}, error) {
	switch kind {
	case ChartMonthlyAdmissions:
		return s.reports.MonthlyAdmissions(ctx, trendMonths)
	case ChartDepartmentPatients:
		return s.reports.DepartmentAdmissions(ctx)
	case ChartWardOccupancy:
		return s.reports.WardOccupancy(ctx)
	default:
		return nil, apperrors.BadRequest("Invalid chart type")
	}
}
