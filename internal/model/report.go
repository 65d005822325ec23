package model

// MonthlyAmount is a calendar-month revenue bucket.
type MonthlyAmount struct {
	Month  string  `json:"month" db:"month"`
	Amount float64 `json:"amount" db:"amount"`
}

// DashboardStats is the back-office landing snapshot, recomputed on
// every request.
type DashboardStats struct {
	TotalPatients        int     `json:"total_patients"`
	TotalStaff           int     `json:"total_staff"`
	TotalDepartments     int     `json:"total_departments"`
	TotalBeds            int     `json:"total_beds"`
	AvailableBeds        int     `json:"available_beds"`
	CurrentAdmissions    int     `json:"current_admissions"`
	BedOccupancyRate     float64 `json:"bed_occupancy_rate"`
	TodayAppointments    int     `json:"today_appointments"`
	TodayAdmissions      int     `json:"today_admissions"`
	TodayDischarges      int     `json:"today_discharges"`
	MonthlyRevenue       float64 `json:"monthly_revenue"`
	OutstandingBalance   float64 `json:"outstanding_balance"`
	PendingLabOrders     int     `json:"pending_lab_orders"`
	PendingPrescriptions int     `json:"pending_prescriptions"`
	BodiesInMorgue       int     `json:"bodies_in_morgue"`

	AdmissionTrend       []*MonthlyCount         `json:"admission_trend"`
	DepartmentAdmissions []*DepartmentAdmissions `json:"department_admissions"`
	WardOccupancy        []*WardOccupancy        `json:"ward_occupancy"`
	StaffByRole          []*RoleCount            `json:"staff_by_role"`
}

// BillingSummary is the finance panel of the dashboard.
type BillingSummary struct {
	TodayRevenue   float64          `json:"today_revenue"`
	PendingBills   []*Bill          `json:"pending_bills"`
	MonthlyRevenue []*MonthlyAmount `json:"monthly_revenue"`
}
