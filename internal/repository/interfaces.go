package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
		CountByRole(ctx context.Context) ([]*model.RoleCount, error)
		RecordLoginAttempt(ctx context.Context, id uuid.UUID, attempts int, locked bool) error
		ResetLoginAttempts(ctx context.Context, id uuid.UUID) error
		AssignDepartment(ctx context.Context, assignment *model.StaffDepartmentAssignment) error
		ListDepartmentAssignments(ctx context.Context, userID uuid.UUID) ([]*model.StaffDepartmentAssignment, error)
	}

	GeoRepository interface {
		ListCounties(ctx context.Context) ([]*model.County, error)
		ListSubCounties(ctx context.Context, countyID uuid.UUID) ([]*model.SubCounty, error)
		CreateCounty(ctx context.Context, county *model.County) error
		CreateSubCounty(ctx context.Context, subCounty *model.SubCounty) error
	}

	DepartmentRepository interface {
		Create(ctx context.Context, dept *model.Department) error
		Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
		Update(ctx context.Context, dept *model.Department) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Department, error)
	}

	WardRepository interface {
		Create(ctx context.Context, ward *model.Ward) error
		Get(ctx context.Context, id uuid.UUID) (*model.Ward, error)
		Update(ctx context.Context, ward *model.Ward) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Ward, error)
		CreateBed(ctx context.Context, bed *model.Bed) error
		GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error)
		ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error)
		ListAvailableBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error)

		// AssignBed marks the bed occupied and increments the ward's
		// occupancy counter in a single transaction. It fails if the bed
		// is not available or the ward is full.
		AssignBed(ctx context.Context, bedID uuid.UUID) error
		// ReleaseBed frees the bed and decrements the ward's occupancy
		// counter in a single transaction.
		ReleaseBed(ctx context.Context, bedID uuid.UUID) error
		// TransferBed releases the old bed and assigns the new one
		// atomically, adjusting both wards' occupancy counters.
		TransferBed(ctx context.Context, fromBedID, toBedID uuid.UUID) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByPatientNumber(ctx context.Context, number string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
		Count(ctx context.Context) (int, error)
		NextPatientNumber(ctx context.Context) (string, error)
	}

	AdmissionRepository interface {
		Create(ctx context.Context, admission *model.Admission) error
		Get(ctx context.Context, id uuid.UUID) (*model.Admission, error)
		Update(ctx context.Context, admission *model.Admission) error
		List(ctx context.Context, filters *model.AdmissionFilters) ([]*model.Admission, error)
		GetActiveForPatient(ctx context.Context, patientID uuid.UUID) (*model.Admission, error)
		AddConsultingDoctor(ctx context.Context, admissionID, doctorID uuid.UUID) error
		ListConsultingDoctors(ctx context.Context, admissionID uuid.UUID) ([]uuid.UUID, error)
		RecordTransfer(ctx context.Context, transfer *model.BedTransfer) error
		ListTransfers(ctx context.Context, admissionID uuid.UUID) ([]*model.BedTransfer, error)
	}

	MorgueRepository interface {
		CreateDepartment(ctx context.Context, dept *model.MorgueDepartment) error
		GetDepartment(ctx context.Context, id uuid.UUID) (*model.MorgueDepartment, error)
		ListDepartments(ctx context.Context) ([]*model.MorgueDepartment, error)
		CreateCompartment(ctx context.Context, c *model.MorgueCompartment) error
		GetCompartment(ctx context.Context, id uuid.UUID) (*model.MorgueCompartment, error)
		ListCompartments(ctx context.Context, departmentID uuid.UUID) ([]*model.MorgueCompartment, error)

		// AdmitBody stores the admission and marks the compartment
		// occupied in a single transaction.
		AdmitBody(ctx context.Context, admission *model.MorgueAdmission) error
		GetAdmission(ctx context.Context, id uuid.UUID) (*model.MorgueAdmission, error)
		UpdateAdmission(ctx context.Context, admission *model.MorgueAdmission) error
		ListAdmissions(ctx context.Context, departmentID *uuid.UUID, status *model.BodyStatus) ([]*model.MorgueAdmission, error)
		// ReleaseBody records the release and frees the compartment
		// atomically.
		ReleaseBody(ctx context.Context, admission *model.MorgueAdmission) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		Exists(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error)
		ListForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error)
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
		CreateVitals(ctx context.Context, vitals *model.VitalSigns) error
		ListVitals(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.VitalSigns, error)
		LatestVitals(ctx context.Context, patientID uuid.UUID) (*model.VitalSigns, error)
	}

	MedicineRepository interface {
		Create(ctx context.Context, medicine *model.Medicine) error
		Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
		Update(ctx context.Context, medicine *model.Medicine) error
		List(ctx context.Context, search string) ([]*model.Medicine, error)
		ListNeedingReorder(ctx context.Context) ([]*model.Medicine, error)
		CreateBatch(ctx context.Context, batch *model.MedicineBatch) error
		ListBatches(ctx context.Context, medicineID uuid.UUID) ([]*model.MedicineBatch, error)
		// ListDispensableBatches returns non-expired batches with
		// remaining stock, earliest expiry first.
		ListDispensableBatches(ctx context.Context, medicineID uuid.UUID, today time.Time) ([]*model.MedicineBatch, error)
		ListExpiringBatches(ctx context.Context, within time.Duration) ([]*model.MedicineBatch, error)
	}

	PrescriptionRepository interface {
		// Create stores the prescription and its items in a single
		// transaction.
		Create(ctx context.Context, p *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		Update(ctx context.Context, p *model.Prescription) error
		List(ctx context.Context, patientID *uuid.UUID, status *model.PrescriptionStatus) ([]*model.Prescription, error)
		GetItem(ctx context.Context, id uuid.UUID) (*model.PrescriptionItem, error)
		// Dispense decrements batch quantities, bumps the item's
		// dispensed count and persists the prescription status in one
		// transaction.
		Dispense(ctx context.Context, p *model.Prescription, items []*model.PrescriptionItem, draws []*model.BatchDraw) error
	}

	LabRepository interface {
		CreateLaboratory(ctx context.Context, lab *model.Laboratory) error
		ListLaboratories(ctx context.Context) ([]*model.Laboratory, error)
		CreateTest(ctx context.Context, test *model.LabTest) error
		GetTest(ctx context.Context, id uuid.UUID) (*model.LabTest, error)
		ListTests(ctx context.Context, category *model.TestCategory) ([]*model.LabTest, error)
		CreateOrder(ctx context.Context, order *model.LabOrder) error
		GetOrder(ctx context.Context, id uuid.UUID) (*model.LabOrder, error)
		UpdateOrder(ctx context.Context, order *model.LabOrder) error
		ListOrders(ctx context.Context, patientID *uuid.UUID, status *model.LabOrderStatus) ([]*model.LabOrder, error)
		CreateResult(ctx context.Context, result *model.LabResult) error
		UpdateResult(ctx context.Context, result *model.LabResult) error
		ListResults(ctx context.Context, orderID uuid.UUID) ([]*model.LabResult, error)
	}

	BillRepository interface {
		// Create stores the bill and its items in a single transaction.
		Create(ctx context.Context, bill *model.Bill) error
		Get(ctx context.Context, id uuid.UUID) (*model.Bill, error)
		Update(ctx context.Context, bill *model.Bill) error
		List(ctx context.Context, filters *model.BillFilters) ([]*model.Bill, error)
		ListItems(ctx context.Context, billID uuid.UUID) ([]*model.BillItem, error)
		AddItem(ctx context.Context, item *model.BillItem) error
		NextBillNumber(ctx context.Context) (string, error)
	}

	ReportRepository interface {
		CountPatients(ctx context.Context) (int, error)
		CountActiveAdmissions(ctx context.Context) (int, error)
		CountDepartments(ctx context.Context) (int, error)
		CountBeds(ctx context.Context) (int, error)
		CountAvailableBeds(ctx context.Context) (int, error)
		CountAppointmentsOn(ctx context.Context, date time.Time) (int, error)
		CountAdmissionsOn(ctx context.Context, date time.Time) (int, error)
		CountDischargesOn(ctx context.Context, date time.Time) (int, error)
		RevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
		OutstandingBalance(ctx context.Context) (float64, error)
		// MonthlyAdmissions buckets admissions by true calendar month
		// over the trailing window ending at the given month.
		MonthlyAdmissions(ctx context.Context, months int) ([]*model.MonthlyCount, error)
		MonthlyRevenue(ctx context.Context, months int) ([]*model.MonthlyAmount, error)
		DepartmentAdmissions(ctx context.Context) ([]*model.DepartmentAdmissions, error)
		WardOccupancy(ctx context.Context) ([]*model.WardOccupancy, error)
		CountPendingLabOrders(ctx context.Context) (int, error)
		CountPendingPrescriptions(ctx context.Context) (int, error)
		CountBodiesInMorgue(ctx context.Context) (int, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
