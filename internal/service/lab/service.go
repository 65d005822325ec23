package lab

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type Service struct {
	labs     repository.LabRepository
	patients repository.PatientRepository
}

func NewService(labs repository.LabRepository, patients repository.PatientRepository) *Service {
	return &Service{labs: labs, patients: patients}
}

func (s *Service) CreateLaboratory(ctx context.Context, lab *model.Laboratory) error {
	if err := s.labs.CreateLaboratory(ctx, lab); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

func (s *Service) ListLaboratories(ctx context.Context) ([]*model.Laboratory, error) {
	return s.labs.ListLaboratories(ctx)
}

func (s *Service) CreateTest(ctx context.Context, test *model.LabTest) error {
	if err := s.labs.CreateTest(ctx, test); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

func (s *Service) ListTests(ctx context.Context, category *model.TestCategory) ([]*model.LabTest, error) {
	return s.labs.ListTests(ctx, category)
}

// OrderTests opens an order with a pending result row per test. Urgent
// and stat orders carry the surcharge of tests that support it.
func (s *Service) OrderTests(ctx context.Context, req *model.OrderLabTestsRequest) (*model.LabOrder, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, apperrors.NotFound("patient not found")
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityRoutine
	}

	order := &model.LabOrder{
		OrderNumber:         newOrderNumber(),
		PatientID:           req.PatientID,
		OrderingDoctorID:    req.OrderingDoctorID,
		MedicalRecordID:     req.MedicalRecordID,
		AdmissionID:         req.AdmissionID,
		OrderDate:           time.Now(),
		Priority:            priority,
		Status:              model.LabOrderOrdered,
		ClinicalInformation: req.ClinicalInformation,
		ProvisionalDx:       req.ProvisionalDx,
	}

	var total float64
	for _, testID := range req.TestIDs {
		test, err := s.labs.GetTest(ctx, testID)
		if err != nil {
			return nil, apperrors.NotFound(fmt.Sprintf("lab test %s not found", testID))
		}
		cost := test.Price
		if priority != model.PriorityRoutine && test.IsUrgentAvailable {
			cost += test.UrgentSurcharge
		}
		total += cost

		order.Results = append(order.Results, &model.LabResult{
			TestID:         testID,
			Status:         model.ResultPending,
			ReferenceRange: test.NormalRangeMale,
			Unit:           test.Unit,
		})
	}
	order.TotalCost = total

	if err := s.labs.CreateOrder(ctx, order); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*model.LabOrder, error) {
	order, err := s.labs.GetOrder(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, patientID *uuid.UUID, status *model.LabOrderStatus) ([]*model.LabOrder, error) {
	return s.labs.ListOrders(ctx, patientID, status)
}

// CollectSample records who drew the sample and moves the order along
// the pipeline.
func (s *Service) CollectSample(ctx context.Context, id, collectedBy uuid.UUID) (*model.LabOrder, error) {
	return s.advance(ctx, id, model.LabOrderSampleCollected, func(o *model.LabOrder, now time.Time) {
		o.SampleCollectedDate = &now
		o.SampleCollectedBy = &collectedBy
	})
}

func (s *Service) ReceiveSample(ctx context.Context, id uuid.UUID, condition string) (*model.LabOrder, error) {
	return s.advance(ctx, id, model.LabOrderSampleReceived, func(o *model.LabOrder, now time.Time) {
		o.SampleReceivedDate = &now
		o.SampleCondition = condition
	})
}

// RejectSample is only possible while a sample is in flight, before
// analysis has begun.
func (s *Service) RejectSample(ctx context.Context, id uuid.UUID, reason string) (*model.LabOrder, error) {
	return s.advance(ctx, id, model.LabOrderRejected, func(o *model.LabOrder, now time.Time) {
		o.SampleCondition = reason
	})
}

func (s *Service) StartAnalysis(ctx context.Context, id uuid.UUID) (*model.LabOrder, error) {
	return s.advance(ctx, id, model.LabOrderInProgress, func(o *model.LabOrder, now time.Time) {
		o.AnalysisStartDate = &now
	})
}

// EnterResult fills in one result row; when every row is final the order
// moves to completed.
func (s *Service) EnterResult(ctx context.Context, orderID, resultID uuid.UUID, req *model.EnterResultRequest) (*model.LabOrder, error) {
	order, err := s.labs.GetOrder(ctx, orderID)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if order.Status != model.LabOrderInProgress {
		return nil, apperrors.Conflict("results can only be entered while analysis is in progress")
	}

	var target *model.LabResult
	for _, result := range order.Results {
		if result.ID == resultID {
			target = result
			break
		}
	}
	if target == nil {
		return nil, apperrors.NotFound("result not found on this order")
	}

	now := time.Now()
	target.ResultValue = req.ResultValue
	if req.ReferenceRange != "" {
		target.ReferenceRange = req.ReferenceRange
	}
	if req.Unit != "" {
		target.Unit = req.Unit
	}
	target.Status = model.ResultFinal
	target.IsAbnormal = req.IsAbnormal
	target.AbnormalFlag = req.AbnormalFlag
	target.Interpretation = req.Interpretation
	target.Comments = req.Comments
	target.AnalyzedBy = req.AnalyzedBy
	target.AnalysisDate = &now
	target.EquipmentUsed = req.EquipmentUsed

	if err := s.labs.UpdateResult(ctx, target); err != nil {
		return nil, apperrors.FromPg(err)
	}

	allFinal := true
	for _, result := range order.Results {
		if result.Status != model.ResultFinal {
			allFinal = false
			break
		}
	}
	if allFinal {
		if err := order.Transition(model.LabOrderCompleted); err != nil {
			return nil, apperrors.Conflict(err.Error())
		}
		order.AnalysisCompletionDate = &now
		if err := s.labs.UpdateOrder(ctx, order); err != nil {
			return nil, apperrors.FromPg(err)
		}
	}
	return order, nil
}

// Verify is the second-pair-of-eyes step after completion.
func (s *Service) Verify(ctx context.Context, id, verifiedBy uuid.UUID) (*model.LabOrder, error) {
	order, err := s.advance(ctx, id, model.LabOrderVerified, func(o *model.LabOrder, now time.Time) {
		o.VerifiedBy = &verifiedBy
		o.VerifiedDate = &now
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, result := range order.Results {
		result.VerifiedBy = &verifiedBy
		result.VerificationDate = &now
		if err := s.labs.UpdateResult(ctx, result); err != nil {
			return nil, apperrors.FromPg(err)
		}
	}
	return order, nil
}

func (s *Service) Report(ctx context.Context, id uuid.UUID) (*model.LabOrder, error) {
	return s.advance(ctx, id, model.LabOrderReported, func(o *model.LabOrder, now time.Time) {
		o.ReportedDate = &now
	})
}

func (s *Service) CancelOrder(ctx context.Context, id uuid.UUID) (*model.LabOrder, error) {
	return s.advance(ctx, id, model.LabOrderCancelled, nil)
}

func (s *Service) advance(ctx context.Context, id uuid.UUID, to model.LabOrderStatus, stamp func(*model.LabOrder, time.Time)) (*model.LabOrder, error) {
	order, err := s.labs.GetOrder(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if err := order.Transition(to); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	if stamp != nil {
		stamp(order, time.Now())
	}
	if err := s.labs.UpdateOrder(ctx, order); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return order, nil
}

func newOrderNumber() string {
	return fmt.Sprintf("LAB-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:6])
}
