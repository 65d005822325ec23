package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

// Amounts are compared to the nearest half cent so that float residue
// from summing payments never blocks an exact settlement.
const amountEpsilon = 0.005

type Service struct {
	bills    repository.BillRepository
	patients repository.PatientRepository
}

func NewService(bills repository.BillRepository, patients repository.PatientRepository) *Service {
	return &Service{bills: bills, patients: patients}
}

// CreateBill totals the line items, applies the percentage discount and
// tax, and opens the bill in pending state.
func (s *Service) CreateBill(ctx context.Context, req *model.CreateBillRequest) (*model.Bill, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, apperrors.NotFound("patient not found")
	}
	if req.DiscountPct < 0 || req.DiscountPct > 100 {
		return nil, apperrors.BadRequest("discount percentage must be between 0 and 100")
	}

	number, err := s.bills.NextBillNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate bill number: %w", err)
	}

	bill := &model.Bill{
		BillNumber:         number,
		PatientID:          req.PatientID,
		AdmissionID:        req.AdmissionID,
		AppointmentID:      req.AppointmentID,
		BillDate:           time.Now(),
		BillType:           req.BillType,
		DueDate:            req.DueDate,
		Status:             model.BillPending,
		DiscountPercentage: req.DiscountPct,
		TaxAmount:          req.TaxAmount,
		GeneratedBy:        req.GeneratedBy,
		Notes:              req.Notes,
	}

	var subtotal float64
	for _, input := range req.Items {
		item := &model.BillItem{
			ItemCode:    input.ItemCode,
			Description: input.Description,
			Category:    input.Category,
			ServiceDate: input.ServiceDate,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
		}
		subtotal += item.Amount()
		bill.Items = append(bill.Items, item)
	}

	bill.Subtotal = subtotal
	bill.DiscountAmount = subtotal * req.DiscountPct / 100
	bill.TotalAmount = subtotal - bill.DiscountAmount + req.TaxAmount

	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return bill, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	bill, err := s.bills.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return bill, nil
}

func (s *Service) List(ctx context.Context, filters *model.BillFilters) ([]*model.Bill, error) {
	return s.bills.List(ctx, filters)
}

func (s *Service) AddItem(ctx context.Context, billID uuid.UUID, input *model.BillItemInput) (*model.Bill, error) {
	bill, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if bill.Status != model.BillDraft && bill.Status != model.BillPending {
		return nil, apperrors.Conflict("items can only be added to draft or pending bills")
	}

	item := &model.BillItem{
		BillID:      billID,
		ItemCode:    input.ItemCode,
		Description: input.Description,
		Category:    input.Category,
		ServiceDate: input.ServiceDate,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
	}
	if err := s.bills.AddItem(ctx, item); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return s.Get(ctx, billID)
}

// RecordPayment applies a payment and walks the bill to partially or
// fully paid. Overpayment is rejected rather than carried as credit.
func (s *Service) RecordPayment(ctx context.Context, billID uuid.UUID, amount float64) (*model.Bill, error) {
	if amount <= 0 {
		return nil, apperrors.BadRequest("payment amount must be positive")
	}

	bill, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if amount > bill.BalanceAmount()+amountEpsilon {
		return nil, apperrors.BadRequest(fmt.Sprintf("payment exceeds outstanding balance of %.2f", bill.BalanceAmount()))
	}

	bill.PaidAmount += amount
	target := model.BillPartiallyPaid
	if bill.BalanceAmount() < amountEpsilon {
		// Snap away float residue so the stored balance reads zero.
		bill.PaidAmount = bill.TotalAmount
		target = model.BillFullyPaid
	}
	if bill.Status != target {
		if err := bill.Transition(target); err != nil {
			return nil, apperrors.Conflict(err.Error())
		}
	}

	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return bill, nil
}

func (s *Service) Waive(ctx context.Context, billID uuid.UUID, approvedBy uuid.UUID, reason string) (*model.Bill, error) {
	bill, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if err := bill.Transition(model.BillWaived); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	bill.ApprovedBy = &approvedBy
	if reason != "" {
		bill.Notes = reason
	}
	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return bill, nil
}

func (s *Service) Cancel(ctx context.Context, billID uuid.UUID) (*model.Bill, error) {
	bill, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if err := bill.Transition(model.BillCancelled); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return bill, nil
}

// MarkOverdue sweeps collectible bills past their due date into the
// overdue state. Intended to run daily.
func (s *Service) MarkOverdue(ctx context.Context) (int, error) {
	today := time.Now()
	marked := 0
	for _, status := range []model.BillStatus{model.BillPending, model.BillPartiallyPaid} {
		bills, err := s.bills.List(ctx, &model.BillFilters{Status: status})
		if err != nil {
			return marked, err
		}
		for _, bill := range bills {
			if !bill.IsOverdue(today) {
				continue
			}
			if err := bill.Transition(model.BillOverdue); err != nil {
				continue
			}
			if err := s.bills.Update(ctx, bill); err != nil {
				return marked, apperrors.FromPg(err)
			}
			marked++
		}
	}
	return marked, nil
}
