package pharmacy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type Service struct {
	medicines     repository.MedicineRepository
	prescriptions repository.PrescriptionRepository
	patients      repository.PatientRepository
	outbox        repository.OutboxRepository
}

func NewService(
	medicines repository.MedicineRepository,
	prescriptions repository.PrescriptionRepository,
	patients repository.PatientRepository,
	outbox repository.OutboxRepository,
) *Service {
	return &Service{
		medicines:     medicines,
		prescriptions: prescriptions,
		patients:      patients,
		outbox:        outbox,
	}
}

func (s *Service) CreateMedicine(ctx context.Context, req *model.CreateMedicineRequest) (*model.Medicine, error) {
	medicine := &model.Medicine{
		Name:                 req.Name,
		GenericName:          req.GenericName,
		BrandName:            req.BrandName,
		MedicineCode:         req.MedicineCode,
		DosageForm:           req.DosageForm,
		Strength:             req.Strength,
		TherapeuticClass:     req.TherapeuticClass,
		Manufacturer:         req.Manufacturer,
		StorageCondition:     req.StorageCondition,
		UnitCost:             req.UnitCost,
		SellingPrice:         req.SellingPrice,
		MinimumStockLevel:    req.MinimumStockLevel,
		MaximumStockLevel:    req.MaximumStockLevel,
		ReorderLevel:         req.ReorderLevel,
		RequiresPrescription: true,
	}
	if req.UnitCost > 0 {
		medicine.MarkupPercentage = (req.SellingPrice - req.UnitCost) / req.UnitCost * 100
	}

	if err := s.medicines.Create(ctx, medicine); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return medicine, nil
}

func (s *Service) GetMedicine(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	medicine, err := s.medicines.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return medicine, nil
}

func (s *Service) ListMedicines(ctx context.Context, search string) ([]*model.Medicine, error) {
	return s.medicines.List(ctx, search)
}

func (s *Service) ListNeedingReorder(ctx context.Context) ([]*model.Medicine, error) {
	return s.medicines.ListNeedingReorder(ctx)
}

// ReceiveBatch books incoming stock against a batch with its own expiry.
func (s *Service) ReceiveBatch(ctx context.Context, req *model.ReceiveBatchRequest, receivedBy uuid.UUID) (*model.MedicineBatch, error) {
	if _, err := s.medicines.Get(ctx, req.MedicineID); err != nil {
		return nil, apperrors.NotFound("medicine not found")
	}
	if !req.ExpiryDate.After(req.ManufactureDate) {
		return nil, apperrors.BadRequest("expiry date must be after manufacture date")
	}

	batch := &model.MedicineBatch{
		MedicineID:        req.MedicineID,
		BatchNumber:       req.BatchNumber,
		ManufactureDate:   req.ManufactureDate,
		ExpiryDate:        req.ExpiryDate,
		QuantityReceived:  req.QuantityReceived,
		QuantityRemaining: req.QuantityReceived,
		CostPerUnit:       req.CostPerUnit,
		Supplier:          req.Supplier,
		ReceivedDate:      time.Now(),
	}
	batch.CreatedBy = &receivedBy

	if err := s.medicines.CreateBatch(ctx, batch); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return batch, nil
}

func (s *Service) ListBatches(ctx context.Context, medicineID uuid.UUID) ([]*model.MedicineBatch, error) {
	return s.medicines.ListBatches(ctx, medicineID)
}

func (s *Service) ListExpiringBatches(ctx context.Context, within time.Duration) ([]*model.MedicineBatch, error) {
	return s.medicines.ListExpiringBatches(ctx, within)
}

// Prescribe opens a prescription with its items; nothing is dispensed
// yet and no stock moves.
func (s *Service) Prescribe(ctx context.Context, req *model.PrescribeRequest) (*model.Prescription, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, apperrors.NotFound("patient not found")
	}

	prescription := &model.Prescription{
		PrescriptionNumber:  newPrescriptionNumber(),
		PatientID:           req.PatientID,
		DoctorID:            req.DoctorID,
		MedicalRecordID:     req.MedicalRecordID,
		PrescribedDate:      time.Now(),
		Status:              model.PrescriptionPending,
		Diagnosis:           req.Diagnosis,
		PatientWeight:       req.PatientWeight,
		AllergiesNoted:      req.AllergiesNoted,
		SpecialInstructions: req.SpecialInstructions,
	}

	for _, item := range req.Items {
		medicine, err := s.medicines.Get(ctx, item.MedicineID)
		if err != nil {
			return nil, apperrors.NotFound(fmt.Sprintf("medicine %s not found", item.MedicineID))
		}
		prescription.Items = append(prescription.Items, &model.PrescriptionItem{
			MedicineID:            item.MedicineID,
			QuantityPrescribed:    item.QuantityPrescribed,
			Dosage:                item.Dosage,
			Frequency:             item.Frequency,
			Duration:              item.Duration,
			RouteOfAdministration: item.RouteOfAdministration,
			SpecialInstructions:   item.SpecialInstructions,
			UnitPrice:             medicine.SellingPrice,
		})
	}

	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, apperrors.FromPg(err)
	}

	s.emit(ctx, "prescription.created", prescription)
	return prescription, nil
}

func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.prescriptions.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return prescription, nil
}

func (s *Service) ListPrescriptions(ctx context.Context, patientID *uuid.UUID, status *model.PrescriptionStatus) ([]*model.Prescription, error) {
	return s.prescriptions.List(ctx, patientID, status)
}

// Dispense hands out requested quantities, drawing stock from the
// earliest-expiring batches first. Expired batches never dispense. The
// prescription moves to partially or fully dispensed depending on
// whether every item is covered.
func (s *Service) Dispense(ctx context.Context, prescriptionID uuid.UUID, req *model.DispenseRequest) (*model.Prescription, error) {
	prescription, err := s.prescriptions.Get(ctx, prescriptionID)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if prescription.Status != model.PrescriptionPending && prescription.Status != model.PrescriptionPartiallyDispensed {
		return nil, apperrors.Conflict(fmt.Sprintf("prescription is %s", prescription.Status))
	}

	itemsByID := make(map[uuid.UUID]*model.PrescriptionItem, len(prescription.Items))
	for _, item := range prescription.Items {
		itemsByID[item.ID] = item
	}

	today := time.Now()
	var updated []*model.PrescriptionItem
	var draws []*model.BatchDraw

	for _, di := range req.Items {
		item, ok := itemsByID[di.PrescriptionItemID]
		if !ok {
			return nil, apperrors.BadRequest("item does not belong to this prescription")
		}
		outstanding := item.QuantityPrescribed - item.QuantityDispensed
		if di.Quantity > outstanding {
			return nil, apperrors.BadRequest(fmt.Sprintf("cannot dispense %d, only %d outstanding", di.Quantity, outstanding))
		}

		batches, err := s.medicines.ListDispensableBatches(ctx, item.MedicineID, today)
		if err != nil {
			return nil, fmt.Errorf("failed to list batches: %w", err)
		}

		remaining := di.Quantity
		for _, batch := range batches {
			if remaining == 0 {
				break
			}
			take := remaining
			if take > batch.QuantityRemaining {
				take = batch.QuantityRemaining
			}
			draws = append(draws, &model.BatchDraw{BatchID: batch.ID, Quantity: take})
			batchID := batch.ID
			item.BatchDispensedID = &batchID
			remaining -= take
		}
		if remaining > 0 {
			return nil, apperrors.Conflict("insufficient stock to dispense requested quantity")
		}

		item.QuantityDispensed += di.Quantity
		updated = append(updated, item)
	}

	fully := true
	for _, item := range prescription.Items {
		if !item.IsFullyDispensed() {
			fully = false
			break
		}
	}
	target := model.PrescriptionPartiallyDispensed
	if fully {
		target = model.PrescriptionFullyDispensed
	}
	if prescription.Status != target {
		if err := prescription.Transition(target); err != nil {
			return nil, apperrors.Conflict(err.Error())
		}
	}

	now := time.Now()
	prescription.DispensedBy = &req.DispensedBy
	prescription.DispensingDate = &now
	prescription.DispensingNotes = req.DispensingNotes

	var total float64
	for _, item := range prescription.Items {
		total += item.TotalPrice()
	}
	prescription.TotalCost = total
	prescription.PatientPays = total - prescription.InsuranceCovered

	if err := s.prescriptions.Dispense(ctx, prescription, updated, draws); err != nil {
		return nil, apperrors.FromPg(err)
	}

	s.emit(ctx, "prescription.dispensed", prescription)
	return prescription, nil
}

func (s *Service) CancelPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.prescriptions.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	if err := prescription.Transition(model.PrescriptionCancelled); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	if err := s.prescriptions.Update(ctx, prescription); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return prescription, nil
}

func newPrescriptionNumber() string {
	return fmt.Sprintf("RX-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:6])
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.outbox == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = s.outbox.Create(ctx, &model.OutboxEvent{EventType: eventType, Payload: data})
}
