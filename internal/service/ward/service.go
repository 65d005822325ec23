package ward

import (
	"context"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type Service struct {
	wards       repository.WardRepository
	departments repository.DepartmentRepository
}

func NewService(wards repository.WardRepository, departments repository.DepartmentRepository) *Service {
	return &Service{wards: wards, departments: departments}
}

func (s *Service) CreateWard(ctx context.Context, req *model.CreateWardRequest) (*model.Ward, error) {
	if _, err := s.departments.Get(ctx, req.DepartmentID); err != nil {
		return nil, apperrors.NotFound("department not found")
	}

	ward := &model.Ward{
		Name:             req.Name,
		Code:             req.Code,
		WardType:         req.WardType,
		DepartmentID:     req.DepartmentID,
		LocationBuilding: req.LocationBuilding,
		LocationFloor:    req.LocationFloor,
		BedCapacity:      req.BedCapacity,
		NurseInCharge:    req.NurseInCharge,
		DailyRate:        req.DailyRate,
		Amenities:        req.Amenities,
		VisitingHours:    req.VisitingHours,
	}
	if ward.VisitingHours == "" {
		ward.VisitingHours = "2:00 PM - 4:00 PM, 6:00 PM - 8:00 PM"
	}

	if err := s.wards.Create(ctx, ward); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return ward, nil
}

func (s *Service) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	ward, err := s.wards.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return ward, nil
}

func (s *Service) UpdateWard(ctx context.Context, ward *model.Ward) error {
	if err := s.wards.Update(ctx, ward); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

func (s *Service) ListWards(ctx context.Context) ([]*model.Ward, error) {
	return s.wards.List(ctx)
}

func (s *Service) CreateBed(ctx context.Context, req *model.CreateBedRequest) (*model.Bed, error) {
	if _, err := s.wards.Get(ctx, req.WardID); err != nil {
		return nil, apperrors.NotFound("ward not found")
	}

	bed := &model.Bed{
		BedNumber:         req.BedNumber,
		WardID:            req.WardID,
		BedType:           req.BedType,
		Status:            model.BedAvailable,
		EquipmentAttached: req.EquipmentAttached,
	}
	if err := s.wards.CreateBed(ctx, bed); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return bed, nil
}

func (s *Service) ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	return s.wards.ListBeds(ctx, wardID)
}

func (s *Service) ListAvailableBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	return s.wards.ListAvailableBeds(ctx, wardID)
}
