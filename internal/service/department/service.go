package department

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

const (
	geoCacheTTL     = 15 * time.Minute
	geoCacheCleanup = time.Hour
)

type Service struct {
	departments repository.DepartmentRepository
	geo         repository.GeoRepository
	// Counties and sub-counties are administrative reference data;
	// serving them a little stale is fine.
	geoCache *gocache.Cache
}

func NewService(departments repository.DepartmentRepository, geo repository.GeoRepository) *Service {
	return &Service{
		departments: departments,
		geo:         geo,
		geoCache:    gocache.New(geoCacheTTL, geoCacheCleanup),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	dept := &model.Department{
		Name:             req.Name,
		Code:             req.Code,
		DepartmentType:   req.DepartmentType,
		Description:      req.Description,
		HeadOfDepartment: req.HeadOfDepartment,
		DeputyHead:       req.DeputyHead,
		LocationBuilding: req.LocationBuilding,
		LocationFloor:    req.LocationFloor,
		LocationWing:     req.LocationWing,
		PhoneExtension:   req.PhoneExtension,
		Email:            req.Email,
		EstablishedDate:  req.EstablishedDate,
		BedCapacity:      req.BedCapacity,
		StaffCapacity:    req.StaffCapacity,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return dept, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	dept, err := s.departments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return dept, nil
}

func (s *Service) Update(ctx context.Context, dept *model.Department) error {
	if err := s.departments.Update(ctx, dept); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Department, error) {
	return s.departments.List(ctx)
}

func (s *Service) ListCounties(ctx context.Context) ([]*model.County, error) {
	if entry, found := s.geoCache.Get("counties"); found {
		return entry.([]*model.County), nil
	}
	counties, err := s.geo.ListCounties(ctx)
	if err != nil {
		return nil, err
	}
	s.geoCache.SetDefault("counties", counties)
	return counties, nil
}

func (s *Service) ListSubCounties(ctx context.Context, countyID uuid.UUID) ([]*model.SubCounty, error) {
	key := "subcounties:" + countyID.String()
	if entry, found := s.geoCache.Get(key); found {
		return entry.([]*model.SubCounty), nil
	}
	subCounties, err := s.geo.ListSubCounties(ctx, countyID)
	if err != nil {
		return nil, err
	}
	s.geoCache.SetDefault(key, subCounties)
	return subCounties, nil
}
