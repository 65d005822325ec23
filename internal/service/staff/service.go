package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
	"github.com/afyahms/hms-api/pkg/security"
)

type Service struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	hasher      security.PasswordHasher
}

func NewService(users repository.UserRepository, departments repository.DepartmentRepository, hasher security.PasswordHasher) *Service {
	return &Service{
		users:       users,
		departments: departments,
		hasher:      hasher,
	}
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	user := &model.User{
		Username:         req.Username,
		PasswordHash:     hash,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		EmployeeNumber:   req.EmployeeNumber,
		Role:             req.Role,
		SecondaryRole:    req.SecondaryRole,
		NationalID:       req.NationalID,
		PhonePrimary:     req.PhonePrimary,
		PhoneSecondary:   req.PhoneSecondary,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		CountyOfOrigin:   req.CountyOfOrigin,
		SubCounty:        req.SubCounty,
		Ward:             req.Ward,
		Address:          req.Address,
		NextOfKinName:    req.NextOfKinName,
		NextOfKinRel:     req.NextOfKinRel,
		NextOfKinPhone:   req.NextOfKinPhone,
		EmploymentStatus: model.EmploymentStatus(req.EmploymentStatus),
		EmploymentDate:   req.EmploymentDate,
		KMPDCLicense:     req.KMPDCLicense,
		NCKLicense:       req.NCKLicense,
	}
	if user.EmploymentStatus == "" {
		user.EmploymentStatus = model.EmploymentPermanent
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromPg(err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.SecondaryRole != nil {
		user.SecondaryRole = *req.SecondaryRole
	}
	if req.PhonePrimary != nil {
		user.PhonePrimary = *req.PhonePrimary
	}
	if req.PhoneSecondary != nil {
		user.PhoneSecondary = *req.PhoneSecondary
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.EmploymentStatus != nil {
		user.EmploymentStatus = model.EmploymentStatus(*req.EmploymentStatus)
	}
	if req.TerminationDate != nil {
		user.TerminationDate = req.TerminationDate
	}
	if req.KMPDCLicense != nil {
		user.KMPDCLicense = *req.KMPDCLicense
	}
	if req.NCKLicense != nil {
		user.NCKLicense = *req.NCKLicense
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return user, nil
}

func (s *Service) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.FromPg(err)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return s.users.List(ctx, filters)
}

// ListDoctors returns staff in any of the doctor roles.
func (s *Service) ListDoctors(ctx context.Context) ([]*model.User, error) {
	var doctors []*model.User
	for _, role := range model.DoctorRoles {
		users, err := s.users.List(ctx, &model.UserFilters{Role: role})
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, users...)
	}
	return doctors, nil
}

func (s *Service) StaffByRole(ctx context.Context) ([]*model.RoleCount, error) {
	return s.users.CountByRole(ctx)
}

// AssignDepartment places a staff member in a department; the first
// assignment becomes their primary posting.
func (s *Service) AssignDepartment(ctx context.Context, staffID, departmentID uuid.UUID, positionTitle string) (*model.StaffDepartmentAssignment, error) {
	if _, err := s.users.Get(ctx, staffID); err != nil {
		return nil, apperrors.NotFound("staff member not found")
	}
	if _, err := s.departments.Get(ctx, departmentID); err != nil {
		return nil, apperrors.NotFound("department not found")
	}

	existing, err := s.users.ListDepartmentAssignments(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing assignments: %w", err)
	}

	assignment := &model.StaffDepartmentAssignment{
		StaffID:        staffID,
		DepartmentID:   departmentID,
		IsPrimary:      len(existing) == 0,
		AssignmentDate: time.Now(),
		PositionTitle:  positionTitle,
	}
	if err := s.users.AssignDepartment(ctx, assignment); err != nil {
		return nil, apperrors.FromPg(err)
	}
	return assignment, nil
}
