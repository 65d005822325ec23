package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	"github.com/afyahms/hms-api/pkg/auth"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
	"github.com/afyahms/hms-api/pkg/security"
)

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
)

type Service struct {
	users  repository.UserRepository
	jwt    auth.JWTService
	hasher security.PasswordHasher
}

func NewService(users repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		users:  users,
		jwt:    jwtSvc,
		hasher: hasher,
	}
}

// Login verifies credentials and issues a token pair. Repeated failures
// lock the account for the lockout window.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if user.Locked && time.Since(user.LastLoginAttempt) < lockoutWindow {
		return nil, apperrors.Unauthorized("account locked, try again later")
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		attempts := user.LoginAttempts + 1
		locked := attempts >= maxLoginAttempts
		if recErr := s.users.RecordLoginAttempt(ctx, user.ID, attempts, locked); recErr != nil {
			return nil, fmt.Errorf("failed to record login attempt: %w", recErr)
		}
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if err := s.users.ResetLoginAttempts(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to reset login attempts: %w", err)
	}

	return s.issueTokens(user)
}

// LoginAdmin is Login restricted to the admin role; non-admin staff get
// a Forbidden error even with valid credentials.
func (s *Service) LoginAdmin(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	resp, err := s.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("access denied")
	}
	return resp, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account disabled")
	}

	return s.issueTokens(user)
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return apperrors.NotFound("user not found")
	}
	if err := s.hasher.Compare(user.PasswordHash, current); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return apperrors.BadRequest(err.Error())
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, expiresAt, err := s.jwt.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		UserID:       user.ID,
		Username:     user.Username,
		FullName:     user.FullName(),
		Role:         user.Role,
	}, nil
}
