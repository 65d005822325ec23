package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afyahms/hms-api/internal/model"
	pkgauth "github.com/afyahms/hms-api/pkg/auth"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
	"github.com/afyahms/hms-api/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, err := r.Get(context.Background(), id)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context) ([]*model.RoleCount, error) {
	return nil, nil
}

func (r *fakeUserRepo) RecordLoginAttempt(ctx context.Context, id uuid.UUID, attempts int, locked bool) error {
	u, err := r.Get(context.Background(), id)
	if err != nil {
		return err
	}
	u.LoginAttempts = attempts
	u.Locked = locked
	u.LastLoginAttempt = time.Now()
	return nil
}

func (r *fakeUserRepo) ResetLoginAttempts(ctx context.Context, id uuid.UUID) error {
	u, err := r.Get(context.Background(), id)
	if err != nil {
		return err
	}
	u.LoginAttempts = 0
	u.Locked = false
	return nil
}

func (r *fakeUserRepo) AssignDepartment(ctx context.Context, assignment *model.StaffDepartmentAssignment) error {
	return nil
}

func (r *fakeUserRepo) ListDepartmentAssignments(ctx context.Context, userID uuid.UUID) ([]*model.StaffDepartmentAssignment, error) {
	return nil, nil
}

func newTestService(users ...*model.User) (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo(users...)
	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	return NewService(repo, jwtSvc, security.NewBcryptHasher(4)), repo
}

func testUser(t *testing.T, username, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := security.NewBcryptHasher(4).Hash(password)
	require.NoError(t, err)
	u := &model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    "Jane",
		LastName:     "Wanjiku",
		Role:         role,
	}
	u.ID = uuid.New()
	u.IsActive = true
	return u
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _ := newTestService(testUser(t, "jwanjiku", "s3cretpass", model.RoleRegisteredNurse))

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "jwanjiku",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, model.RoleRegisteredNurse, resp.Role)
	assert.Equal(t, "Jane Wanjiku", resp.FullName)
}

func TestLoginWrongPassword(t *testing.T) {
	user := testUser(t, "jwanjiku", "s3cretpass", model.RoleRegisteredNurse)
	svc, _ := newTestService(user)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "jwanjiku",
		Password: "wrong",
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
	assert.Equal(t, 1, user.LoginAttempts)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	user := testUser(t, "jwanjiku", "s3cretpass", model.RoleRegisteredNurse)
	svc, _ := newTestService(user)

	for i := 0; i < 5; i++ {
		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Username: "jwanjiku",
			Password: "wrong",
		})
		require.Error(t, err)
	}
	assert.True(t, user.Locked)

	// Even the right password is rejected while the lockout holds.
	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "jwanjiku",
		Password: "s3cretpass",
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLockoutExpires(t *testing.T) {
	user := testUser(t, "jwanjiku", "s3cretpass", model.RoleRegisteredNurse)
	user.Locked = true
	user.LoginAttempts = 5
	user.LastLoginAttempt = time.Now().Add(-16 * time.Minute)
	svc, _ := newTestService(user)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "jwanjiku",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.False(t, user.Locked)
}

func TestAdminLoginRejectsNonAdmin(t *testing.T) {
	svc, _ := newTestService(testUser(t, "jwanjiku", "s3cretpass", model.RoleRegisteredNurse))

	_, err := svc.LoginAdmin(context.Background(), &model.LoginRequest{
		Username: "jwanjiku",
		Password: "s3cretpass",
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestAdminLoginAcceptsAdmin(t *testing.T) {
	svc, _ := newTestService(testUser(t, "admin", "s3cretpass", model.RoleAdmin))

	resp, err := svc.LoginAdmin(context.Background(), &model.LoginRequest{
		Username: "admin",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.Role)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	user := testUser(t, "jwanjiku", "s3cretpass", model.RoleRegisteredNurse)
	svc, _ := newTestService(user)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "jwanjiku",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	require.Error(t, err)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.UserID)
}

func TestChangePassword(t *testing.T) {
	user := testUser(t, "jwanjiku", "s3cretpass", model.RoleRegisteredNurse)
	svc, _ := newTestService(user)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpassword1")
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "s3cretpass", "newpassword1"))

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Username: "jwanjiku",
		Password: "newpassword1",
	})
	require.NoError(t, err)
}
