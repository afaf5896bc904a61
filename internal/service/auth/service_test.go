package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
	pkgauth "github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/auth"
	apperrors "github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/errors"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, u := range f.users {
		if u.ID == id {
			u.LastLoginAt = &at
		}
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string, _ time.Time) error {
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
		}
	}
	return nil
}

func newAuthFixture(t *testing.T) (*Service, *fakeUserRepo, security.PasswordHasher) {
	t.Helper()
	repo := newFakeUserRepo()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	return NewService(repo, jwtSvc, hasher), repo, hasher
}

func seedUser(t *testing.T, repo *fakeUserRepo, hasher security.PasswordHasher, email, password string) *model.User {
	t.Helper()
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	u := &model.User{
		TenantID:     uuid.New(),
		Email:        email,
		PasswordHash: hash,
		UserType:     model.UserTypeStaff,
	}
	u.ID = uuid.New()
	repo.users[email] = u
	return u
}

func TestLogin(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	user := seedUser(t, repo, hasher, "staff@salon.test", "sensible-password")
	ctx := context.Background()

	tokens, err := svc.Login(ctx, &model.LoginRequest{Email: "staff@salon.test", Password: "sensible-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, string(model.UserTypeStaff), tokens.UserType)
	assert.NotNil(t, repo.users["staff@salon.test"].LastLoginAt)

	actor, err := svc.ValidateToken(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.TenantID, actor.TenantID)
	assert.Equal(t, user.ID, actor.StaffID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	seedUser(t, repo, hasher, "staff@salon.test", "sensible-password")

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "staff@salon.test", Password: "guess"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "nobody@salon.test", Password: "whatever"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code, "unknown email must look like bad credentials")
}

func TestChangePassword(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	seedUser(t, repo, hasher, "staff@salon.test", "old-password-1")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, &model.ChangePasswordRequest{
		Email:           "staff@salon.test",
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "staff@salon.test", Password: "new-password-1"})
	require.NoError(t, err, "new password must sign in")

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "staff@salon.test", Password: "old-password-1"})
	assert.Error(t, err, "old password must stop working")
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	user := seedUser(t, repo, hasher, "staff@salon.test", "old-password-1")
	before := user.PasswordHash

	err := svc.ChangePassword(context.Background(), &model.ChangePasswordRequest{
		Email:           "staff@salon.test",
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-1",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
	assert.Equal(t, before, repo.users["staff@salon.test"].PasswordHash)
}

func TestChangePasswordTooShort(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	seedUser(t, repo, hasher, "staff@salon.test", "old-password-1")

	err := svc.ChangePassword(context.Background(), &model.ChangePasswordRequest{
		Email:           "staff@salon.test",
		CurrentPassword: "old-password-1",
		NewPassword:     "tiny",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}
