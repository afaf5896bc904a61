package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/auth"
	apperrors "github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/errors"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
	}
}

// Login authenticates a staff/owner panel user and issues a bearer
// token carrying the actor claims.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(ErrInvalidCredentials)
		}
		return nil, apperrors.Internal(fmt.Errorf("lookup user: %w", err))
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	actor := &model.Actor{
		UserType: user.UserType,
		TenantID: user.TenantID,
	}
	if user.UserType == model.UserTypeStaff {
		actor.StaffID = user.ID
	}

	token, expiresAt, err := s.jwtSvc.GenerateToken(actor)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate token: %w", err))
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("update last login: %w", err))
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		UserType:    string(user.UserType),
	}, nil
}

// ChangePassword re-authenticates the user with the current password
// before storing the new hash. The re-check means the endpoint can sit
// on the public auth group like login does.
func (s *Service) ChangePassword(ctx context.Context, req *model.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Unauthorized(ErrInvalidCredentials)
		}
		return apperrors.Internal(fmt.Errorf("lookup user: %w", err))
	}

	if err := s.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return apperrors.Unauthorized(ErrInvalidCredentials)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return apperrors.BadRequest("new password too short", err)
		}
		return apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash, time.Now()); err != nil {
		return apperrors.Internal(fmt.Errorf("store password: %w", err))
	}
	return nil
}

// ValidateToken decodes the bearer token into an actor.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.Actor, error) {
	actor, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return actor, nil
}
