package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/reminder-service/internal/auth"
	"github.com/spec-kit/reminder-service/internal/config"
	"github.com/spec-kit/reminder-service/internal/repository"
	apperrors "github.com/spec-kit/reminder-service/pkg/util"
)

// AuthService handles staff login for the administrative surface.
type AuthService struct {
	staff     repository.StaffRepository
	tokens    *auth.TokenManager
	passwords *auth.PasswordHasher
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, staff repository.StaffRepository) *AuthService {
	return &AuthService{
		staff:     staff,
		tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		passwords: auth.NewPasswordHasher(cfg.BcryptCost),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// StaffLoginResult carries the issued access token.
type StaffLoginResult struct {
	Token     string
	ExpiresAt time.Time
	StaffID   string
}

// StaffLogin verifies credentials and issues a JWT.
func (s *AuthService) StaffLogin(ctx context.Context, email, password string) (*StaffLoginResult, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !staff.Active {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := s.passwords.Compare(staff.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		return nil, err
	}
	return &StaffLoginResult{Token: token, ExpiresAt: expiresAt, StaffID: staff.ID}, nil
}
