package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/reminder-service/internal/auth"
	"github.com/spec-kit/reminder-service/internal/config"
	"github.com/spec-kit/reminder-service/internal/domain"
	apperrors "github.com/spec-kit/reminder-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *memStaffRepo) {
	t.Helper()
	staffRepo := newMemStaffRepo()
	hash, err := auth.NewPasswordHasher(4).Hash("s3cret")
	require.NoError(t, err)
	staffRepo.members["staff-1"] = domain.StaffMember{
		ID:           "staff-1",
		Email:        "agent@example.com",
		PasswordHash: hash,
		Role:         domain.StaffRoleAdmin,
		Active:       true,
	}
	svc := NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5}, staffRepo)
	return svc, staffRepo
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestStaffLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	result, err := svc.StaffLogin(context.Background(), "agent@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", result.StaffID)
	assert.NotEmpty(t, result.Token)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.StaffID)
	assert.Equal(t, domain.StaffRoleAdmin, claims.Role)
}

func TestStaffLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.StaffLogin(context.Background(), "agent@example.com", "wrong")
	assertUnauthorized(t, err)
}

func TestStaffLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.StaffLogin(context.Background(), "ghost@example.com", "s3cret")
	assertUnauthorized(t, err)
}

func TestStaffLogin_DisabledAccount(t *testing.T) {
	svc, staffRepo := newAuthFixture(t)
	member := staffRepo.members["staff-1"]
	member.Active = false
	staffRepo.members["staff-1"] = member

	_, err := svc.StaffLogin(context.Background(), "agent@example.com", "s3cret")
	assertUnauthorized(t, err)
}
