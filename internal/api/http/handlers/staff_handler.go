package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/reminder-service/internal/api/dto"
	"github.com/spec-kit/reminder-service/internal/service"
	apperrors "github.com/spec-kit/reminder-service/pkg/util"
)

// StaffHandler exposes staff authentication.
type StaffHandler struct {
	auth *service.AuthService
}

// NewStaffHandler returns a new handler instance.
func NewStaffHandler(auth *service.AuthService) *StaffHandler {
	return &StaffHandler{auth: auth}
}

// Login verifies credentials and issues an access token.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	result, err := h.auth.StaffLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.StaffLoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		StaffID:   result.StaffID,
	})
}
