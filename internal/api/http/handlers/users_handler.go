package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// UsersHandler serves registration, login and role administration.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(auth *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: auth}
}

// Register creates an account and returns a token.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	_, token, expiresAt, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IBAN:      req.IBAN,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Login authenticates an account and returns a token.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	_, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// List returns accounts, optionally filtered by exact email.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext(), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserListResponse(users))
}

// MakeAdmin promotes the target account to admin.
func (h *UsersHandler) MakeAdmin(c *fiber.Ctx) error {
	if err := h.auth.ChangeRole(c.UserContext(), c.Params("id"), domain.RoleAdmin); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MakeApprover promotes the target account to approver.
func (h *UsersHandler) MakeApprover(c *fiber.Ctx) error {
	if err := h.auth.ChangeRole(c.UserContext(), c.Params("id"), domain.RoleApprover); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
