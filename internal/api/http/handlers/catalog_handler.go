package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// CatalogHandler serves the clothing-catalog module.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Register creates a catalog account and returns a token.
func (h *CatalogHandler) Register(c *fiber.Ctx) error {
	var req dto.CatalogRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	_, token, expiresAt, err := h.catalog.Register(c.UserContext(), service.CatalogRegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Login authenticates a catalog account and returns a token.
func (h *CatalogHandler) Login(c *fiber.Ctx) error {
	var req dto.CatalogLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	_, token, expiresAt, err := h.catalog.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// CreateItem adds a catalog entry. Admin only.
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var req dto.ClothingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	item, err := h.catalog.CreateItem(c.UserContext(), service.ClothingCreateInput{
		Name:     req.Name,
		Color:    domain.ClothingColor(req.Color),
		Size:     domain.ClothingSize(req.Size),
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewClothingResponse(item))
}

// ListItems returns the full catalog for any authenticated account.
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.catalog.ListItems(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewClothingListResponse(items))
}
