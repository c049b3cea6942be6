package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// CatalogService backs the clothing-catalog module: its own accounts, its
// own token secret, and admin-gated item management.
type CatalogService struct {
	users      repository.CatalogUserRepository
	items      repository.ClothingRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewCatalogService builds the service.
func NewCatalogService(cfg config.CatalogConfig, bcryptCost int, users repository.CatalogUserRepository, items repository.ClothingRepository) *CatalogService {
	return &CatalogService{
		users:      users,
		items:      items,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: bcryptCost,
	}
}

// CatalogRegisterInput describes a new catalog account.
type CatalogRegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// Register creates a catalog account with the default role and returns a
// signed token.
func (s *CatalogService) Register(ctx context.Context, input CatalogRegisterInput) (*domain.CatalogUser, string, time.Time, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" || strings.TrimSpace(input.FullName) == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email, password and full_name required", nil)
	}
	if len(strings.Fields(input.FullName)) < 2 {
		return nil, "", time.Time{}, apperrors.NewValidationError("you should provide at least two names", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	user := &domain.CatalogUser{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Role:         domain.CatalogRoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, "", time.Time{}, apperrors.NewConflict("catalog user with this email already exists", nil)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Login authenticates a catalog account.
func (s *CatalogService) Login(ctx context.Context, email, password string) (*domain.CatalogUser, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("wrong email or password")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("wrong email or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// ClothingCreateInput describes a catalog entry.
type ClothingCreateInput struct {
	Name     string
	Color    domain.ClothingColor
	Size     domain.ClothingSize
	PhotoURL string
}

// CreateItem adds a catalog entry. Names are unique.
func (s *CatalogService) CreateItem(ctx context.Context, input ClothingCreateInput) (*domain.ClothingItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if !input.Color.Valid() {
		return nil, apperrors.NewValidationError("unknown color", map[string]any{"color": input.Color})
	}
	if !input.Size.Valid() {
		return nil, apperrors.NewValidationError("unknown size", map[string]any{"size": input.Size})
	}

	item := &domain.ClothingItem{
		Name:     strings.TrimSpace(input.Name),
		Color:    input.Color,
		Size:     input.Size,
		PhotoURL: input.PhotoURL,
	}
	if err := s.items.Create(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("clothing item with this name already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// ListItems returns the full catalog.
func (s *CatalogService) ListItems(ctx context.Context) ([]domain.ClothingItem, error) {
	return s.items.List(ctx)
}

// TokenManager exposes the catalog token manager for middleware usage.
func (s *CatalogService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
