package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

const catalogUserKey = "auth_catalog_user"

// CatalogMiddleware authenticates clothing-catalog accounts, which live in
// their own table and sign tokens with their own secret.
type CatalogMiddleware struct {
	tokens *TokenManager
	users  repository.CatalogUserRepository
}

// NewCatalogMiddleware constructs the middleware.
func NewCatalogMiddleware(tokens *TokenManager, users repository.CatalogUserRepository) *CatalogMiddleware {
	return &CatalogMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for catalog routes.
func (m *CatalogMiddleware) Handle(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	userID, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	user, err := m.users.GetByID(c.UserContext(), userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(catalogUserKey, user)
	return c.Next()
}

// CatalogUserFromContext retrieves the authenticated catalog user.
func CatalogUserFromContext(c *fiber.Ctx) (*domain.CatalogUser, bool) {
	user, ok := c.Locals(catalogUserKey).(*domain.CatalogUser)
	return user, ok
}

// RequireCatalogAdmin ensures the catalog user may manage items.
func RequireCatalogAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CatalogUserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !user.Role.CanManageItems() {
			return apperrors.NewForbidden("you do not have permission for this resource")
		}
		return c.Next()
	}
}
