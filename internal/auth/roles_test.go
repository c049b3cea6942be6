package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

func newRoleTestApp(allowed ...domain.Role) (*fiber.App, func(domain.Role)) {
	var current domain.Role
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Put("/complaints/:id/approve",
		func(c *fiber.Ctx) error {
			c.Locals(userKey, &domain.User{ID: "u1", Role: current})
			return c.Next()
		},
		RequireRole(allowed...),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) },
	)
	return app, func(role domain.Role) { current = role }
}

func TestRequireRoleApproverOnly(t *testing.T) {
	app, setRole := newRoleTestApp(domain.RoleApprover)

	cases := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleApprover, fiber.StatusNoContent},
		{domain.RoleAdmin, fiber.StatusForbidden},
		{domain.RoleComplainer, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		setRole(tc.role)
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPut, "/complaints/c1/approve", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, "role %s", tc.role)
	}
}

func TestRequireRoleWithoutUser(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/protected", RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
