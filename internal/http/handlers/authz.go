package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bidmarket/internal/domain"
	applog "bidmarket/internal/log"
	"bidmarket/internal/services"
)

// RequirePrincipal resolves the session into an explicit Principal and stores
// it in Locals; workflow handlers never read identity from anywhere else.
func RequirePrincipal(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		p, err := auth.PrincipalFor(u)
		if err != nil {
			applog.Error(c, "authz.principal.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		c.Locals("principal", p)
		c.Locals("actor", p.UserID)
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil || u.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		p, err := auth.PrincipalFor(u)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		c.Locals("principal", p)
		c.Locals("actor", p.UserID)
		return c.Next()
	}
}

func principal(c *fiber.Ctx) domain.Principal {
	p, _ := c.Locals("principal").(domain.Principal)
	return p
}
