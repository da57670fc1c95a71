package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"counterpos/internal/domain"
	applog "counterpos/internal/log"
	"counterpos/internal/services"
)

const sessionCookie = "sid"

// AttachUser resolves the sid cookie to a principal for templates and guards.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies(sessionCookie); sid != "" {
			if p, err := auth.CurrentUser(c.UserContext(), sid); err == nil && p != nil {
				c.Locals("user", p)
			}
		}
		return c.Next()
	}
}

func principal(c *fiber.Ctx) *domain.Principal {
	p, _ := c.Locals("user").(*domain.Principal)
	return p
}

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if principal(c) != nil {
			return c.Next()
		}
		sid := c.Cookies(sessionCookie)
		if sid == "" {
			return c.Redirect("/login")
		}
		p, err := auth.CurrentUser(c.UserContext(), sid)
		if err != nil || p == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", p)
		return c.Next()
	}
}

// RequireOwner lets only the owner through. Staff are sent to the sale screen.
func RequireOwner(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := principal(c)
		if p == nil {
			if sid := c.Cookies(sessionCookie); sid != "" {
				p, _ = auth.CurrentUser(c.UserContext(), sid)
			}
		}
		if p == nil {
			return c.Redirect("/login")
		}
		if !p.IsOwner() {
			applog.Security(c, "access.denied.owner", map[string]any{"email": p.Email})
			return c.Redirect("/pos")
		}
		c.Locals("user", p)
		return c.Next()
	}
}

// RequireToken authenticates API clients by bearer token.
func RequireToken(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		tok := strings.TrimPrefix(h, "Bearer ")
		if h == "" || tok == h {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "bearer token required"})
		}
		p, err := auth.ParseToken(tok)
		if err != nil {
			applog.Security(c, "api.token.reject", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals("user", p)
		return c.Next()
	}
}
