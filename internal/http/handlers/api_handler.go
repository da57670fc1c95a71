package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"counterpos/internal/log"
	"counterpos/internal/services"
	"counterpos/internal/validate"
)

// APIHandler serves POS terminals that authenticate with bearer tokens.
type APIHandler struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService
}

// POST /api/v1/token
func (h *APIHandler) Token(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	email, ok := validate.Email(in.Email)
	if !ok || !validate.Password(in.Password) {
		log.Security(c, "api.token.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}
	p, _, err := h.Auth.Authenticate(c.UserContext(), email, in.Password)
	if err != nil {
		log.Security(c, "api.token.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}
	tok, exp, err := h.Auth.IssueToken(p)
	if errors.Is(err, services.ErrTokensDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "api tokens are disabled"})
	}
	if err != nil {
		log.Error(c, "api.token.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not issue token"})
	}
	log.Audit(c, "api.token.issue", map[string]any{"email": p.Email, "role": string(p.Role)})
	return c.JSON(fiber.Map{"token": tok, "expiresAt": exp.UTC(), "role": p.Role})
}

// GET /api/v1/products
func (h *APIHandler) Products(c *fiber.Ctx) error {
	products, err := h.Catalog.ForSale(c.UserContext())
	if err != nil {
		log.Error(c, "api.products.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	return c.JSON(products)
}
