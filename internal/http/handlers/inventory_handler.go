package handlers

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "counterpos/internal/log"
	"counterpos/internal/services"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// POST /product/stock/:id
func (h *InventoryHandler) Set(c *fiber.Ctx) error {
	id := c.Params("id")
	qty, err := h.Inv.SetStock(c.UserContext(), id, c.FormValue("stock"))
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		applog.Security(c, "validation.fail", map[string]any{"field": "stock", "reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString(strings.TrimPrefix(err.Error(), services.ErrInvalidRequest.Error()+": "))
	case errors.Is(err, sql.ErrNoRows):
		return notFound(c, "Product not found")
	case err != nil:
		applog.Error(c, "stock.set.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).SendString("could not update stock")
	}
	applog.Audit(c, "stock.set", map[string]any{"product_id": id, "qty": qty})
	return c.Redirect("/")
}

// GET /api/v1/stock
func (h *InventoryHandler) Levels(c *fiber.Ctx) error {
	levels, err := h.Inv.Levels(c.UserContext())
	if err != nil {
		applog.Error(c, "api.stock.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load stock"})
	}
	return c.JSON(levels)
}
