package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "counterpos/internal/log"
	"counterpos/internal/services"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

// Place handles POST /checkout and POST /api/v1/checkout. The cashier comes from
// the session or token principal, never from the body.
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	p := principal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Please log in"})
	}

	req, err := services.DecodeCheckout(c.Body())
	if err == nil {
		var rc services.Receipt
		rc, err = h.Checkout.Checkout(c.UserContext(), req, p.Cashier())
		if err == nil {
			return h.placed(c, rc, len(req.Items))
		}
	}

	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		applog.Security(c, "validation.fail", map[string]any{"field": "checkout", "reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": strings.TrimPrefix(err.Error(), services.ErrInvalidRequest.Error()+": "),
		})
	case errors.Is(err, services.ErrInsufficientStock):
		applog.Info(c, "checkout.rejected.stock", map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Not enough stock for one or more items"})
	default:
		applog.Error(c, "checkout.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Transaction Failed. Please try again."})
	}
}

func (h *CheckoutHandler) placed(c *fiber.Ctx, rc services.Receipt, lines int) error {
	if len(rc.Unresolved) > 0 {
		applog.Info(c, "checkout.unresolved_products", map[string]any{"sale_id": rc.SaleID, "product_ids": rc.Unresolved})
	}
	applog.Audit(c, "sale.create", map[string]any{
		"sale_id":        rc.SaleID,
		"lines":          lines,
		"total":          rc.Total.StringFixed(2),
		"computed_total": rc.ComputedTotal.StringFixed(2),
		"mismatch":       !rc.Total.Equal(rc.ComputedTotal),
	})
	resp := fiber.Map{
		"success": true,
		"message": "Payment Successful!",
		"orderId": rc.SaleID,
	}
	if len(rc.Unresolved) > 0 {
		resp["unresolved"] = rc.Unresolved
	}
	return c.JSON(resp)
}
