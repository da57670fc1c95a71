package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "counterpos/internal/log"
	"counterpos/internal/services"
)

type POSHandler struct {
	Catalog *services.CatalogService
}

// Screen renders the sale screen with the whole catalog by name.
func (h *POSHandler) Screen(c *fiber.Ctx) error {
	products, err := h.Catalog.ForSale(c.UserContext())
	if err != nil {
		applog.Error(c, "pos.load.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "pos", fiber.Map{"Products": products})
}
