package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "counterpos/internal/log"
	"counterpos/internal/services"
)

type DashboardHandler struct {
	Dash *services.DashboardService
}

// GET /
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	d, err := h.Dash.Load(c.UserContext())
	if err != nil {
		applog.Error(c, "dashboard.load.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	return render(c, "dashboard", fiber.Map{
		"Products":     d.Products,
		"RecentSales":  d.RecentSales,
		"TotalRevenue": d.Revenue.Total().StringFixed(2),
		"SaleCount":    d.Revenue.SaleCount,
		"ProductCount": len(d.Products),
		"Stock":        d.Stock,
	})
}
