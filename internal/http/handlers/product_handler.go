package handlers

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "counterpos/internal/log"
	"counterpos/internal/services"
	"counterpos/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// POST /product/add
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	p, err := h.Catalog.AddProduct(c.UserContext(), services.NewProduct{
		Name:     c.FormValue("name"),
		Price:    c.FormValue("price"),
		Stock:    c.FormValue("stock"),
		Barcode:  c.FormValue("barcode"),
		Category: c.FormValue("category"),
	})
	if errors.Is(err, services.ErrInvalidRequest) {
		applog.Security(c, "validation.fail", map[string]any{"field": "product", "reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString(strings.TrimPrefix(err.Error(), services.ErrInvalidRequest.Error()+": "))
	}
	if err != nil {
		applog.Error(c, "product.add.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("could not add product")
	}
	applog.Audit(c, "product.add", map[string]any{"product_id": p.ID, "name": p.Name, "stock": p.Stock})
	return c.Redirect("/")
}

// POST /product/delete/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "Product not found")
	}
	err := h.Catalog.DeleteProduct(c.UserContext(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(c, "Product not found")
	}
	if err != nil {
		applog.Error(c, "product.delete.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).SendString("could not delete product")
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.Redirect("/")
}
