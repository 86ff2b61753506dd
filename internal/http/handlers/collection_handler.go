package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bidmarket/internal/log"
	"bidmarket/internal/services"
	"bidmarket/internal/validate"
)

type CollectionHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/collections
func (h *CollectionHandler) List(c *fiber.Ctx) error {
	cols, err := h.Catalog.ListCollections()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cols)
}

// GET /api/v1/collections/:id/products
func (h *CollectionHandler) Products(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid collection id"})
	}
	products, err := h.Catalog.ListByCollection(id, c.QueryInt("page", 1), 20)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// POST /api/v1/collections (staff)
func (h *CollectionHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	title, ok := validate.Title(req.Title)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid title"})
	}
	col, err := h.Catalog.CreateCollection(principal(c), title)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "collection.create", map[string]any{"collection": col.ID})
	return c.Status(fiber.StatusCreated).JSON(col)
}

// DELETE /api/v1/collections/:id (staff) — 405 while products remain.
func (h *CollectionHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid collection id"})
	}
	if err := h.Catalog.DeleteCollection(principal(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "collection.delete", map[string]any{"collection": id})
	return c.SendStatus(fiber.StatusNoContent)
}
