package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bidmarket/internal/log"
	"bidmarket/internal/services"
	"bidmarket/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	products, err := h.Catalog.ListProducts(page, 20)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

// GET /api/v1/products/search?q=
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enter a valid keyword"})
	}
	products, err := h.Catalog.Search(strings.ToLower(q), c.QueryInt("page", 1), 20)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

type productRequest struct {
	CollectionID string  `json:"collection_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	ProductHash  string  `json:"product_hash"`
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	title, ok := validate.Title(req.Title)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid title"})
	}
	hash, ok := validate.ProductHash(req.ProductHash)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "product_hash must be hex sha256"})
	}
	if req.Price < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be at least 1"})
	}

	p, err := h.Catalog.CreateProduct(principal(c), req.CollectionID, title, req.Description, hash, req.Price)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.create", map[string]any{"product": p.ID, "owner": p.OwnerID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	title, ok := validate.Title(req.Title)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid title"})
	}
	if req.Price < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be at least 1"})
	}
	p, err := h.Catalog.UpdateProduct(principal(c), id, title, req.Description, req.Price)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.update", map[string]any{"product": p.ID})
	return c.JSON(p)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Catalog.DeleteProduct(principal(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET|PUT /api/v1/products/:id/visibility?visible=true|false
// Unrecognized values change nothing and return an empty acknowledgment.
func (h *ProductHandler) Visibility(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	value := c.Query("visible")

	p, err := h.Catalog.SetVisibility(principal(c), id, value)
	if err != nil {
		applog.Security(c, "product.visibility.fail", map[string]any{"product": id, "error": err.Error()})
		return fail(c, err)
	}
	if p == nil {
		return c.JSON(fiber.Map{})
	}
	applog.Audit(c, "product.visibility", map[string]any{"product": id, "visible": p.Visible})
	return c.JSON(p)
}
