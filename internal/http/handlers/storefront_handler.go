package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bidmarket/internal/log"
	"bidmarket/internal/services"
	"bidmarket/internal/validate"
)

// StorefrontHandler serves the small server-rendered browse pages; everything
// transactional goes through the JSON API.
type StorefrontHandler struct {
	Catalog *services.CatalogService
}

// GET /
func (h *StorefrontHandler) Home(c *fiber.Ctx) error {
	cols, err := h.Catalog.ListCollections()
	if err != nil {
		applog.Error(c, "storefront.home.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Something went wrong. Please try again."})
	}
	products, err := h.Catalog.ListProducts(1, 12)
	if err != nil {
		applog.Error(c, "storefront.home.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Something went wrong. Please try again."})
	}
	return render(c, "storefront", fiber.Map{"Collections": cols, "Products": products})
}

// GET /collection/:id
func (h *StorefrontHandler) Collection(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Collection not found"})
	}
	products, err := h.Catalog.ListByCollection(id, 1, 12)
	if err != nil {
		applog.Error(c, "storefront.collection.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Something went wrong. Please try again."})
	}
	return render(c, "collection", fiber.Map{"CollectionID": id, "Products": products})
}
