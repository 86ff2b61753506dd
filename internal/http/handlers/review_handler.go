package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bidmarket/internal/log"
	"bidmarket/internal/services"
	"bidmarket/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// GET /api/v1/products/:id/reviews
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	revs, err := h.Reviews.ListForProduct(productID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(revs)
}

// POST /api/v1/products/:id/reviews
func (h *ReviewHandler) Post(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	desc, ok := validate.Description(req.Description)
	if !ok || desc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid description"})
	}
	rev, err := h.Reviews.Post(principal(c), productID, desc)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "review.post", map[string]any{"review": rev.ID, "product": productID})
	return c.Status(fiber.StatusCreated).JSON(rev)
}

// GET /api/v1/reviews/:id/replies
func (h *ReviewHandler) Replies(c *fiber.Ctx) error {
	reviewID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid review id"})
	}
	reps, err := h.Reviews.Replies(reviewID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reps)
}

// POST /api/v1/reviews/:id/replies
func (h *ReviewHandler) Reply(c *fiber.Ctx) error {
	reviewID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid review id"})
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	desc, ok := validate.Description(req.Description)
	if !ok || desc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid description"})
	}
	rep, err := h.Reviews.Reply(principal(c), reviewID, desc)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rep)
}
