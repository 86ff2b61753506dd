package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bidmarket/internal/log"
	"bidmarket/internal/services"
	"bidmarket/internal/validate"
)

type BidHandler struct {
	Bids *services.BidService
}

type placeBidRequest struct {
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// POST /api/v1/products/:id/bids
func (h *BidHandler) Place(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	desc, ok := validate.Description(req.Description)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "description too long"})
	}

	b, err := h.Bids.Place(principal(c), productID, req.Price, desc)
	if err != nil {
		applog.Security(c, "bid.place.fail", map[string]any{"product": productID, "error": err.Error()})
		return fail(c, err)
	}
	applog.Audit(c, "bid.place", map[string]any{"bid": b.ID, "product": productID, "price": b.Price})
	return c.Status(fiber.StatusCreated).JSON(b)
}

// GET /api/v1/products/:id/bids
func (h *BidHandler) List(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	bids, err := h.Bids.List(productID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bids)
}

// DELETE /api/v1/products/:id/bids/:bidId
func (h *BidHandler) Withdraw(c *fiber.Ctx) error {
	bidID, ok := validate.ID(c.Params("bidId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid bid id"})
	}
	if err := h.Bids.Withdraw(principal(c), bidID); err != nil {
		applog.Security(c, "bid.withdraw.fail", map[string]any{"bid": bidID, "error": err.Error()})
		return fail(c, err)
	}
	applog.Audit(c, "bid.withdraw", map[string]any{"bid": bidID})
	return c.SendStatus(fiber.StatusNoContent)
}
