package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bidmarket/internal/log"
	"bidmarket/internal/services"
	"bidmarket/internal/validate"
)

type TransferHandler struct {
	Transfers *services.TransferService
}

// PUT /api/v1/products/:id/bids/:bidId — seller approves a bid, creating the
// pending transfer and hiding the product.
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	bidID, ok := validate.ID(c.Params("bidId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid bid id"})
	}

	t, err := h.Transfers.Approve(principal(c), productID, bidID)
	if err != nil {
		applog.Security(c, "transfer.approve.fail", map[string]any{"product": productID, "bid": bidID, "error": err.Error()})
		return fail(c, err)
	}
	applog.Audit(c, "transfer.approve", map[string]any{
		"transfer": t.ID, "product": t.ProductID, "buyer": t.BuyerID, "seller": t.SellerID,
	})
	return c.Status(fiber.StatusCreated).JSON(t)
}

// PUT /api/v1/transfers/:id — buyer confirms; ownership moves only after the
// ledger attributes the product hash to the buyer's key.
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	transferID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid transfer id"})
	}

	prod, err := h.Transfers.Confirm(c.UserContext(), principal(c), transferID)
	if err != nil {
		applog.Security(c, "transfer.confirm.fail", map[string]any{"transfer": transferID, "error": err.Error()})
		return fail(c, err)
	}
	applog.Audit(c, "transfer.confirm", map[string]any{
		"transfer": transferID, "product": prod.ID, "new_owner": prod.OwnerID,
	})
	return c.JSON(prod)
}

// GET /api/v1/transfers — transfers where the caller is buyer or seller.
func (h *TransferHandler) List(c *fiber.Ctx) error {
	ts, err := h.Transfers.List(principal(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ts)
}
