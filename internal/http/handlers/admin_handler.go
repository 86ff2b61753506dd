package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bidmarket/internal/log"
	"bidmarket/internal/repos"
)

type AdminHandler struct {
	Users     *repos.UserRepo
	Custs     *repos.CustomerRepo
	Transfers *repos.TransferRepo
}

// GET /api/v1/admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load users"})
	}
	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{
			"id": u.ID, "email": u.Email, "name": u.Name,
			"wallet_address": u.WalletAddress, "verified": u.Verified,
		})
	}
	return c.JSON(out)
}

// GET /api/v1/admin/customers
func (h *AdminHandler) CustomersPage(c *fiber.Ctx) error {
	custs, err := h.Custs.List()
	if err != nil {
		applog.Error(c, "admin.customers.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load customers"})
	}
	return c.JSON(custs)
}

// GET /api/v1/admin/transfers — every pending transfer, for support triage of
// stuck verifications.
func (h *AdminHandler) TransfersPage(c *fiber.Ctx) error {
	var out []struct {
		ID        string `db:"id" json:"id"`
		ProductID string `db:"product_id" json:"product_id"`
		BuyerID   string `db:"buyer_id" json:"buyer_id"`
		SellerID  string `db:"seller_id" json:"seller_id"`
		CreatedAt string `db:"created_at" json:"created_at"`
	}
	if err := h.Users.DB.Select(&out, `
	  SELECT id, product_id, buyer_id, seller_id, created_at
	  FROM transfers ORDER BY created_at DESC
	`); err != nil {
		applog.Error(c, "admin.transfers.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load transfers"})
	}
	return c.JSON(out)
}

// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not delete user"})
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
