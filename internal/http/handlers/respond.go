package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bidmarket/internal/apperr"
)

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case apperr.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case apperr.CodeVerificationFailed:
		return fiber.StatusPaymentRequired
	case apperr.CodePermissionDenied:
		return fiber.StatusForbidden
	case apperr.CodeNotFound:
		return fiber.StatusNotFound
	case apperr.CodeConflict, apperr.CodeAlreadyExists:
		return fiber.StatusMethodNotAllowed
	default:
		return fiber.StatusInternalServerError
	}
}

// fail maps a service error onto the wire: coded errors keep their message,
// anything else becomes an opaque 500.
func fail(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := statusFor(ae.Code)
		if status == fiber.StatusInternalServerError {
			return c.Status(status).JSON(fiber.Map{"error": "internal error", "code": ae.Code})
		}
		return c.Status(status).JSON(fiber.Map{"error": ae.Message, "code": ae.Code})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
