package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse writes a standardized error body.
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// SuccessResponse writes a bare success body for delete-style endpoints.
func SuccessResponse(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// Pointer returns a pointer to the given value.
func Pointer[T any](v T) *T {
	return &v
}
