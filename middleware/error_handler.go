package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"phishguard/config"
	"phishguard/utils"
)

// ErrorHandler is the global fallback for errors the controllers let
// through, directory failures included. Production gets a generic
// message; everything else gets the literal error text as a debug aid.
// Server-side failures are reported with request context attached.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code >= fiber.StatusInternalServerError {
		utils.LogError("unhandled", err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		})
	}

	message := err.Error()
	if config.AppConfig.IsProduction() {
		message = "Internal server error"
	}
	return utils.ErrorResponse(c, code, message)
}
