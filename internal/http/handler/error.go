package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// codeDescription renders the plain-text error body for a status code,
// e.g. "404 - Not Found".
func codeDescription(status int) string {
	return fmt.Sprintf("%d - %s", status, utils.StatusMessage(status))
}

// respondStatus writes an error response for the given status without
// leaking internal details. The body carries only the code and its
// reason phrase.
func respondStatus(c *fiber.Ctx, status int) error {
	return c.Status(status).SendString(codeDescription(status))
}

// ErrorHandler returns a Fiber global error handler that renders every
// error, including short-circuits from middleware, in the same
// "<code> - <reason phrase>" shape.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		return respondStatus(c, status)
	}
}
