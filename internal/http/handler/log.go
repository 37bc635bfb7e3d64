package handler

import (
	"os"

	"github.com/gofiber/fiber/v2"
)

// GetLog handles GET /log/, serving the request log file as an
// attachment. Before the first request is logged the file may not
// exist yet.
func GetLog(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := os.Stat(path); err != nil {
			return respondStatus(c, fiber.StatusNotFound)
		}
		return c.Download(path, "log")
	}
}
