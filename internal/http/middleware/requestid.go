package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id on the wire, in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the request id lives in context locals;
	// the request logger reads it from there.
	RequestIDLocalKey = "request_id"
)

// RequestID tags every request with an id so entries in the served log
// file can be correlated with a single upload or fetch. An id supplied
// by the client is kept, otherwise a fresh UUID is minted; either way it
// is stored in locals and echoed back on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
