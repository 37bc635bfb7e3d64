package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"imageconv/internal/repository"
)

// AuthUserLocalKey is the key under which the authenticated user id is
// stored in Fiber's context locals.
const AuthUserLocalKey = "user_id"

// BearerAuth authenticates requests with an Authorization header of the
// form "Bearer <token>", where the token is a user id known to the
// repository.
//
// A header that does not split into exactly two space-separated fields
// is a malformed request (400). A well-formed token that matches no
// user is unauthorized (401). The scheme word itself is not inspected.
func BearerAuth(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields := strings.Fields(c.Get(fiber.HeaderAuthorization))
		if len(fields) != 2 {
			return fiber.ErrBadRequest
		}

		user, err := users.FindByID(c.UserContext(), fields[1])
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(AuthUserLocalKey, user.ID)
		return c.Next()
	}
}
