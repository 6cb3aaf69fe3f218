package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that lets through only tokens whose role
// claim is one of roles. It must run after JWTMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userId").(uint); !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized: User ID not found")
		}

		role, _ := c.Locals("role").(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return ErrorResponse(c, fiber.StatusForbidden, "You do not have permission to access this resource!")
	}
}
