package middleware

import (
	"unimarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 otherwise.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Authentication required")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// RequireSeller ensures the session user has completed seller onboarding.
// The flag flips only when Stripe confirms the transfers capability.
func RequireSeller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Authentication required")
		}
		m, ok := user.(map[string]interface{})
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if seller, _ := m["seller"].(bool); !seller {
			return response.Error(c, "You need to onboard with Stripe to become a seller", fiber.StatusForbidden)
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}
