package handler

import (
	"authd/internal/auth/service"
	"github.com/gofiber/fiber/v2"
)

const localsEmailKey = "authEmail"

// RequireAuth guards a route with the access token cookie. On success the
// claim subject is stashed in locals for the downstream handler.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	token := c.Cookies(accessTokenCookie)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Access token required",
		})
	}

	claims, err := h.tokens.Verify(token, service.AccessToken)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Invalid token",
		})
	}

	c.Locals(localsEmailKey, claims.Email)

	return c.Next()
}
