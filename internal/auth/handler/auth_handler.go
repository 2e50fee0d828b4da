package handler

import (
	"errors"
	"time"

	"authd/config"
	"authd/internal/auth/dto"
	"authd/internal/auth/service"
	autherror "authd/internal/errors"
	"github.com/gofiber/fiber/v2"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

type AuthHandler struct {
	sessions *service.SessionService
	tokens   service.TokenIssuer
	secure   bool
}

func NewAuthHandler(sessions *service.SessionService, tokens service.TokenIssuer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		tokens:   tokens,
		secure:   cfg.SecureCookies(),
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if _, err := h.sessions.Register(c.Context(), input); err != nil {
		if errors.Is(err, autherror.ErrUserAlreadyExists) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "User already exists",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error creating user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	input.IPAddress = c.IP()

	pair, err := h.sessions.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrUserNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "User not found"})
		case errors.Is(err, autherror.ErrInvalidPassword):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid password"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error logging in"})
		}
	}

	h.setAuthCookies(c, pair)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":      "Login successful",
		"user":         dto.UserOutput{Email: input.Email},
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	presented := c.Cookies(refreshTokenCookie)

	pair, err := h.sessions.Refresh(c.Context(), presented)
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrRefreshTokenRequired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Refresh token required"})
		case errors.Is(err, autherror.ErrInvalidRefreshToken):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Invalid refresh token"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error refreshing token"})
		}
	}

	h.setAuthCookies(c, pair)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":      "Token refreshed successfully",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout(c.Context(), c.Cookies(refreshTokenCookie))

	h.clearAuthCookies(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// Me returns the identity established by RequireAuth.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	email, _ := c.Locals(localsEmailKey).(string)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": dto.UserOutput{Email: email},
	})
}

func (h *AuthHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "OK"})
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, pair *dto.TokenPair) {
	c.Cookie(h.authCookie(accessTokenCookie, pair.AccessToken, h.tokens.GetAccessTokenExpiry()))
	c.Cookie(h.authCookie(refreshTokenCookie, pair.RefreshToken, h.tokens.GetRefreshTokenExpiry()))
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		cookie := h.authCookie(name, "", 0)
		cookie.Expires = time.Now().Add(-time.Hour)
		cookie.MaxAge = -1
		c.Cookie(cookie)
	}
}

func (h *AuthHandler) authCookie(name, value string, maxAge time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
