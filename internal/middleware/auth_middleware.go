package middleware

import (
	"strings"
	"time"

	"sinfoni-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const sessionCookie = "token"

// SessionGuard verifies the session cookie on every request and enforces
// the path-prefix role gates. On success the decoded payload is attached
// to the request context for downstream handlers.
func SessionGuard(manager *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(sessionCookie)
		if token == "" {
			// Fallback for non-browser clients.
			if auth := c.Get("Authorization"); auth != "" {
				parts := strings.SplitN(auth, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
					token = parts[1]
				}
			}
		}

		result := Evaluate(c.Path(), token, manager.Validate)

		if result.ClearCookie {
			clearSessionCookie(c)
		}

		switch result.Decision {
		case Deny:
			return c.Status(401).JSON(fiber.Map{"message": "Unauthorized"})
		case Forbid:
			return c.Status(403).JSON(fiber.Map{"message": "Forbidden"})
		case RedirectLogin:
			return c.Redirect("/login")
		case RedirectHome:
			return c.Redirect("/dashboard")
		}

		if result.Claims != nil {
			c.Locals("user_id", result.Claims.UserID)
			c.Locals("user_name", result.Claims.Name)
			c.Locals("user_email", result.Claims.Email)
			c.Locals("user_role", result.Claims.Role)
		}

		return c.Next()
	}
}

// RequireRole gates a single route on the roles allowed to call it.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"message": "Unauthorized"})
		}

		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden: requires " + strings.Join(roles, " or ") + " role",
		})
	}
}

// SetSessionCookie issues the HTTP-only session cookie after login.
func SetSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookie is the logout path: sessions are stateless, so logout
// is nothing more than dropping the cookie.
func ClearSessionCookie(c *fiber.Ctx) {
	clearSessionCookie(c)
}
