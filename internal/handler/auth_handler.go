package handler

import (
	"errors"

	"sinfoni-api/internal/middleware"
	"sinfoni-api/internal/service"
	"sinfoni-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	tokens      *jwt.Manager
}

func NewAuthHandler(authService service.AuthService, tokens *jwt.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Login verifies credentials and sets the HTTP-only session cookie.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Email and password are required"})
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAccountDeactivated) {
			return c.Status(403).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(401).JSON(fiber.Map{"message": service.ErrInvalidCredentials.Error()})
	}

	middleware.SetSessionCookie(c, result.Token, h.tokens.TTL())

	return c.JSON(fiber.Map{"user": result.User})
}

// Logout drops the session cookie. Sessions are stateless, so there is
// nothing to revoke server-side.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the session payload for the current cookie.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor := currentActor(c)
	if actor.ID == 0 {
		return c.Status(401).JSON(fiber.Map{"message": "Not authenticated"})
	}
	return c.JSON(fiber.Map{"user": fiber.Map{
		"id":    actor.ID,
		"name":  actor.Name,
		"email": actor.Email,
		"role":  actor.Role,
	}})
}

// ForgotPassword issues a reset link. The response never reveals whether
// the email exists.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}
	if req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Email is required"})
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error processing request"})
	}

	return c.JSON(fiber.Map{"message": "If this email exists in our system, a reset link has been sent."})
}

// ResetPassword consumes a reset token and stores the new password.
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}
	if req.Token == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Token and password are required"})
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			return c.Status(400).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"message": "Error processing request"})
	}

	return c.JSON(fiber.Map{"message": "Password has been reset successfully"})
}
