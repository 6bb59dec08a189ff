package handler

import (
	"errors"
	"strconv"

	"sinfoni-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return uint(id), err
}

// GetUsers lists all accounts.
// GET /api/v1/admin/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.List()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error fetching users"})
	}
	return c.JSON(users)
}

// CreateUser adds an account.
// POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	user, err := h.userService.Create(&req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.Status(400).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "User created successfully", "user": user})
}

// UpdateUser edits an account; a blank password keeps the current one.
// PUT /api/v1/admin/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	if err := h.userService.Update(id, &req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "User updated successfully"})
}

// DeleteUser removes an account.
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	if err := h.userService.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error deleting user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// GetMapping returns the dealer ids a user is restricted to.
// GET /api/v1/admin/users/mapping?userId=N
func (h *UserHandler) GetMapping(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil || userID == 0 {
		return c.Status(400).JSON(fiber.Map{"message": "User ID is required"})
	}

	ids, err := h.userService.DealerMapping(uint(userID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error fetching mappings"})
	}
	if ids == nil {
		ids = []uint{}
	}
	return c.JSON(ids)
}

type UpdateMappingRequest struct {
	UserID    uint   `json:"userId"`
	DealerIDs []uint `json:"dealerIds"`
}

// UpdateMapping replaces a user's dealer assignments atomically.
// POST /api/v1/admin/users/mapping
func (h *UserHandler) UpdateMapping(c *fiber.Ctx) error {
	var req UpdateMappingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}
	if req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid data"})
	}

	if err := h.userService.ReplaceDealerMapping(req.UserID, req.DealerIDs); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, service.ErrDealerNotFound):
			return c.Status(400).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"message": "Error updating mappings"})
		}
	}

	return c.JSON(fiber.Map{"message": "Mappings updated successfully"})
}

// GetProfile returns the caller's own account.
// GET /api/v1/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	actor := currentActor(c)

	user, err := h.userService.Profile(actor.ID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"message": "User not found"})
	}
	return c.JSON(user)
}

// UpdateProfile edits the caller's own name and optionally password.
// PUT /api/v1/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	actor := currentActor(c)

	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	if err := h.userService.UpdateProfile(actor.ID, &req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Profile updated successfully"})
}
