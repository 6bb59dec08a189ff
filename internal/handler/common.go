package handler

import (
	"sinfoni-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// currentActor reads the session payload the guard attached to the request
// context.
func currentActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if id, ok := c.Locals("user_id").(uint); ok {
		actor.ID = id
	}
	if name, ok := c.Locals("user_name").(string); ok {
		actor.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	if role, ok := c.Locals("user_role").(string); ok {
		actor.Role = role
	}
	return actor
}
