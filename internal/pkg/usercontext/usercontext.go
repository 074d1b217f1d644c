package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsdesk/app/models"
)

// UserContext represents the authenticated caller of a request
type UserContext struct {
	UserID     uint        `json:"user_id"`
	Username   string      `json:"username"`
	Role       models.Role `json:"role"`
	IsLoggedIn bool        `json:"is_logged_in"`
}

// Actor returns the identity passed on to service calls.
func (u UserContext) Actor() models.Actor {
	return models.Actor{ID: u.UserID, Username: u.Username, Role: u.Role}
}

// SetUserContext stores the caller on the fiber context
func SetUserContext(c *fiber.Ctx, u UserContext) {
	c.Locals(KeyUserContext, u)
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{IsLoggedIn: false}
}

// GetActor returns the caller identity for service calls
func GetActor(c *fiber.Ctx) models.Actor {
	return GetUserContext(c).Actor()
}
