package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsdesk/internal/pkg/usercontext"
)

// UserController serves editor views on journalists
type UserController struct {
	query QueryService
}

func NewUserController(query QueryService) *UserController {
	return &UserController{query: query}
}

// HandleAssignedJournalists lists the journalists the calling editor reviewed
func (uc *UserController) HandleAssignedJournalists(c *fiber.Ctx) error {
	items, err := uc.query.AssignedJournalists(usercontext.GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Assigned journalists fetched successfully", items)
}
