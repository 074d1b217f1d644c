package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
	"github.com/newsdesk/newsdesk/internal/pkg/newsroom"
	"github.com/newsdesk/newsdesk/internal/pkg/usercontext"
)

type EngagementService interface {
	ToggleLike(caller models.Actor, newsID uint) (*newsroom.LikeResult, error)
	AddComment(caller models.Actor, newsID uint, content string) (*models.Comment, error)
	ListComments(newsID uint) ([]models.Comment, error)
	Share(caller models.Actor, newsID uint, platform string) (*models.Share, error)
	Counts(newsID uint) (*models.EngagementCounts, error)
}

// InteractionController handles likes, comments and shares
type InteractionController struct {
	engagement EngagementService
}

func NewInteractionController(engagement EngagementService) *InteractionController {
	return &InteractionController{engagement: engagement}
}

type commentRequest struct {
	Content string `json:"content" form:"content"`
}

type shareRequest struct {
	Platform string `json:"platform" form:"platform"`
}

func (ic *InteractionController) HandleToggleLike(c *fiber.Ctx) error {
	id, err := newsIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	result, err := ic.engagement.ToggleLike(usercontext.GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	message := "News unliked successfully"
	if result.Liked {
		message = "News liked successfully"
	}
	return respond(c, fiber.StatusOK, message, result)
}

func (ic *InteractionController) HandleAddComment(c *fiber.Ctx) error {
	id, err := newsIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperror.BadRequest(newsroom.MsgCommentRequired))
	}
	comment, err := ic.engagement.AddComment(usercontext.GetActor(c), id, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "Comment added successfully", comment)
}

func (ic *InteractionController) HandleListComments(c *fiber.Ctx) error {
	id, err := newsIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	comments, err := ic.engagement.ListComments(id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Comments fetched successfully", comments)
}

// HandleShare records a share. The body is optional.
func (ic *InteractionController) HandleShare(c *fiber.Ctx) error {
	id, err := newsIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	var req shareRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, apperror.BadRequest("Invalid request body"))
		}
	}
	share, err := ic.engagement.Share(usercontext.GetActor(c), id, req.Platform)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "News shared successfully", share)
}

func (ic *InteractionController) HandleCounts(c *fiber.Ctx) error {
	id, err := newsIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	counts, err := ic.engagement.Counts(id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Counts fetched successfully", counts)
}
