package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
)

// Response is the envelope of every API response.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{
		StatusCode: status,
		Success:    status < fiber.StatusBadRequest,
		Message:    message,
		Data:       data,
	})
}

// respondError renders err. Only the message of an *apperror.Error is shown,
// anything else becomes a generic internal error.
func respondError(c *fiber.Ctx, err error) error {
	appErr := apperror.As(err)
	status := appErr.StatusCode()
	if status >= fiber.StatusInternalServerError {
		log.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return respond(c, status, appErr.Message, nil)
}

// ErrorHandler turns errors returned by handlers and middlewares, including
// fiber's own, into the response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		message := fiberErr.Message
		if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
			message = "Error uploading file: File too large"
		}
		if fiberErr.Code >= fiber.StatusInternalServerError {
			log.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
			message = "Internal server error"
		}
		return respond(c, fiberErr.Code, message, nil)
	}
	return respondError(c, err)
}

// newsIDParam reads the numeric :newsId route parameter.
func newsIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("newsId"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.BadRequest("Invalid news id")
	}
	return uint(id), nil
}
