package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HttpRouter serves everything outside /api
type HttpRouter struct {
	deps Dependencies
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	if h.deps.UploadDir != "" {
		app.Static("/uploads", h.deps.UploadDir, fiber.Static{
			CacheDuration: 10 * time.Second,
			Compress:      false,
			MaxAge:        604800, // 7 days
		})
	}

	if h.deps.Health != nil {
		app.Get("/health", h.deps.Health.HandleHealth)
	}

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	return &HttpRouter{deps: deps}
}
