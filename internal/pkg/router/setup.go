package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsdesk/app/controllers"
	"github.com/newsdesk/newsdesk/internal/pkg/middleware"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the handlers and settings the routes are built from
type Dependencies struct {
	Tokens      middleware.TokenParser
	Auth        *controllers.AuthController
	News        *controllers.NewsController
	Users       *controllers.UserController
	Interaction *controllers.InteractionController
	Health      *controllers.HealthController

	UploadDir string
	// RateLimitMax is the number of API requests per client and minute, 0 disables the limiter
	RateLimitMax int
	// LimiterStorage backs the rate limiter, nil keeps the counters in memory
	LimiterStorage fiber.Storage
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// API routes first so the catch-all 404 of the http router never shadows them
	setup(app, NewApiRouter(deps), NewHttpRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
