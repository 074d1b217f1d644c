package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/internal/pkg/middleware"
)

type ApiRouter struct {
	deps Dependencies
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	handlers := []fiber.Handler{cors.New()}
	if h.deps.RateLimitMax > 0 {
		handlers = append(handlers, limiter.New(limiter.Config{
			Max:        h.deps.RateLimitMax,
			Expiration: time.Minute,
			Storage:    h.deps.LimiterStorage,
			LimitReached: func(c *fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later")
			},
		}))
	}
	api := app.Group("/api", handlers...)

	requireAuth := middleware.RequireAuth(h.deps.Tokens)

	auth := api.Group("/auth")
	auth.Post("/register", h.deps.Auth.HandleRegister)
	auth.Post("/login", h.deps.Auth.HandleLogin)
	auth.Get("/logout", h.deps.Auth.HandleLogout)
	auth.Post("/create-admin", requireAuth, middleware.CheckRole(models.RoleSuperAdmin), h.deps.Auth.HandleCreateAdmin)
	auth.Post("/create-editor", requireAuth, middleware.CheckRole(models.RoleAdmin), h.deps.Auth.HandleCreateEditor)
	auth.Post("/create-journalist", requireAuth, middleware.CheckRole(models.RoleEditor), h.deps.Auth.HandleCreateJournalist)

	news := api.Group("/news")
	news.Post("/create", requireAuth, middleware.CheckRole(models.RoleJournalist, models.RoleEditor), h.deps.News.HandleCreateNews)
	news.Get("/public", h.deps.News.HandlePublicNews)
	news.Get("/category/:category", h.deps.News.HandleNewsByCategory)
	news.Get("/trending", h.deps.News.HandleTrendingNews)

	journalist := []fiber.Handler{requireAuth, middleware.CheckRole(models.RoleJournalist)}
	news.Get("/my-news", append(journalist, h.deps.News.HandleMyNews)...)
	news.Get("/my-pending-news", append(journalist, h.deps.News.HandleMyNewsByStatus(models.NewsStatusPending))...)
	news.Get("/my-approved-news", append(journalist, h.deps.News.HandleMyNewsByStatus(models.NewsStatusApproved))...)
	news.Get("/my-rejected-news", append(journalist, h.deps.News.HandleMyNewsByStatus(models.NewsStatusRejected))...)

	news.Get("/pending", requireAuth, middleware.CheckRole(models.RoleEditor), h.deps.News.HandlePendingNews)
	news.Put("/:newsId<int>/status", requireAuth, middleware.CheckRole(models.RoleEditor), h.deps.News.HandleUpdateStatus)
	// registered last, the parameter would swallow the fixed paths above
	news.Get("/:newsId<int>", h.deps.News.HandleNewsDetail)

	users := api.Group("/users", requireAuth)
	users.Get("/assigned-journalists", middleware.CheckRole(models.RoleEditor), h.deps.Users.HandleAssignedJournalists)

	interaction := api.Group("/interaction/:newsId<int>", requireAuth)
	interaction.Post("/like", h.deps.Interaction.HandleToggleLike)
	interaction.Post("/comment", h.deps.Interaction.HandleAddComment)
	interaction.Get("/comments", h.deps.Interaction.HandleListComments)
	interaction.Post("/share", h.deps.Interaction.HandleShare)
	interaction.Get("/counts", h.deps.Interaction.HandleCounts)
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}
