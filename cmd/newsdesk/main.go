package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/newsdesk/newsdesk/app/controllers"
	"github.com/newsdesk/newsdesk/app/repository"
	"github.com/newsdesk/newsdesk/internal/pkg/accounts"
	"github.com/newsdesk/newsdesk/internal/pkg/cache"
	"github.com/newsdesk/newsdesk/internal/pkg/database"
	"github.com/newsdesk/newsdesk/internal/pkg/env"
	"github.com/newsdesk/newsdesk/internal/pkg/jobqueue"
	"github.com/newsdesk/newsdesk/internal/pkg/metrics/counter"
	"github.com/newsdesk/newsdesk/internal/pkg/newsroom"
	"github.com/newsdesk/newsdesk/internal/pkg/router"
	"github.com/newsdesk/newsdesk/internal/pkg/s3backup"
	"github.com/newsdesk/newsdesk/internal/pkg/security"
	"github.com/newsdesk/newsdesk/internal/pkg/storage"
	"github.com/newsdesk/newsdesk/internal/pkg/upload"
)

// bodyLimit leaves room for the form fields next to the largest upload
const bodyLimit = upload.MaxFileSize + 2*1024*1024

func main() {
	app, background := NewApplication()
	if background != nil {
		background.Start()
	}

	go func() {
		addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
		if err := app.Listen(addr); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if background != nil {
		background.Stop()
	}
}

// NewApplication wires the services and routes. The returned manager runs the
// background work and is nil when redis is unreachable.
func NewApplication() (*fiber.App, *jobqueue.Manager) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	basePath := findBasePath()
	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalFactory()

	signer := security.NewTokenSigner(env.GetEnv("APP_SECRET", ""), env.GetEnv("TOKEN_ISSUER", "newsdesk"))
	if len(signer.Secret) == 0 {
		log.Fatal("APP_SECRET must be set")
	}

	accountService := accounts.NewService(repos.GetUserRepository(), signer)
	seedSuperAdmin(accountService)

	uploadDir := env.GetEnv("UPLOAD_DIR", filepath.Join(basePath, "uploads"))
	mediaStore, err := storage.NewMediaStore(uploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	submission := newsroom.NewSubmissionService(repos.GetNewsRepository(), mediaStore)
	query := newsroom.NewQueryService(repos.GetNewsRepository(), repos.GetUserRepository())

	var manager *jobqueue.Manager
	var queue *jobqueue.Queue
	if cache.Available() {
		views := counter.NewViewCounter(cache.GetClient(), db)
		query.WithViewCounter(views)

		queue = jobqueue.NewQueue(cache.GetClient(), env.GetEnvInt("JOBQUEUE_WORKERS", 3))
		if mirror := newMediaMirror(queue, mediaStore); mirror != nil {
			submission.WithMirror(mirror)
		}
		flushEvery := time.Duration(env.GetEnvInt("COUNTER_FLUSH_SECONDS", 5)) * time.Second
		manager = jobqueue.NewManager(queue, views, flushEvery)
	} else {
		log.Println("Cache unreachable: views are written directly, media mirroring is off")
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    int(bodyLimit),
		ErrorHandler: controllers.ErrorHandler,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: filepath.Join(basePath, "public/docs/v1/openapi.yml"),
		Path:     "v1",
	}))

	var limiterStorage fiber.Storage
	if cache.Available() {
		limiterStorage = router.NewLimiterStorage(cache.GetClient())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}

	health := controllers.NewHealthController(
		map[string]controllers.Pinger{
			"database": controllers.PingFunc(sqlDB.Ping),
			"storage":  controllers.PingFunc(mediaStore.HealthCheck),
		},
		map[string]controllers.Pinger{
			"cache": controllers.PingFunc(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				return cache.GetClient().Ping(ctx).Err()
			}),
		},
	)
	if queue != nil {
		health.WithJobs(queue)
	}

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Tokens: signer,
		Auth:   controllers.NewAuthController(accountService),
		News: controllers.NewNewsController(
			submission,
			newsroom.NewReviewService(repos.GetNewsRepository()),
			query,
		),
		Users:          controllers.NewUserController(query),
		Interaction:    controllers.NewInteractionController(newsroom.NewEngagementService(repos.GetNewsRepository(), repos.GetEngagementRepository())),
		Health:         health,
		UploadDir:      uploadDir,
		RateLimitMax:   env.GetEnvInt("RATE_LIMIT_MAX", 100),
		LimiterStorage: limiterStorage,
	})

	return app, manager
}

// findBasePath locates the project root from the usual working directories
func findBasePath() string {
	basePaths := []string{
		"./",     // Current directory
		"../../", // From cmd/newsdesk to project root
		"../../../",
	}
	for _, path := range basePaths {
		if _, err := os.Stat(filepath.Join(path, "public/docs/v1/openapi.yml")); err == nil {
			return path
		}
	}
	panic("Could not find project root directory")
}

func seedSuperAdmin(svc *accounts.Service) {
	username := env.GetEnv("SUPER_ADMIN_USERNAME", "")
	if username == "" {
		return
	}
	created, err := svc.EnsureSuperAdmin(accounts.Input{
		Username: username,
		Email:    env.GetEnv("SUPER_ADMIN_EMAIL", ""),
		Password: env.GetEnv("SUPER_ADMIN_PASSWORD", ""),
		Mobile:   env.GetEnv("SUPER_ADMIN_MOBILE", ""),
	})
	if err != nil {
		log.Fatalf("Failed to seed super admin: %v", err)
	}
	if created {
		log.Printf("Super admin %q created", username)
	}
}

// newMediaMirror returns nil unless the S3 mirror is enabled and reachable
func newMediaMirror(queue *jobqueue.Queue, store *storage.MediaStore) *jobqueue.MediaMirror {
	cfg, err := s3backup.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid S3 configuration: %v", err)
	}
	if !cfg.IsEnabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client, err := s3backup.NewClient(ctx, cfg)
	if err != nil {
		log.Printf("S3 mirror disabled: %v", err)
		return nil
	}
	return jobqueue.NewMediaMirror(queue, client, cfg, store)
}
