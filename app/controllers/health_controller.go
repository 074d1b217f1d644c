package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Pinger checks that a dependency answers
type Pinger interface {
	Ping() error
}

// PingFunc adapts a function to Pinger
type PingFunc func() error

func (f PingFunc) Ping() error { return f() }

// JobStats reports background queue counters
type JobStats interface {
	Stats(ctx context.Context) (map[string]int64, error)
}

// HealthController reports the state of the backing services
type HealthController struct {
	required map[string]Pinger
	optional map[string]Pinger
	jobs     JobStats
}

// NewHealthController takes the checks that make the service unhealthy when
// they fail, and the ones that only degrade it.
func NewHealthController(required, optional map[string]Pinger) *HealthController {
	return &HealthController{required: required, optional: optional}
}

// WithJobs adds the job queue counters to the report.
func (hc *HealthController) WithJobs(jobs JobStats) *HealthController {
	hc.jobs = jobs
	return hc
}

func (hc *HealthController) HandleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	checks := make(map[string]interface{}, len(hc.required)+len(hc.optional)+1)

	for name, p := range hc.required {
		if err := p.Ping(); err != nil {
			log.Errorf("[Health] %s check failed: %v", name, err)
			checks[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	for name, p := range hc.optional {
		if err := p.Ping(); err != nil {
			log.Warnf("[Health] %s check failed: %v", name, err)
			checks[name] = "unavailable"
			continue
		}
		checks[name] = "ok"
	}

	if hc.jobs != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
		stats, err := hc.jobs.Stats(ctx)
		cancel()
		if err != nil {
			log.Warnf("[Health] job stats failed: %v", err)
			checks["jobs"] = "unavailable"
		} else {
			checks["jobs"] = stats
		}
	}

	message := "Service is healthy"
	if status != fiber.StatusOK {
		message = "Service is unhealthy"
	}
	return respond(c, status, message, checks)
}
