package router

import (
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis"
	goredis "github.com/redis/go-redis/v9"
)

// limiterDatabase keeps the rate limit counters apart from the cache (DB 0).
const limiterDatabase = 1

// NewLimiterStorage stores rate limit counters on the redis server behind client.
// It returns nil when there is no client, the limiter then counts in memory.
func NewLimiterStorage(client *goredis.Client) fiber.Storage {
	if client == nil {
		return nil
	}

	host := "localhost"
	port := 6379
	opts := client.Options()
	if h, p, err := net.SplitHostPort(opts.Addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Username: opts.Username,
		Password: opts.Password,
		Database: limiterDatabase,
		Reset:    false,
	})
}
