package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthDeps groups dependencies required by the health endpoint.
type HealthDeps struct {
	Postgres *pgxpool.Pool
	Redis    *redis.Client
}

// HealthHandler reports service liveness and backing store connectivity.
type HealthHandler struct {
	postgres *pgxpool.Pool
	redis    *redis.Client
}

// NewHealthHandler creates a health handler with the provided dependencies.
func NewHealthHandler(deps HealthDeps) *HealthHandler {
	return &HealthHandler{
		postgres: deps.Postgres,
		redis:    deps.Redis,
	}
}

// Register wires health routes onto the provided router.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/", h.Health)
	router.Get("/health", h.Health)
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := fiber.Map{
		"service": "snapbite",
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
	}

	ctx := requestContext(c)
	if h.postgres != nil {
		if err := h.postgres.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["postgres"] = "unreachable"
		} else {
			status["postgres"] = "ok"
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			status["status"] = "degraded"
			status["redis"] = "unreachable"
		} else {
			status["redis"] = "ok"
		}
	}

	if status["status"] == "degraded" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}
