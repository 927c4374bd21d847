package handler

import (
	"context"
	"time"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const cachePingTimeout = 2 * time.Second

// StoreHealth reports collections that degraded to empty on read.
type StoreHealth interface {
	Health() store.Health
}

type HealthHandler struct {
	store   StoreHealth
	cache   domain.Cache
	version string
	now     func() time.Time
}

func NewHealthHandler(s StoreHealth, cache domain.Cache, version string) *HealthHandler {
	return &HealthHandler{store: s, cache: cache, version: version, now: time.Now}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to Quiz Quest Courses API",
		"version": h.version,
		"docs":    "/docs",
	})
}

// Health answers 200 while the store is readable, even if some collections
// were found corrupt; those are listed under store.degraded.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "healthy"
	storeHealth := h.store.Health()
	if !storeHealth.Healthy {
		status = "degraded"
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), cachePingTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Cache ping failed", zap.Error(err))
			cacheStatus = "unavailable"
			status = "degraded"
		} else {
			cacheStatus = "ok"
		}
	}

	return c.JSON(fiber.Map{
		"status":    status,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"store":     storeHealth,
		"cache":     cacheStatus,
	})
}
