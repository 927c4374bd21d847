package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestObserver records request counts and latencies.
type RequestObserver interface {
	ObserveRequest(method, endpoint string, status int, d time.Duration)
}

// Metrics reports every request to obs, labelled by route pattern rather
// than raw path so ids do not explode label cardinality.
func Metrics(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		endpoint := c.Route().Path
		obs.ObserveRequest(c.Method(), endpoint, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}
