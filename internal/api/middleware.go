package api

import (
	"strconv"
	"time"

	"vehicle-fit/internal/domain"
	"vehicle-fit/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

func RequestSizeLimiter(maxBytes int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Request().Header.ContentLength() > maxBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(domain.ErrorResponse{
				Error: domain.ErrorDetail{
					Code:    fiber.StatusRequestEntityTooLarge,
					Message: "Request body too large",
				},
			})
		}
		return c.Next()
	}
}

// MetricsMiddleware records request counts and latency per route pattern,
// so session ids do not explode label cardinality.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = describeError(err).Code
		}

		path := c.Route().Path
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		metrics.HTTPRequests.WithLabelValues(labels...).Inc()
		metrics.HTTPDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}
