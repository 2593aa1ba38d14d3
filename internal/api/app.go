package api

import (
	"time"

	"vehicle-fit/internal/metrics"
	"vehicle-fit/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
	AccessLog    bool
}

// NewApp builds the Fiber app with middleware and routes wired to the service.
func NewApp(cfg AppConfig, feasibilityService *service.FeasibilityService) *fiber.App {
	metrics.RegisterDefault()

	app := fiber.New(fiber.Config{
		AppName:      "Vehicle Fit v1.0",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}
	app.Use(RequestSizeLimiter(cfg.BodyLimit))
	app.Use(MetricsMiddleware())

	SetupRoutes(app, feasibilityService)
	return app
}
