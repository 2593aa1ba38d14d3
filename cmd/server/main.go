package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vehicle-fit/internal/api"
	"vehicle-fit/internal/catalog"
	"vehicle-fit/internal/config"
	"vehicle-fit/internal/service"
	"vehicle-fit/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load vehicle catalog: %v", err)
	}
	log.Printf("Loaded %d vehicles", cat.Len())

	store, closeStore := openSessionStore(cfg)
	defer closeStore()

	// Initialize services
	feasibilityService := service.NewFeasibilityService(cat, store)

	app := api.NewApp(api.AppConfig{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
		AccessLog:    true,
	}, feasibilityService)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		_ = app.Shutdown()
	}()

	log.Printf("Vehicle Fit API starting on port %s...\n", cfg.Port)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openSessionStore prefers Redis when REDIS_URL is set and reachable, and
// falls back to the in-process store otherwise.
func openSessionStore(cfg config.Config) (session.Store, func()) {
	if cfg.RedisURL != "" {
		rs, err := session.NewRedisStoreFromURL(cfg.RedisURL, cfg.SessionTTL)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err = rs.Ping(ctx)
			cancel()
			if err == nil {
				log.Printf("Sessions stored in Redis (ttl %s)", cfg.SessionTTL)
				return rs, func() { _ = rs.Close() }
			}
			_ = rs.Close()
		}
		log.Printf("Redis unavailable (%v), keeping sessions in memory", err)
	}

	log.Printf("Sessions stored in memory (ttl %s)", cfg.SessionTTL)
	return session.NewMemoryStore(cfg.SessionTTL), func() {}
}
