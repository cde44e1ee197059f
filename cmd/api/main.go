package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/anaizpurua/ekobide/internal/adapters/http"
	natsadapter "github.com/anaizpurua/ekobide/internal/adapters/nats"
	"github.com/anaizpurua/ekobide/internal/adapters/nominatim"
	"github.com/anaizpurua/ekobide/internal/adapters/overpass"
	"github.com/anaizpurua/ekobide/internal/adapters/postgres"
	"github.com/anaizpurua/ekobide/internal/adapters/valkey"
	"github.com/anaizpurua/ekobide/internal/core/ports"
	"github.com/anaizpurua/ekobide/internal/core/usecases"
	"github.com/anaizpurua/ekobide/internal/pkg/config"
	"github.com/anaizpurua/ekobide/internal/pkg/logging"
	"github.com/anaizpurua/ekobide/internal/pkg/metrics"
	"github.com/anaizpurua/ekobide/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("ekobide-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Export pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Cache. Assign the interface only on success so a failed connect leaves
	// it nil rather than wrapping a typed-nil pointer.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS (JetStream publisher for generated itineraries)
	var events ports.EventPublisher
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer publisher.Close()
		events = publisher
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// External services
	geocoder := nominatim.New(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
		cfg.Geocoder.RequestsPerSecond,
	)
	poiSource := overpass.New(cfg.POI.Endpoint, time.Duration(cfg.POI.TimeoutSeconds)*time.Second)

	// Repos
	itineraryRepo := postgres.NewItineraryRepo(db)
	transportRepo := postgres.NewTransportModeRepo(db)

	// Use cases
	composer, err := usecases.NewComposer(usecases.DefaultFallbackCatalog())
	if err != nil {
		log.Fatalf("composer: %v", err)
	}
	itinerarySvc := usecases.NewItineraryService(
		geocoder, poiSource, itineraryRepo, cacheSvc, events, composer,
		usecases.ItineraryOptions{
			POIRadiusMeters: cfg.Itinerary.POIRadiusMeters,
			MaxDays:         cfg.Itinerary.MaxDays,
		})
	carbonSvc := usecases.NewCarbonService(transportRepo, cacheSvc)

	deps := &http.Dependencies{
		Itineraries: itinerarySvc,
		Carbon:      carbonSvc,
		NATS:        natsConn,
		DB:          db,
		Cache:       cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Ekobide API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.ekobide.eus",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
