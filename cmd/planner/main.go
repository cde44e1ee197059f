package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/anaizpurua/ekobide/internal/adapters/nats"
	"github.com/anaizpurua/ekobide/internal/adapters/nominatim"
	"github.com/anaizpurua/ekobide/internal/adapters/overpass"
	"github.com/anaizpurua/ekobide/internal/adapters/postgres"
	"github.com/anaizpurua/ekobide/internal/adapters/valkey"
	"github.com/anaizpurua/ekobide/internal/core/ports"
	"github.com/anaizpurua/ekobide/internal/core/usecases"
	"github.com/anaizpurua/ekobide/internal/pkg/config"
	"github.com/anaizpurua/ekobide/internal/pkg/logging"
	"github.com/anaizpurua/ekobide/internal/workflows"
)

func main() {
	cfg, err := config.Load("ekobide-planner")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Assign the interface only on success so a failed connect leaves it nil
	// rather than wrapping a typed-nil pointer.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer publisher.Close()
	}

	geocoder := nominatim.New(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
		cfg.Geocoder.RequestsPerSecond,
	)
	poiSource := overpass.New(cfg.POI.Endpoint, time.Duration(cfg.POI.TimeoutSeconds)*time.Second)

	composer, err := usecases.NewComposer(usecases.DefaultFallbackCatalog())
	if err != nil {
		log.Fatalf("composer: %v", err)
	}

	// The publisher is injected into the workflow activity, not the service,
	// so the publish step runs under the workflow retry policy and its
	// failure triggers the delete compensation.
	itinerarySvc := usecases.NewItineraryService(
		geocoder, poiSource, postgres.NewItineraryRepo(db), cacheSvc, nil, composer,
		usecases.ItineraryOptions{
			POIRadiusMeters: cfg.Itinerary.POIRadiusMeters,
			MaxDays:         cfg.Itinerary.MaxDays,
		})

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.PlanItineraryWorkflow)
	activities := &workflows.PlanActivities{Itineraries: itinerarySvc}
	if publisher != nil {
		activities.Events = publisher
	}
	w.RegisterActivity(activities)

	slog.Info("planner worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
