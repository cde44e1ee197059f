//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anaizpurua/ekobide/internal/adapters/http"
	"github.com/anaizpurua/ekobide/internal/adapters/postgres"
	"github.com/anaizpurua/ekobide/internal/core/domain"
	"github.com/anaizpurua/ekobide/internal/core/usecases"
	"github.com/anaizpurua/ekobide/internal/pkg/config"
)

// setupTestDB connects to the test database.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("ekobide-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	db := &postgres.DB{Pool: pool}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	return db
}

// setupTestDeps creates dependencies with a real DB and mocked external services.
func setupTestDeps(t *testing.T, db *postgres.DB) *http.Dependencies {
	composer, err := usecases.NewComposer(usecases.DefaultFallbackCatalog())
	if err != nil {
		t.Fatalf("composer: %v", err)
	}

	itineraryRepo := postgres.NewItineraryRepo(db)
	transportRepo := postgres.NewTransportModeRepo(db)

	return &http.Dependencies{
		Itineraries: usecases.NewItineraryService(
			&mockGeocoder{}, &mockPOISource{}, itineraryRepo, nil, nil, composer,
			usecases.ItineraryOptions{}),
		Carbon: usecases.NewCarbonService(transportRepo, nil),
		DB:     db,
	}
}

// TestCreateAndGetItinerary_Integration exercises the full persist/read cycle.
func TestCreateAndGetItinerary_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	body := `{"source_city":"Bilbao","destination_city":"Paris","number_of_days":2}`
	req := httptest.NewRequest("POST", "/v1/itineraries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created domain.Itinerary
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a persisted id")
	}

	req = httptest.NewRequest("GET", "/v1/itineraries/"+created.ID, nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var fetched domain.Itinerary
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(fetched.Days) != 2 {
		t.Errorf("expected 2 days after round trip, got %d", len(fetched.Days))
	}
	if fetched.Source.City != created.Source.City {
		t.Errorf("expected source %s, got %s", created.Source.City, fetched.Source.City)
	}
}

// TestTransportModes_Integration reads the seeded transport mode table.
func TestTransportModes_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/transport/options", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var modes []domain.TransportMode
	if err := json.NewDecoder(resp.Body).Decode(&modes); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(modes) < 6 {
		t.Errorf("expected the 6 seeded modes, got %d", len(modes))
	}
	for i := 1; i < len(modes); i++ {
		if modes[i].GramsPerKm < modes[i-1].GramsPerKm {
			t.Error("expected modes ordered by emission factor")
		}
	}
}
