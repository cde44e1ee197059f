package http

import (
	"github.com/nats-io/nats.go"

	"github.com/anaizpurua/ekobide/internal/adapters/postgres"
	"github.com/anaizpurua/ekobide/internal/adapters/valkey"
	"github.com/anaizpurua/ekobide/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Itineraries *usecases.ItineraryService
	Carbon      *usecases.CarbonService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
}
