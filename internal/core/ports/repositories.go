package ports

import (
	"context"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// ItineraryRepository persists generated itineraries.
type ItineraryRepository interface {
	// Save stores a finished itinerary and returns its assigned ID.
	Save(ctx context.Context, it *domain.Itinerary) (string, error)
	// List returns stored itineraries, newest first.
	List(ctx context.Context, offset, limit int) ([]domain.Itinerary, int, error)
	GetByID(ctx context.Context, id string) (*domain.Itinerary, error)
	Delete(ctx context.Context, id string) error
}

// TransportModeRepository reads the seeded transport emission factors.
type TransportModeRepository interface {
	// List returns all modes ordered by ascending emission factor.
	List(ctx context.Context) ([]domain.TransportMode, error)
}
