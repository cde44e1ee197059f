package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/anaizpurua/ekobide/internal/core/domain"
	"github.com/anaizpurua/ekobide/internal/core/ports"
	"github.com/anaizpurua/ekobide/internal/core/usecases"
)

// PlanActivities holds the activity implementations for the planning workflow.
type PlanActivities struct {
	Itineraries *usecases.ItineraryService
	Events      ports.EventPublisher
}

// ResolveEndpoints geocodes both cities, degrading each failure to the origin
// point the same way interactive generation does.
func (a *PlanActivities) ResolveEndpoints(ctx context.Context, source, destination string) ([]domain.GeocodeResult, error) {
	src, err := a.Itineraries.ResolveCity(ctx, source)
	if err != nil {
		src = &domain.GeocodeResult{City: source, Location: domain.Origin}
	}
	dst, err := a.Itineraries.ResolveCity(ctx, destination)
	if err != nil {
		dst = &domain.GeocodeResult{City: destination, Location: domain.Origin}
	}
	return []domain.GeocodeResult{*src, *dst}, nil
}

// ComposeItinerary runs the full generation pipeline and persists the result.
func (a *PlanActivities) ComposeItinerary(ctx context.Context, req domain.ItineraryRequest) (*domain.Itinerary, error) {
	itinerary, err := a.Itineraries.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate itinerary: %w", err)
	}
	if itinerary.ID == "" {
		return nil, fmt.Errorf("itinerary for %s to %s was not persisted",
			req.SourceCity, req.DestinationCity)
	}
	return itinerary, nil
}

// PublishItinerary announces a generated itinerary on the event bus.
func (a *PlanActivities) PublishItinerary(ctx context.Context, itinerary *domain.Itinerary) error {
	if a.Events == nil {
		log.Printf("PUBLISH (no publisher) → itinerary=%s", itinerary.ID)
		return nil
	}
	if err := a.Events.PublishItineraryGenerated(ctx, itinerary); err != nil {
		return fmt.Errorf("publish itinerary %s: %w", itinerary.ID, err)
	}
	return nil
}

// DeleteItinerary removes a persisted itinerary (saga compensation / rollback).
func (a *PlanActivities) DeleteItinerary(ctx context.Context, id string) error {
	if err := a.Itineraries.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete itinerary %s: %w", id, err)
	}
	log.Printf("Itinerary %s deleted (saga compensation)", id)
	return nil
}
