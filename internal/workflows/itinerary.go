package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// PlanItineraryInput is the input for the planning workflow.
type PlanItineraryInput struct {
	SourceCity      string
	DestinationCity string
	NumberOfDays    int
}

// PlanItineraryWorkflow orchestrates endpoint resolution, itinerary
// composition, and event publication. If publishing fails, the persisted
// itinerary is deleted again (saga compensation).
func PlanItineraryWorkflow(ctx workflow.Context, input PlanItineraryInput) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting itinerary planning workflow",
		"source", input.SourceCity, "destination", input.DestinationCity, "days", input.NumberOfDays)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Resolve both endpoints. Failures degrade rather than abort, so
	// this mostly serves to warm the geocode cache before composition.
	var endpoints []domain.GeocodeResult
	if err := workflow.ExecuteActivity(ctx, "ResolveEndpoints",
		input.SourceCity, input.DestinationCity).Get(ctx, &endpoints); err != nil {
		return "", err
	}

	// Step 2: Compose and persist the itinerary
	var itinerary domain.Itinerary
	req := domain.ItineraryRequest{
		SourceCity:      input.SourceCity,
		DestinationCity: input.DestinationCity,
		NumberOfDays:    input.NumberOfDays,
	}
	if err := workflow.ExecuteActivity(ctx, "ComposeItinerary", req).Get(ctx, &itinerary); err != nil {
		return "", err
	}

	// Step 3: Publish the generated event
	if err := workflow.ExecuteActivity(ctx, "PublishItinerary", &itinerary).Get(ctx, nil); err != nil {
		logger.Warn("publish failed, compensating", "id", itinerary.ID, "error", err)
		// Compensate: remove the persisted itinerary
		_ = workflow.ExecuteActivity(ctx, "DeleteItinerary", itinerary.ID).Get(ctx, nil)
		return "", err
	}

	logger.Info("Itinerary planned", "id", itinerary.ID)
	return itinerary.ID, nil
}
