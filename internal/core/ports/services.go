package ports

import (
	"context"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// Geocoder resolves a free-text place name to a coordinate.
//
// Implementations return domain.ErrGeocodeNoResult for a query with zero
// matches and domain.ErrGeocodingUnavailable for transport failures; they do
// not substitute default coordinates themselves. The degrade-vs-abort policy
// belongs to the caller.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (*domain.GeocodeResult, error)
}

// POISource queries an external open-data service for tagged point records
// near a coordinate. A failed or malformed response is reported as
// domain.ErrPOIServiceUnavailable; callers treat that as zero candidates.
type POISource interface {
	FetchNearby(ctx context.Context, center domain.GeoPoint, radiusMeters int) ([]domain.RawPOI, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishItineraryGenerated(ctx context.Context, it *domain.Itinerary) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
