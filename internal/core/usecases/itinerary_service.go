package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/anaizpurua/ekobide/internal/core/domain"
	"github.com/anaizpurua/ekobide/internal/core/ports"
	"github.com/anaizpurua/ekobide/internal/pkg/geospatial"
	"github.com/anaizpurua/ekobide/internal/pkg/metrics"
)

// ItineraryOptions tunes the generation pipeline.
type ItineraryOptions struct {
	POIRadiusMeters int
	MaxDays         int
}

// ItineraryService runs the end-to-end generation pipeline and fronts the
// itinerary store for reads.
type ItineraryService struct {
	geocoder ports.Geocoder
	pois     ports.POISource
	repo     ports.ItineraryRepository
	cache    ports.CacheService
	events   ports.EventPublisher
	composer *Composer
	opts     ItineraryOptions
}

// NewItineraryService creates a new ItineraryService.
func NewItineraryService(
	geocoder ports.Geocoder,
	pois ports.POISource,
	repo ports.ItineraryRepository,
	cache ports.CacheService,
	events ports.EventPublisher,
	composer *Composer,
	opts ItineraryOptions,
) *ItineraryService {
	if opts.POIRadiusMeters <= 0 {
		opts.POIRadiusMeters = 20000
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	return &ItineraryService{
		geocoder: geocoder,
		pois:     pois,
		repo:     repo,
		cache:    cache,
		events:   events,
		composer: composer,
		opts:     opts,
	}
}

// Generate builds a full itinerary for the request. External lookups degrade
// gracefully: a failed geocode pins the endpoint to {0,0}, a failed POI fetch
// leaves the day to the synthetic catalog. Only invalid input is fatal.
func (s *ItineraryService) Generate(ctx context.Context, req domain.ItineraryRequest) (*domain.Itinerary, error) {
	source := strings.TrimSpace(req.SourceCity)
	destination := strings.TrimSpace(req.DestinationCity)
	days := req.NumberOfDays

	if source == "" || destination == "" {
		return nil, fmt.Errorf("%w: source and destination cities are required", domain.ErrInvalidInput)
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: number of days must be at least 1", domain.ErrInvalidInput)
	}
	if days > s.opts.MaxDays {
		return nil, fmt.Errorf("%w: number of days must not exceed %d", domain.ErrInvalidInput, s.opts.MaxDays)
	}

	// Resolve both endpoints concurrently.
	var (
		wg       sync.WaitGroup
		src, dst domain.GeocodeResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		src = s.resolveOrDegrade(ctx, source)
	}()
	go func() {
		defer wg.Done()
		dst = s.resolveOrDegrade(ctx, destination)
	}()
	wg.Wait()

	distanceKm := geospatial.HaversineKm(src.Location.Lat, src.Location.Lon, dst.Location.Lat, dst.Location.Lon)
	waypoints, err := geospatial.Interpolate(src.Location, dst.Location, days)
	if err != nil {
		return nil, fmt.Errorf("interpolate route: %w", err)
	}

	// Fetch day candidates concurrently; composition below stays sequential
	// so name dedup is deterministic.
	candidates := make([][]domain.PointOfInterest, days)
	wg.Add(days)
	for i := 0; i < days; i++ {
		go func(i int) {
			defer wg.Done()
			// Day i is anchored at waypoint i+1, so day one already
			// moves away from the source city.
			candidates[i] = s.fetchCandidates(ctx, waypoints[i+1])
		}(i)
	}
	wg.Wait()

	dedup := NewDedupState()
	plans := make([]domain.DayPlan, days)
	for i := 0; i < days; i++ {
		plans[i] = s.composer.SelectDay(i+1, waypoints[i+1], candidates[i], dedup)
		for _, cat := range domain.Categories {
			if plans[i].ByCategory(cat).Synthetic {
				metrics.FallbackPOIs.WithLabelValues(string(cat)).Inc()
			}
		}
	}

	itinerary := &domain.Itinerary{
		Source:          src,
		Destination:     dst,
		TotalDistanceKm: distanceKm,
		Days:            plans,
		CreatedAt:       time.Now().UTC(),
	}

	if s.repo != nil {
		id, err := s.repo.Save(ctx, itinerary)
		if err != nil {
			slog.Error("failed to persist itinerary, returning it unsaved",
				"source", source, "destination", destination, "error", err)
		} else {
			itinerary.ID = id
			s.invalidateListCache(ctx)
		}
	}

	if s.events != nil && itinerary.ID != "" {
		if err := s.events.PublishItineraryGenerated(ctx, itinerary); err != nil {
			slog.Warn("failed to publish itinerary event", "id", itinerary.ID, "error", err)
		}
	}

	metrics.ItinerariesGenerated.Inc()
	metrics.ItineraryDays.Observe(float64(days))
	return itinerary, nil
}

// ResolveCity geocodes a place name through the cache. Unlike the pipeline it
// surfaces lookup failures to the caller.
func (s *ItineraryService) ResolveCity(ctx context.Context, place string) (*domain.GeocodeResult, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, fmt.Errorf("%w: place must not be empty", domain.ErrInvalidInput)
	}

	cacheKey := "geocode:" + strings.ToLower(place)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var result domain.GeocodeResult
			if err := json.Unmarshal(data, &result); err == nil {
				return &result, nil
			}
		}
	}

	start := time.Now()
	result, err := s.geocoder.Resolve(ctx, place)
	metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.GeocodeRequests.WithLabelValues("ok").Inc()

	// Cache for a day (place coordinates are effectively static)
	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 86400)
		}
	}
	return result, nil
}

// NearbyPOIs fetches and classifies map elements around a point.
func (s *ItineraryService) NearbyPOIs(ctx context.Context, center domain.GeoPoint, radiusMeters int) ([]domain.PointOfInterest, error) {
	if radiusMeters <= 0 {
		radiusMeters = s.opts.POIRadiusMeters
	}

	start := time.Now()
	raw, err := s.pois.FetchNearby(ctx, center, radiusMeters)
	metrics.POIFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.POIFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.POIFetches.WithLabelValues("ok").Inc()

	classified := make([]domain.PointOfInterest, 0, len(raw))
	for _, r := range raw {
		if poi, ok := Classify(r); ok {
			classified = append(classified, poi)
		}
	}
	return classified, nil
}

// List returns a page of stored itineraries plus the total count.
func (s *ItineraryService) List(ctx context.Context, offset, limit int) ([]domain.Itinerary, int, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	cacheKey := fmt.Sprintf("itineraries:list:%d:%d", offset, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var page listPage
			if err := json.Unmarshal(data, &page); err == nil {
				metrics.CacheHits.WithLabelValues("itineraries:list").Inc()
				return page.Items, page.Total, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("itineraries:list").Inc()
	}

	items, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	// Cache for a minute; Generate invalidates the first pages on write
	if s.cache != nil {
		if data, err := json.Marshal(listPage{Items: items, Total: total}); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return items, total, nil
}

// GetByID returns a single stored itinerary.
func (s *ItineraryService) GetByID(ctx context.Context, id string) (*domain.Itinerary, error) {
	cacheKey := "itineraries:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var itinerary domain.Itinerary
			if err := json.Unmarshal(data, &itinerary); err == nil {
				metrics.CacheHits.WithLabelValues("itineraries:id").Inc()
				return &itinerary, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("itineraries:id").Inc()
	}

	itinerary, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(itinerary); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}
	return itinerary, nil
}

// Delete removes a stored itinerary. Used by the planner workflow to undo a
// persisted itinerary whose publish step failed.
func (s *ItineraryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "itineraries:id:"+id)
		s.invalidateListCache(ctx)
	}
	return nil
}

type listPage struct {
	Items []domain.Itinerary `json:"items"`
	Total int                `json:"total"`
}

func (s *ItineraryService) resolveOrDegrade(ctx context.Context, place string) domain.GeocodeResult {
	result, err := s.ResolveCity(ctx, place)
	if err == nil {
		return *result
	}

	switch {
	case errors.Is(err, domain.ErrGeocodeNoResult):
		slog.Warn("no geocode match, pinning to origin", "place", place)
	default:
		slog.Warn("geocoding unavailable, pinning to origin", "place", place, "error", err)
	}
	metrics.GeocodeFallbacks.Inc()
	return domain.GeocodeResult{City: place, Location: domain.Origin}
}

func (s *ItineraryService) fetchCandidates(ctx context.Context, center domain.GeoPoint) []domain.PointOfInterest {
	classified, err := s.NearbyPOIs(ctx, center, s.opts.POIRadiusMeters)
	if err != nil {
		slog.Warn("POI fetch failed, day falls back to catalog",
			"lat", center.Lat, "lon", center.Lon, "error", err)
		return nil
	}
	return classified
}

func (s *ItineraryService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Only the first pages are hot; deeper pages expire on their own.
	for _, limit := range []int{10, 20, 50} {
		_ = s.cache.Delete(ctx, fmt.Sprintf("itineraries:list:0:%d", limit))
	}
}
