package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/anaizpurua/ekobide/internal/core/domain"
	"github.com/anaizpurua/ekobide/internal/core/ports"
)

// CarbonService compares the emission footprint of transport modes over a
// given distance.
type CarbonService struct {
	modes ports.TransportModeRepository
	cache ports.CacheService
}

// NewCarbonService creates a new CarbonService.
func NewCarbonService(modes ports.TransportModeRepository, cache ports.CacheService) *CarbonService {
	return &CarbonService{modes: modes, cache: cache}
}

// ListModes returns all transport modes ordered by emission factor.
func (s *CarbonService) ListModes(ctx context.Context) ([]domain.TransportMode, error) {
	cacheKey := "transport:modes"
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var modes []domain.TransportMode
			if err := json.Unmarshal(data, &modes); err == nil {
				return modes, nil
			}
		}
	}

	modes, err := s.modes.List(ctx)
	if err != nil {
		return nil, err
	}

	// Cache for an hour (the mode table is seed data)
	if s.cache != nil {
		if data, err := json.Marshal(modes); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}
	return modes, nil
}

// Compare estimates per-passenger emissions for every transport mode over
// distanceKm and reports each mode's savings against the worst option.
func (s *CarbonService) Compare(ctx context.Context, distanceKm float64, passengers int) ([]domain.CarbonEstimate, error) {
	if distanceKm < 0 {
		return nil, fmt.Errorf("%w: distance must not be negative", domain.ErrInvalidInput)
	}
	if passengers < 1 {
		passengers = 1
	}

	modes, err := s.ListModes(ctx)
	if err != nil {
		return nil, err
	}

	estimates := make([]domain.CarbonEstimate, 0, len(modes))
	worst := 0.0
	for _, mode := range modes {
		perPassenger := float64(mode.GramsPerKm) * distanceKm
		estimate := domain.CarbonEstimate{
			Mode:              mode,
			DistanceKm:        distanceKm,
			Passengers:        passengers,
			GramsPerPassenger: perPassenger,
			TotalGrams:        perPassenger * float64(passengers),
		}
		if estimate.TotalGrams > worst {
			worst = estimate.TotalGrams
		}
		estimates = append(estimates, estimate)
	}

	for i := range estimates {
		estimates[i].SavingsVsWorstOption = worst - estimates[i].TotalGrams
	}
	sort.SliceStable(estimates, func(i, j int) bool {
		return estimates[i].TotalGrams < estimates[j].TotalGrams
	})
	return estimates, nil
}
