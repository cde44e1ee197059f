package geospatial

import (
	"fmt"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// Interpolate returns segments+1 points linearly spaced in lat/lon between a
// (index 0) and b (index segments). Interpolation is planar, not geodesic:
// good enough for placing daily waypoints, not for navigation over
// transcontinental spans.
func Interpolate(a, b domain.GeoPoint, segments int) ([]domain.GeoPoint, error) {
	if segments < 1 {
		return nil, fmt.Errorf("segments must be >= 1, got %d", segments)
	}

	points := make([]domain.GeoPoint, 0, segments+1)
	for i := 0; i <= segments; i++ {
		f := float64(i) / float64(segments)
		points = append(points, domain.GeoPoint{
			Lat: a.Lat + (b.Lat-a.Lat)*f,
			Lon: a.Lon + (b.Lon-a.Lon)*f,
		})
	}
	// Pin the endpoints so rounding never shifts index 0 or segments.
	points[0] = a
	points[segments] = b
	return points, nil
}
