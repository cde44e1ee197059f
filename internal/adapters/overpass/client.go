package overpass

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	overpassql "github.com/serjvanilla/go-overpass"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// tagSelectors are the tag classes eligible for day plans: activities
// (nature, attractions, historic sites), lodging, and food.
var tagSelectors = []string{
	`["leisure"="nature_reserve"]`,
	`["tourism"="attraction"]`,
	`["natural"~"peak|waterfall|volcano|glacier|cave|beach"]`,
	`["historic"~"castle|monument|ruins"]`,
	`["tourism"~"hotel|guest_house|hostel|chalet|apartment"]`,
	`["amenity"~"restaurant|cafe|fast_food|bar|pub|food_court"]`,
}

// Client implements ports.POISource against an Overpass API endpoint.
type Client struct {
	client *overpassql.Client
}

// New creates an Overpass client. The http.Client timeout is the bound on
// each query; go-overpass does not thread a context through its requests.
func New(endpoint string, timeout time.Duration) *Client {
	httpClient := &http.Client{Timeout: timeout}
	client := overpassql.NewWithSettings(endpoint, 2, httpClient)
	return &Client{client: &client}
}

// FetchNearby queries tagged nodes and ways within radiusMeters of center.
// Any transport or decode failure is reported as ErrPOIServiceUnavailable;
// callers treat that as zero candidates, never as a fatal error.
func (c *Client) FetchNearby(ctx context.Context, center domain.GeoPoint, radiusMeters int) ([]domain.RawPOI, error) {
	result, err := c.execute(ctx, buildQuery(center, radiusMeters))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPOIServiceUnavailable, err)
	}
	return convert(result), nil
}

func (c *Client) execute(ctx context.Context, query string) (*overpassql.Result, error) {
	// Honor cancellation before dispatch; the query itself runs under the
	// http.Client timeout.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := c.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("overpass query failed: %w", err)
	}
	return &result, nil
}

// buildQuery assembles an Overpass QL union of node and way selectors around
// the given point.
func buildQuery(center domain.GeoPoint, radiusMeters int) string {
	around := fmt.Sprintf(`(around:%d,%f,%f)`, radiusMeters, center.Lat, center.Lon)

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, sel := range tagSelectors {
		fmt.Fprintf(&b, "\tnode%s%s;\n", sel, around)
		fmt.Fprintf(&b, "\tway%s%s;\n", sel, around)
	}
	b.WriteString(");\nout center;\n")
	return b.String()
}

func convert(result *overpassql.Result) []domain.RawPOI {
	var records []domain.RawPOI

	for _, node := range result.Nodes {
		records = append(records, domain.RawPOI{
			ID:       node.ID,
			Location: domain.GeoPoint{Lat: node.Lat, Lon: node.Lon},
			Tags:     node.Tags,
		})
	}

	// Ways are collapsed onto their member-node centroid.
	for _, way := range result.Ways {
		var lat, lon float64
		count := len(way.Nodes)
		if count == 0 {
			continue
		}
		for _, node := range way.Nodes {
			lat += node.Lat
			lon += node.Lon
		}
		lat /= float64(count)
		lon /= float64(count)

		records = append(records, domain.RawPOI{
			ID:       way.ID,
			Location: domain.GeoPoint{Lat: lat, Lon: lon},
			Tags:     way.Tags,
		})
	}

	return records
}
