package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// searchResult is one entry of a Nominatim /search response.
// API docs: https://nominatim.org/release-docs/develop/api/Search/
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Client implements ports.Geocoder against a Nominatim-compatible endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// New creates a geocoding client. requestsPerSecond throttles outbound
// lookups; the public Nominatim instance allows at most one per second and
// requires an identifying User-Agent.
func New(baseURL, userAgent string, timeout time.Duration, requestsPerSecond float64) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Resolve looks up a place name and returns its top match.
// Zero matches yield domain.ErrGeocodeNoResult; transport or decode failures
// yield domain.ErrGeocodingUnavailable. The caller decides whether either one
// degrades or aborts.
func (c *Client) Resolve(ctx context.Context, place string) (*domain.GeocodeResult, error) {
	if place == "" {
		return nil, fmt.Errorf("%w: empty place name", domain.ErrInvalidInput)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeocodingUnavailable, err)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeocodingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrGeocodingUnavailable, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrGeocodingUnavailable, err)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrGeocodeNoResult, place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad latitude %q", domain.ErrGeocodingUnavailable, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad longitude %q", domain.ErrGeocodingUnavailable, results[0].Lon)
	}

	city := results[0].DisplayName
	if city == "" {
		city = place
	}

	return &domain.GeocodeResult{
		City:     city,
		Location: domain.GeoPoint{Lat: lat, Lon: lon},
	}, nil
}
