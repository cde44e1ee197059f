package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/anaizpurua/ekobide/internal/adapters/http"
	"github.com/anaizpurua/ekobide/internal/core/domain"
	"github.com/anaizpurua/ekobide/internal/core/usecases"
)

// ---- Mock ports ----

type mockGeocoder struct {
	resolveFn func(ctx context.Context, place string) (*domain.GeocodeResult, error)
}

func (m *mockGeocoder) Resolve(ctx context.Context, place string) (*domain.GeocodeResult, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, place)
	}
	return &domain.GeocodeResult{City: place, Location: domain.GeoPoint{Lat: 43.263, Lon: -2.935}}, nil
}

type mockPOISource struct {
	fetchFn func(ctx context.Context, center domain.GeoPoint, radiusMeters int) ([]domain.RawPOI, error)
}

func (m *mockPOISource) FetchNearby(ctx context.Context, center domain.GeoPoint, radiusMeters int) ([]domain.RawPOI, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, center, radiusMeters)
	}
	return nil, nil
}

type mockItineraryRepo struct {
	saveFn    func(ctx context.Context, it *domain.Itinerary) (string, error)
	listFn    func(ctx context.Context, offset, limit int) ([]domain.Itinerary, int, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Itinerary, error)
}

func (m *mockItineraryRepo) Save(ctx context.Context, it *domain.Itinerary) (string, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, it)
	}
	return "it-1", nil
}
func (m *mockItineraryRepo) List(ctx context.Context, offset, limit int) ([]domain.Itinerary, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}
func (m *mockItineraryRepo) GetByID(ctx context.Context, id string) (*domain.Itinerary, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *mockItineraryRepo) Delete(ctx context.Context, id string) error { return nil }

type mockTransportRepo struct {
	listFn func(ctx context.Context) ([]domain.TransportMode, error)
}

func (m *mockTransportRepo) List(ctx context.Context) ([]domain.TransportMode, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []domain.TransportMode{
		{ID: "train", Name: "Train", GramsPerKm: 14},
		{ID: "plane", Name: "Short-haul flight", GramsPerKm: 255},
	}, nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	composer, err := usecases.NewComposer(usecases.DefaultFallbackCatalog())
	if err != nil {
		panic(err)
	}
	d := &handler.Dependencies{
		Itineraries: usecases.NewItineraryService(
			&mockGeocoder{}, &mockPOISource{}, &mockItineraryRepo{}, nil, nil, composer,
			usecases.ItineraryOptions{}),
		Carbon: usecases.NewCarbonService(&mockTransportRepo{}, nil),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func itineraryService(geocoder *mockGeocoder, pois *mockPOISource, repo *mockItineraryRepo) *usecases.ItineraryService {
	composer, err := usecases.NewComposer(usecases.DefaultFallbackCatalog())
	if err != nil {
		panic(err)
	}
	return usecases.NewItineraryService(geocoder, pois, repo, nil, nil, composer, usecases.ItineraryOptions{})
}

func sampleItinerary() *domain.Itinerary {
	wp := domain.GeoPoint{Lat: 43.263, Lon: -2.935}
	return &domain.Itinerary{
		ID:              "it-1",
		Source:          domain.GeocodeResult{City: "Bilbao", Location: wp},
		Destination:     domain.GeocodeResult{City: "Paris", Location: domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}},
		TotalDistanceKm: 784,
		Days: []domain.DayPlan{
			{
				Day:      1,
				Waypoint: wp,
				Activity: domain.PointOfInterest{Name: "Anboto", Category: domain.CategoryActivity},
				Lunch:    domain.PointOfInterest{Name: "Azurmendi", Category: domain.CategoryLunch},
				Lodging:  domain.PointOfInterest{Name: "Eco-Lodge Retreat", Category: domain.CategoryLodging, EcoRating: 4, Synthetic: true},
			},
		},
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

// ---- Itinerary handler tests ----

func TestCreateItinerary_Success(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"source_city":"Bilbao","destination_city":"Paris","number_of_days":3}`
	req := httptest.NewRequest("POST", "/v1/itineraries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var it domain.Itinerary
	if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
		t.Fatal(err)
	}
	if it.ID != "it-1" {
		t.Errorf("expected id it-1, got %q", it.ID)
	}
	if len(it.Days) != 3 {
		t.Errorf("expected 3 days, got %d", len(it.Days))
	}
}

func TestCreateItinerary_InvalidInput(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"source_city":"","destination_city":"Paris","number_of_days":3}`
	req := httptest.NewRequest("POST", "/v1/itineraries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request, got %s", apiErr.Code)
	}
}

func TestCreateItinerary_MalformedBody(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/itineraries", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListItineraries_Pagination(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Itineraries = itineraryService(&mockGeocoder{}, &mockPOISource{}, &mockItineraryRepo{
			listFn: func(ctx context.Context, offset, limit int) ([]domain.Itinerary, int, error) {
				if offset != 2 || limit != 2 {
					t.Errorf("expected offset=2 limit=2, got offset=%d limit=%d", offset, limit)
				}
				return []domain.Itinerary{*sampleItinerary(), *sampleItinerary()}, 5, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/itineraries?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if link := resp.Header.Get("Link"); !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected next link header, got %q", link)
	}

	var result struct {
		Data       []domain.Itinerary `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 itineraries in page, got %d", len(result.Data))
	}
}

func TestGetItinerary_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Itineraries = itineraryService(&mockGeocoder{}, &mockPOISource{}, &mockItineraryRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Itinerary, error) {
				return sampleItinerary(), nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/itineraries/it-1", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var it domain.Itinerary
	json.NewDecoder(resp.Body).Decode(&it)
	if it.Source.City != "Bilbao" {
		t.Errorf("expected source Bilbao, got %s", it.Source.City)
	}
}

func TestGetItinerary_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/itineraries/missing", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "not_found" {
		t.Errorf("expected not_found, got %s", apiErr.Code)
	}
}

func TestExportItinerary_PDF(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Itineraries = itineraryService(&mockGeocoder{}, &mockPOISource{}, &mockItineraryRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Itinerary, error) {
				return sampleItinerary(), nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/itineraries/it-1/export", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", ct)
	}
	body := readBody(t, resp.Body)
	if !strings.HasPrefix(string(body), "%PDF") {
		t.Error("expected PDF magic bytes")
	}
}

// ---- Geocode handler tests ----

func TestGeocode_Success(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/geocode?place=Bilbao", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result domain.GeocodeResult
	json.NewDecoder(resp.Body).Decode(&result)
	if result.City != "Bilbao" {
		t.Errorf("expected Bilbao, got %s", result.City)
	}
}

func TestGeocode_MissingPlace(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/geocode", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGeocode_NoMatch(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Itineraries = itineraryService(&mockGeocoder{
			resolveFn: func(ctx context.Context, place string) (*domain.GeocodeResult, error) {
				return nil, domain.ErrGeocodeNoResult
			},
		}, &mockPOISource{}, &mockItineraryRepo{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/geocode?place=Atlantis", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGeocode_Upstream(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Itineraries = itineraryService(&mockGeocoder{
			resolveFn: func(ctx context.Context, place string) (*domain.GeocodeResult, error) {
				return nil, domain.ErrGeocodingUnavailable
			},
		}, &mockPOISource{}, &mockItineraryRepo{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/geocode?place=Bilbao", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 502 {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "upstream_unavailable" {
		t.Errorf("expected upstream_unavailable, got %s", apiErr.Code)
	}
}

// ---- POI handler tests ----

func TestNearbyPOIs_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Itineraries = itineraryService(&mockGeocoder{}, &mockPOISource{
			fetchFn: func(ctx context.Context, center domain.GeoPoint, radiusMeters int) ([]domain.RawPOI, error) {
				return []domain.RawPOI{
					{ID: 1, Location: center, Tags: map[string]string{"name": "Anboto", "natural": "peak"}},
					{ID: 2, Location: center, Tags: map[string]string{"name": "Azurmendi", "amenity": "restaurant"}},
				}, nil
			},
		}, &mockItineraryRepo{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/pois/nearby?lat=43.263&lon=-2.935", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		POIs  []domain.PointOfInterest `json:"pois"`
		Count int                      `json:"count"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Count != 2 {
		t.Errorf("expected 2 POIs, got %d", result.Count)
	}
}

func TestNearbyPOIs_CategoryFilter(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Itineraries = itineraryService(&mockGeocoder{}, &mockPOISource{
			fetchFn: func(ctx context.Context, center domain.GeoPoint, radiusMeters int) ([]domain.RawPOI, error) {
				return []domain.RawPOI{
					{ID: 1, Tags: map[string]string{"name": "Anboto", "natural": "peak"}},
					{ID: 2, Tags: map[string]string{"name": "Azurmendi", "amenity": "restaurant"}},
				}, nil
			},
		}, &mockItineraryRepo{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/pois/nearby?lat=43.263&lon=-2.935&category=lunch", nil)
	resp, _ := app.Test(req, -1)

	var result struct {
		POIs []domain.PointOfInterest `json:"pois"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.POIs) != 1 || result.POIs[0].Name != "Azurmendi" {
		t.Errorf("expected only the lunch POI, got %+v", result.POIs)
	}
}

func TestNearbyPOIs_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/pois/nearby", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyPOIs_Upstream(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Itineraries = itineraryService(&mockGeocoder{}, &mockPOISource{
			fetchFn: func(ctx context.Context, center domain.GeoPoint, radiusMeters int) ([]domain.RawPOI, error) {
				return nil, domain.ErrPOIServiceUnavailable
			},
		}, &mockItineraryRepo{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/pois/nearby?lat=43.263&lon=-2.935", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 502 {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

// ---- Carbon handler tests ----

func TestTransportModes(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/transport/options", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var modes []domain.TransportMode
	json.NewDecoder(resp.Body).Decode(&modes)
	if len(modes) != 2 {
		t.Errorf("expected 2 modes, got %d", len(modes))
	}
}

func TestCarbonCompare_ByDistance(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/carbon/compare?distance_km=100&passengers=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		DistanceKm float64                 `json:"distance_km"`
		Estimates  []domain.CarbonEstimate `json:"estimates"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.DistanceKm != 100 {
		t.Errorf("expected distance 100, got %f", result.DistanceKm)
	}
	if len(result.Estimates) != 2 {
		t.Fatalf("expected 2 estimates, got %d", len(result.Estimates))
	}
	if result.Estimates[0].Mode.ID != "train" {
		t.Errorf("expected cleanest mode first, got %s", result.Estimates[0].Mode.ID)
	}
}

func TestCarbonCompare_ByCities(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Itineraries = itineraryService(&mockGeocoder{
			resolveFn: func(ctx context.Context, place string) (*domain.GeocodeResult, error) {
				if place == "Bilbao" {
					return &domain.GeocodeResult{City: place, Location: domain.GeoPoint{Lat: 43.263, Lon: -2.935}}, nil
				}
				return &domain.GeocodeResult{City: place, Location: domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}}, nil
			},
		}, &mockPOISource{}, &mockItineraryRepo{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/carbon/compare?from=Bilbao&to=Paris", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		DistanceKm float64 `json:"distance_km"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.DistanceKm < 700 || result.DistanceKm > 900 {
		t.Errorf("Bilbao-Paris distance out of range: %f", result.DistanceKm)
	}
}

func TestCarbonCompare_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/carbon/compare", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Middleware tests ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSecurityHeaders(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff, got %q", got)
	}
	if got := resp.Header.Get("X-API-Version"); got == "" {
		t.Error("expected X-API-Version header")
	}
}

func TestETag_NotModified(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/transport/options", nil)
	resp, _ := app.Test(req, -1)
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header")
	}

	req2 := httptest.NewRequest("GET", "/v1/transport/options", nil)
	req2.Header.Set("If-None-Match", etag)
	resp2, _ := app.Test(req2, -1)
	if resp2.StatusCode != 304 {
		t.Fatalf("expected 304, got %d", resp2.StatusCode)
	}
}

// ---- GraphQL tests ----

func TestGraphQL_TransportModes(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"query":"{ transportModes { id grams_per_km } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			TransportModes []struct {
				ID string `json:"id"`
			} `json:"transportModes"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected graphql errors: %v", result.Errors)
	}
	if len(result.Data.TransportModes) != 2 {
		t.Errorf("expected 2 modes, got %d", len(result.Data.TransportModes))
	}
}

func TestGraphQL_GenerateItinerary(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"query":"mutation { generateItinerary(source: \"Bilbao\", destination: \"Paris\", days: 2) { id days { day } } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			GenerateItinerary struct {
				ID   string `json:"id"`
				Days []struct {
					Day int `json:"day"`
				} `json:"days"`
			} `json:"generateItinerary"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected graphql errors: %v", result.Errors)
	}
	if len(result.Data.GenerateItinerary.Days) != 2 {
		t.Errorf("expected 2 days, got %d", len(result.Data.GenerateItinerary.Days))
	}
}
