package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/anaizpurua/ekobide/internal/core/domain"
	"github.com/anaizpurua/ekobide/internal/pkg/geospatial"
)

// CreateItineraryHandler generates a new itinerary from the request body.
func CreateItineraryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.ItineraryRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		itinerary, err := deps.Itineraries.Generate(c.UserContext(), req)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		return c.Status(201).JSON(itinerary)
	}
}

// ListItinerariesHandler returns a page of stored itineraries.
func ListItinerariesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 50 {
			limit = 20
		}

		itineraries, total, err := deps.Itineraries.List(c.UserContext(), offset, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: itineraries, Pagination: pg})
	}
}

// GetItineraryHandler returns a single itinerary by ID.
func GetItineraryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "itinerary id is required")
		}
		itinerary, err := deps.Itineraries.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "itinerary not found")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(itinerary)
	}
}

// GeocodeHandler resolves a place name to coordinates.
// Unlike generation, a failed lookup here is reported, not degraded.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		place := c.Query("place")
		if place == "" {
			return errBadRequest(c, "place query parameter is required")
		}
		if len(place) > 200 {
			return errBadRequest(c, "place too long (max 200 characters)")
		}

		result, err := deps.Itineraries.ResolveCity(c.UserContext(), place)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidInput):
				return errBadRequest(c, err.Error())
			case errors.Is(err, domain.ErrGeocodeNoResult):
				return errNotFound(c, "no match for place")
			default:
				return errUpstream(c, "geocoding service unavailable")
			}
		}
		return c.JSON(result)
	}
}

// NearbyPOIsHandler returns classified points of interest around a location.
func NearbyPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryInt("radius", 0)

		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return errBadRequest(c, "lat must be in [-90,90] and lon in [-180,180]")
		}
		if lat == 0 && lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius < 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 0 and 50000 meters")
		}

		pois, err := deps.Itineraries.NearbyPOIs(c.UserContext(), domain.GeoPoint{Lat: lat, Lon: lon}, radius)
		if err != nil {
			return errUpstream(c, "POI service unavailable")
		}

		category := domain.POICategory(c.Query("category"))
		if category != "" {
			filtered := pois[:0]
			for _, poi := range pois {
				if poi.Category == category {
					filtered = append(filtered, poi)
				}
			}
			pois = filtered
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(fiber.Map{"pois": pois, "count": len(pois)})
	}
}

// TransportModesHandler lists the known transport modes and their emission factors.
func TransportModesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		modes, err := deps.Carbon.ListModes(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(modes)
	}
}

// CarbonCompareHandler estimates per-mode emissions over a distance.
// GET /v1/carbon/compare?distance_km=784&passengers=2
// GET /v1/carbon/compare?from=Bilbao&to=Paris
func CarbonCompareHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		distanceKm := c.QueryFloat("distance_km", -1)
		passengers := c.QueryInt("passengers", 1)

		from := c.Query("from")
		to := c.Query("to")
		if distanceKm < 0 && from != "" && to != "" {
			src, err := deps.Itineraries.ResolveCity(c.UserContext(), from)
			if err != nil {
				return errBadRequest(c, "could not resolve 'from' city")
			}
			dst, err := deps.Itineraries.ResolveCity(c.UserContext(), to)
			if err != nil {
				return errBadRequest(c, "could not resolve 'to' city")
			}
			distanceKm = geospatial.HaversineKm(src.Location.Lat, src.Location.Lon, dst.Location.Lat, dst.Location.Lon)
		}
		if distanceKm < 0 {
			return errBadRequest(c, "distance_km or a from/to city pair is required")
		}

		estimates, err := deps.Carbon.Compare(c.UserContext(), distanceKm, passengers)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		return c.JSON(fiber.Map{
			"distance_km": distanceKm,
			"passengers":  passengers,
			"estimates":   estimates,
		})
	}
}

// StatsHandler returns row counts from the itinerary tables.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats struct {
			Itineraries    int    `json:"itineraries"`
			TransportModes int    `json:"transport_modes"`
			LastGenerated  string `json:"last_generated,omitempty"`
		}
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM itineraries),
				(SELECT count(*) FROM transport_modes),
				COALESCE((SELECT max(created_at)::text FROM itineraries), '')
		`)
		if err := row.Scan(&stats.Itineraries, &stats.TransportModes, &stats.LastGenerated); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}
