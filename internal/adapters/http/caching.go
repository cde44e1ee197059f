package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != "GET" {
			return err
		}
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0"

		case path == "/v1/geocode":
			ttl = "public, max-age=86400" // Place coordinates rarely move

		case path == "/v1/pois/nearby":
			ttl = "public, max-age=300" // 5 min for location queries

		case path == "/v1/transport/options" || path == "/v1/carbon/compare":
			ttl = "public, max-age=3600" // Seed data, stable

		case strings.HasPrefix(path, "/v1/itineraries/") && strings.HasSuffix(path, "/export"):
			ttl = "no-store" // Generated documents

		case strings.HasPrefix(path, "/v1/itineraries/"):
			ttl = "public, max-age=600" // 10 min for a single itinerary

		case path == "/v1/itineraries":
			ttl = "public, max-age=60" // List changes on every generation

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300" // 5 min default for API endpoints
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}
		return err
	}
}
