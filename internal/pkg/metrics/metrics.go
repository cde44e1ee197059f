package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ekobide",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ekobide",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ekobide",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Pipeline metrics
	ItinerariesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ekobide",
		Subsystem: "itinerary",
		Name:      "generated_total",
		Help:      "Total itineraries generated",
	})

	ItineraryDays = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ekobide",
		Subsystem: "itinerary",
		Name:      "days_per_trip",
		Help:      "Requested trip length in days",
		Buckets:   []float64{1, 2, 3, 5, 7, 10, 14, 21, 30},
	})

	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ekobide",
		Subsystem: "geocode",
		Name:      "requests_total",
		Help:      "Total geocoding lookups by outcome (ok, no_result, error)",
	}, []string{"outcome"})

	GeocodeFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ekobide",
		Subsystem: "geocode",
		Name:      "fallbacks_total",
		Help:      "Endpoints anchored at the default coordinate after a failed lookup",
	})

	GeocodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ekobide",
		Subsystem: "geocode",
		Name:      "duration_seconds",
		Help:      "Duration of geocoding lookups",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	POIFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ekobide",
		Subsystem: "poi",
		Name:      "fetches_total",
		Help:      "Total POI queries by outcome (ok, error)",
	}, []string{"outcome"})

	POIFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ekobide",
		Subsystem: "poi",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of POI queries",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	FallbackPOIs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ekobide",
		Subsystem: "itinerary",
		Name:      "fallback_pois_total",
		Help:      "Synthetic POIs substituted into day plans, by category",
	}, []string{"category"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ekobide",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ekobide",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ekobide",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ekobide",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ekobide",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics updates database pool gauges from pgx pool stats.
// Accepts any value with the pgxpool.Stat accessor methods so this package
// stays free of a pgx import.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
