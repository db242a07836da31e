package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMiddleware records per-route request counts and latencies and
// exposes the prometheus scrape handler.
type MetricsMiddleware struct {
	serviceName string
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	registry    *prometheus.Registry
}

// NewMetricsMiddleware builds the middleware with its own registry, so tests
// can construct it repeatedly without duplicate-registration panics.
func NewMetricsMiddleware(serviceName string) *MetricsMiddleware {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	registry.MustRegister(requests, duration)

	return &MetricsMiddleware{
		serviceName: serviceName,
		requests:    requests,
		duration:    duration,
		registry:    registry,
	}
}

// Handle records one observation per completed request, labeled by the
// registered route pattern rather than the raw URL.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		status := c.Response().Status
		if err != nil {
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}
		}
		method := c.Request().Method
		path := c.Path()
		statusStr := strconv.Itoa(status)

		m.requests.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
		m.duration.WithLabelValues(m.serviceName, method, path, statusStr).Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler returns the scrape endpoint for this middleware's registry.
func (m *MetricsMiddleware) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
