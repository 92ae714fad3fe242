package utils

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cleanly",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cleanly",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cleanly",
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		},
	)

	// AppointmentsBooked counts appointments created.
	AppointmentsBooked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cleanly",
			Name:      "appointments_booked_total",
			Help:      "Appointments created.",
		},
	)

	// PayoutsProcessed counts payout transfer attempts by outcome.
	PayoutsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cleanly",
			Name:      "payouts_processed_total",
			Help:      "Payout transfers by outcome.",
		},
		[]string{"status"},
	)

	// ModerationActions counts cleaner moderation actions.
	ModerationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cleanly",
			Name:      "cleaner_moderation_actions_total",
			Help:      "Freeze, unfreeze and warn actions.",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		httpInFlight,
		AppointmentsBooked,
		PayoutsProcessed,
		ModerationActions,
	)
}

// MetricsMiddleware records request count, latency and in-flight requests.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpInFlight.Inc()
		start := time.Now()
		c.Next()
		httpInFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler serves the Prometheus registry.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
