package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworking_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coworking_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BookingOperationsTotal counts booking mutations by operation and outcome.
	BookingOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworking_booking_operations_total",
			Help: "Total number of booking create/update/cancel attempts",
		},
		[]string{"operation", "outcome"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworking_events_published_total",
			Help: "Total number of booking events handed to the broker",
		},
		[]string{"status"},
	)

	EventQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coworking_event_queue_length",
			Help: "Current number of events waiting to be published",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordBookingOperation records the outcome of a booking mutation,
// e.g. ("create", "ok") or ("update", "conflict").
func RecordBookingOperation(operation, outcome string) {
	BookingOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func RecordEvent(status string) {
	EventsPublishedTotal.WithLabelValues(status).Inc()
}
