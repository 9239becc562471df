package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	BookingsTotal    *prometheus.CounterVec
	BookingsRejected *prometheus.CounterVec
	TransitionsTotal *prometheus.CounterVec
	QueueDepth       *prometheus.GaugeVec

	StoreWriteFailures prometheus.Counter
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		BookingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinic",
			Name:      "bookings_total",
			Help:      "Accepted bookings by appointment type.",
		}, []string{"type"}),

		BookingsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinic",
			Name:      "bookings_rejected_total",
			Help:      "Refused bookings by conflict reason.",
		}, []string{"reason"}),

		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinic",
			Name:      "status_transitions_total",
			Help:      "Appointment lifecycle transitions by resulting status.",
		}, []string{"status"}),

		QueueDepth: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "clinic",
			Name:      "queue_depth",
			Help:      "Current depth of the waiting queues.",
		}, []string{"queue"}),

		StoreWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "store",
			Name:      "write_failures_total",
			Help:      "File rewrites that failed; the service keeps running in memory. Alert if non-zero.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
