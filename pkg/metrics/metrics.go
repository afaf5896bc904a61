package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec

	// Transition engine metrics
	TransitionsTotal   *prometheus.CounterVec
	SettlementWarnings *prometheus.CounterVec

	// Outbox metrics
	OutboxEventsProcessed prometheus.Counter
	OutboxEventsFailed    prometheus.Counter
	OutboxRetries         *prometheus.CounterVec
	OutboxLatency         prometheus.Histogram
}

func New(prefix string) *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_appointment_transitions_total",
			Help: "Appointment status transitions applied",
		}, []string{"from", "to"}),
		SettlementWarnings: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_settlement_warnings_total",
			Help: "Side effects that failed and were logged",
		}, []string{"effect"}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_outbox_events_processed_total",
			Help: "The total number of processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_outbox_events_failed_total",
			Help: "The total number of failed outbox events",
		}),
		OutboxRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_outbox_event_retry_total",
			Help: "Number of outbox event retries",
		}, []string{"event_type"}),
		OutboxLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    prefix + "_outbox_processing_duration_seconds",
			Help:    "Time spent processing outbox events",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
