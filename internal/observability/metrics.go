package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	AuthResultSuccess = "success"
	AuthResultFailure = "failure"
	AuthResultError   = "error"
)

// Metrics holds every custom metric of the service. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Credential Metrics
	AuthAttemptsTotal *prometheus.CounterVec
	UsersCreatedTotal *prometheus.CounterVec

	// Store Metrics
	StoreOperationDuration *prometheus.HistogramVec
}

// NewMetrics registers all metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		AuthAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Total number of credential checks by outcome",
			},
			[]string{"result"}, // success, failure, error
		),

		UsersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "users_created_total",
				Help: "Total number of user records created",
			},
			[]string{"role"},
		),

		StoreOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_operation_duration_seconds",
				Help:    "Duration of credential store operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"backend", "operation"},
		),
	}
}

func (m *Metrics) ObserveAuthAttempt(result string) {
	if m == nil {
		return
	}
	m.AuthAttemptsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveUserCreated(role string) {
	if m == nil {
		return
	}
	m.UsersCreatedTotal.WithLabelValues(role).Inc()
}

// ObserveStoreOperation is meant to be deferred with the start time of the call.
func (m *Metrics) ObserveStoreOperation(backend, operation string, start time.Time) {
	if m == nil {
		return
	}
	m.StoreOperationDuration.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
}
