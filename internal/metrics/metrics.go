package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the registry service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Sync Metrics
	MembersPushedTotal   prometheus.CounterVec
	RecordsPulledTotal   prometheus.CounterVec
	SyncErrorsTotal      prometheus.CounterVec
	SyncRunDuration      prometheus.HistogramVec
	MembersExcludedTotal prometheus.Counter

	// Inventory Metrics
	BarcodesAvailable prometheus.Gauge
	BarcodesAssigned  prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "registry_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "registry_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		MembersPushedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_members_pushed_total",
				Help: "Members successfully pushed to the portal by push type",
			},
			[]string{"push_type"},
		),
		RecordsPulledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_records_pulled_total",
				Help: "Portal-edited records applied locally by model",
			},
			[]string{"model"},
		),
		SyncErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_sync_errors_total",
				Help: "Per-item sync failures by direction",
			},
			[]string{"direction"},
		),
		SyncRunDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "registry_sync_run_duration_seconds",
				Help:    "Sync run execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"run_type"},
		),
		MembersExcludedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "registry_members_excluded_total",
				Help: "Members withheld from pushes by the eligibility filter",
			},
		),

		BarcodesAvailable: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "registry_barcodes_available",
				Help: "Barcodes currently available for assignment",
			},
		),
		BarcodesAssigned: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "registry_barcodes_assigned",
				Help: "Barcodes currently bound to members",
			},
		),
	}
}
