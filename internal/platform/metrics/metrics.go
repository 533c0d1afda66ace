package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the web client.
type Metrics struct {
	PageRenders          *prometheus.CounterVec
	UpstreamLatency      *prometheus.HistogramVec
	UpstreamErrors       *prometheus.CounterVec
	AuthFailures         prometheus.Counter
	SessionActive        prometheus.Gauge
	EnrollmentsSubmitted prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PageRenders: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathshala_page_renders_total",
			Help: "Total page renders, labeled by page and outcome (ready, error, empty)",
		}, []string{"page", "outcome"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathshala_upstream_latency_seconds",
			Help:    "Latency of calls to the course API and identity provider",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathshala_upstream_errors_total",
			Help: "Total failed upstream calls, labeled by operation",
		}, []string{"operation"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pathshala_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		SessionActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pathshala_session_active",
			Help: "1 while a user session is present, 0 otherwise",
		}),
		EnrollmentsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pathshala_enrollments_submitted_total",
			Help: "Total enrollment create operations submitted",
		}),
	}
}
