package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	KYCSubmissions    prometheus.Counter
	CredentialsIssued prometheus.Counter
	IssuanceFailures  *prometheus.CounterVec
	AlertsSent        *prometheus.CounterVec
	AlertsResolved    prometheus.Counter
	TripsCreated      prometheus.Counter
	LocationSamples   prometheus.Counter
	RequestLatency    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		KYCSubmissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "safetrail_kyc_submissions_total",
			Help: "Total number of identity verification submissions accepted",
		}),
		CredentialsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "safetrail_credentials_issued_total",
			Help: "Total number of digital travel credentials issued",
		}),
		IssuanceFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "safetrail_issuance_failures_total",
			Help: "Credential issuance failures by stage",
		}, []string{"stage"}),
		AlertsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "safetrail_sos_alerts_total",
			Help: "Emergency alerts dispatched by type",
		}, []string{"alert_type"}),
		AlertsResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "safetrail_sos_alerts_resolved_total",
			Help: "Emergency alerts transitioned to a terminal status",
		}),
		TripsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "safetrail_trips_created_total",
			Help: "Total number of trips created",
		}),
		LocationSamples: promauto.NewCounter(prometheus.CounterOpts{
			Name: "safetrail_location_samples_total",
			Help: "Location samples accepted by the throttled sampler",
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "safetrail_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
}
