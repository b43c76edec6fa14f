package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the application's Prometheus collectors.
type Registry struct {
	registry *prometheus.Registry

	// Verification pipeline
	VerificationsTotal   *prometheus.CounterVec
	VerificationDuration prometheus.Histogram
	TrustScore           prometheus.Histogram
	ProviderFailures     *prometheus.CounterVec
	CacheHits            prometheus.Counter
	CacheMisses          prometheus.Counter

	// HTTP surface
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Websocket
	EventSubscribers prometheus.Gauge
}

// NewRegistry builds all collectors on a fresh Prometheus registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)

	return &Registry{
		registry: reg,

		VerificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dsv_verifications_total",
			Help: "Completed verifications by resulting risk level.",
		}, []string{"risk_level"}),
		VerificationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dsv_verification_duration_seconds",
			Help:    "End-to-end verification pipeline duration.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		TrustScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dsv_trust_score",
			Help:    "Distribution of overall trust scores.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		ProviderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dsv_provider_failures_total",
			Help: "Signal provider failures by subsystem.",
		}, []string{"provider"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "dsv_result_cache_hits_total",
			Help: "Verification results served from the memoization cache.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "dsv_result_cache_misses_total",
			Help: "Verification requests not found in the memoization cache.",
		}),

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dsv_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dsv_http_request_duration_seconds",
			Help:    "HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		EventSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dsv_event_subscribers",
			Help: "Connected websocket event subscribers.",
		}),
	}
}

// ObserveVerification records one completed verification.
func (r *Registry) ObserveVerification(riskLevel string, trustScore float64, duration time.Duration) {
	r.VerificationsTotal.WithLabelValues(riskLevel).Inc()
	r.TrustScore.Observe(trustScore)
	r.VerificationDuration.Observe(duration.Seconds())
}

// Handler returns the /metrics scrape handler.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
