package rest

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/datesafe/verification-backend/internal/infrastructure/config"
	"github.com/datesafe/verification-backend/internal/metrics"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Handler *Handler
	// Events serves GET /api/v1/events; nil disables the endpoint.
	Events http.HandlerFunc
	// Metrics serves GET /metrics and instruments routes; nil disables both.
	Metrics *metrics.Registry
	Logger  *zap.Logger
	Config  *config.Config
}

// NewRouter assembles the full HTTP surface: the verification API behind the
// middleware chain, plus the unauthenticated health and metrics endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/verifications",
		instrument(deps.Metrics, "/api/v1/verifications", deps.Handler.CreateVerification))
	api.HandleFunc("GET /api/v1/verifications",
		instrument(deps.Metrics, "/api/v1/verifications", deps.Handler.ListVerifications))
	api.HandleFunc("GET /api/v1/verifications/{id}",
		instrument(deps.Metrics, "/api/v1/verifications/{id}", deps.Handler.GetVerification))
	if deps.Events != nil {
		api.HandleFunc("GET /api/v1/events", deps.Events)
	}

	var (
		rps    int
		burst  int
		secret string
	)
	if deps.Config != nil {
		rps = deps.Config.Security.RateLimit.RequestsPerSecond
		burst = deps.Config.Security.RateLimit.BurstSize
		secret = deps.Config.Security.JWTSecret
	}

	protected := Chain(api,
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		RateLimitMiddleware(rps, burst),
		AuthMiddleware(secret),
	)

	root := http.NewServeMux()
	root.Handle("/api/", protected)
	root.HandleFunc("GET /healthz", deps.Handler.Healthz)
	root.HandleFunc("GET /readyz", deps.Handler.Readyz)
	if deps.Metrics != nil {
		root.Handle("GET /metrics", deps.Metrics.Handler())
	}
	return root
}

// instrument records per-route request counts and latency.
func instrument(reg *metrics.Registry, route string, next http.HandlerFunc) http.HandlerFunc {
	if reg == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		reg.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		reg.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
