package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dsverrors "github.com/datesafe/verification-backend/internal/domain/errors"
	"github.com/datesafe/verification-backend/internal/domain/verification"
	"github.com/datesafe/verification-backend/internal/infrastructure/cache"
	"github.com/datesafe/verification-backend/internal/infrastructure/repository"
	"github.com/datesafe/verification-backend/internal/metrics"
)

const maxRequestBody = 4 << 20

// VerificationEngine runs the fusion pipeline. It is total: provider trouble
// degrades the result instead of failing the call.
type VerificationEngine interface {
	Verify(ctx context.Context, req *verification.VerificationRequest) *verification.ComprehensiveVerificationResult
}

// ResultStore persists completed results for the history endpoints.
type ResultStore interface {
	Store(ctx context.Context, fingerprint string, result *verification.ComprehensiveVerificationResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*verification.ComprehensiveVerificationResult, error)
	ListRecent(ctx context.Context, limit int) ([]repository.ResultSummary, error)
}

// EventPublisher pushes completed results to live subscribers.
type EventPublisher interface {
	Publish(result *verification.ComprehensiveVerificationResult)
}

// Handler serves the verification API. Store, cache, publisher and metrics
// are all optional; a nil dependency simply disables that concern.
type Handler struct {
	engine    VerificationEngine
	store     ResultStore
	results   *cache.ResultCache
	publisher EventPublisher
	metrics   *metrics.Registry
	logger    *zap.Logger
	ready     func(ctx context.Context) error
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

func WithResultStore(store ResultStore) HandlerOption {
	return func(h *Handler) { h.store = store }
}

func WithResultCache(rc *cache.ResultCache) HandlerOption {
	return func(h *Handler) { h.results = rc }
}

func WithEventPublisher(p EventPublisher) HandlerOption {
	return func(h *Handler) { h.publisher = p }
}

func WithMetrics(reg *metrics.Registry) HandlerOption {
	return func(h *Handler) { h.metrics = reg }
}

// WithReadinessCheck sets the probe consulted by GET /readyz.
func WithReadinessCheck(check func(ctx context.Context) error) HandlerOption {
	return func(h *Handler) { h.ready = check }
}

// NewHandler wires the verification handler.
func NewHandler(engine VerificationEngine, logger *zap.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{engine: engine, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CreateVerification handles POST /api/v1/verifications.
//
// The only client errors are malformed JSON and structural validation
// failures. Provider-level trouble is expressed inside the result, so a
// well-formed request always gets a 200 with a complete result.
func (h *Handler) CreateVerification(w http.ResponseWriter, r *http.Request) {
	var req verification.VerificationRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, dsverrors.NewMalformedInputError("body", "request body is not valid JSON"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, dsverrors.NewValidationError("INVALID_REQUEST", err.Error()))
		return
	}

	fingerprint := req.Fingerprint()
	if h.results != nil {
		if cached := h.results.Get(r.Context(), fingerprint); cached != nil {
			if h.metrics != nil {
				h.metrics.CacheHits.Inc()
			}
			writeJSON(w, http.StatusOK, cached)
			return
		}
		if h.metrics != nil {
			h.metrics.CacheMisses.Inc()
		}
	}

	start := time.Now()
	result := h.engine.Verify(r.Context(), &req)
	if h.metrics != nil {
		h.metrics.ObserveVerification(string(result.RiskLevel), result.OverallTrustScore, time.Since(start))
	}

	if h.results != nil {
		h.results.Put(r.Context(), fingerprint, result)
	}
	if h.store != nil {
		if err := h.store.Store(r.Context(), fingerprint, result); err != nil {
			// Persistence is best-effort; the caller still gets the result.
			h.logger.Error("failed to persist verification result",
				zap.Error(err),
				zap.String("verification_id", result.ID.String()))
		}
	}
	if h.publisher != nil {
		h.publisher.Publish(result)
	}

	writeJSON(w, http.StatusOK, result)
}

// GetVerification handles GET /api/v1/verifications/{id}.
func (h *Handler) GetVerification(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, dsverrors.NewMalformedInputError("id", "id must be a UUID"))
		return
	}

	if h.store == nil {
		writeError(w, dsverrors.NewNotFoundError("verification result"))
		return
	}

	result, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, dsverrors.NewNotFoundError("verification result"))
			return
		}
		h.logger.Error("failed to load verification result", zap.Error(err))
		writeError(w, dsverrors.NewInternalError("failed to load verification result"))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListVerifications handles GET /api/v1/verifications.
func (h *Handler) ListVerifications(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"results": []repository.ResultSummary{}})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, dsverrors.NewMalformedInputError("limit", "limit must be an integer"))
			return
		}
		limit = n
	}

	summaries, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list verification results", zap.Error(err))
		writeError(w, dsverrors.NewInternalError("failed to list verification results"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": summaries})
}

// Healthz reports process liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports whether downstream dependencies are reachable.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"reason": err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
