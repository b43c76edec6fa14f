package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

const resultKeyPrefix = "verification:result:"

// ResultCache memoizes completed verification results by request
// fingerprint. Cache trouble degrades to recompute, never to failure.
type ResultCache struct {
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewResultCache wraps a Cache. A nil cache disables memoization.
func NewResultCache(cache Cache, ttl time.Duration, logger *zap.Logger) *ResultCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultCache{cache: cache, ttl: ttl, logger: logger}
}

// Get returns the memoized result for the fingerprint, or nil on miss or
// error.
func (c *ResultCache) Get(ctx context.Context, fingerprint string) *verification.ComprehensiveVerificationResult {
	if c == nil || c.cache == nil {
		return nil
	}

	var result verification.ComprehensiveVerificationResult
	err := c.cache.GetJSON(ctx, resultKeyPrefix+fingerprint, &result)
	if err != nil {
		if !IsNotFound(err) {
			c.logger.Warn("result cache read failed",
				zap.String("fingerprint", fingerprint), zap.Error(err))
		}
		return nil
	}
	return &result
}

// Put stores the result, best effort.
func (c *ResultCache) Put(ctx context.Context, fingerprint string, result *verification.ComprehensiveVerificationResult) {
	if c == nil || c.cache == nil || result == nil {
		return
	}

	if err := c.cache.SetJSON(ctx, resultKeyPrefix+fingerprint, result, c.ttl); err != nil {
		c.logger.Warn("result cache write failed",
			zap.String("fingerprint", fingerprint), zap.Error(err))
	}
}
