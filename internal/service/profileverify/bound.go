package profileverify

import (
	"context"

	"go.uber.org/zap"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// FetcherFactory acquires a short-lived SocialProfileFetcher for one
// verification call. The release func must always be safe to call; factories
// wrapping browser automation close the browser there.
type FetcherFactory func(ctx context.Context) (SocialProfileFetcher, func(), error)

// BoundVerifier couples the service with a fetcher factory so every
// verification call acquires and releases its own fetcher. Nothing
// browser-shaped survives across requests.
type BoundVerifier struct {
	svc     *Service
	factory FetcherFactory
}

// NewBoundVerifier wraps the service. A nil factory degrades every call to
// fetcher-absent semantics.
func NewBoundVerifier(svc *Service, factory FetcherFactory) *BoundVerifier {
	return &BoundVerifier{svc: svc, factory: factory}
}

// Verify acquires a fetcher, runs the verification and releases the fetcher.
// A factory failure degrades to a fetcher-less run rather than failing.
func (b *BoundVerifier) Verify(ctx context.Context, urls []string, claimed *verification.ProfileData) (verification.ProfileVerificationResult, error) {
	var fetcher SocialProfileFetcher
	if b.factory != nil {
		f, release, err := b.factory(ctx)
		if err != nil {
			b.svc.logger.Warn("profile fetcher acquisition failed, continuing without fetcher",
				zap.Error(err))
		} else {
			defer release()
			fetcher = f
		}
	}
	return b.svc.Verify(ctx, fetcher, urls, claimed)
}
