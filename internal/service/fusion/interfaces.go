package fusion

import (
	"context"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// PhotoProvider is the photo-forensics signal source.
type PhotoProvider interface {
	Analyze(ctx context.Context, photos []verification.PhotoReference) (verification.CatfishAnalysis, error)
}

// ConversationProvider is the behavioral signal source.
type ConversationProvider interface {
	Analyze(ctx context.Context, messages []verification.Message) (verification.ConversationAnalysis, error)
	DetectScammerType(ctx context.Context, messages []verification.Message) *verification.ScammerProfile
}

// ProfileProvider is the web-presence signal source.
type ProfileProvider interface {
	Verify(ctx context.Context, urls []string, claimed *verification.ProfileData) (verification.ProfileVerificationResult, error)
}
