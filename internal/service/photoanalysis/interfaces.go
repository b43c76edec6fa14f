package photoanalysis

import (
	"context"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// FaceSignals is what the face-analysis provider recovers from one photo.
// Scores are percentages in [0,100]. Descriptor is an embedding used for
// cross-photo identity comparison; providers that cannot produce one return
// it empty and the photo is excluded from the comparison.
type FaceSignals struct {
	FaceCount              int
	EstimatedAge           float64
	DeepfakeProbability    float64
	ProfessionalLikelihood float64
	Descriptor             []float64
}

// FaceAnalyzer runs face detection and manipulation scoring on a single
// photo. Implementations wrap external vision services; a nil analyzer or a
// returned error degrades that photo to neutral defaults.
type FaceAnalyzer interface {
	AnalyzeFace(ctx context.Context, photo verification.PhotoReference) (FaceSignals, error)
}

// ReverseImageSearcher looks up where else a photo appears online.
type ReverseImageSearcher interface {
	Search(ctx context.Context, photo verification.PhotoReference) ([]verification.ReverseSearchMatch, error)
}

// MetadataExtractor recovers EXIF-level metadata from a photo.
type MetadataExtractor interface {
	Extract(ctx context.Context, photo verification.PhotoReference) (verification.PhotoMetadata, error)
}
